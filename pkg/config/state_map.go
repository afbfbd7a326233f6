package config

import "strings"

// DefaultStateMap maps condition synonyms to canonical effect keys.
// Canonical keys need no entry: an unmatched name is used as its own key.
var DefaultStateMap = map[string]string{
	"thunderstorm":  "lightning-rainy",
	"thunder":       "lightning-rainy",
	"storm":         "lightning-rainy",
	"heavy-rain":    "pouring",
	"rain":          "rainy",
	"drizzle":       "rainy",
	"showers":       "rainy",
	"snow":          "snowy",
	"sleet":         "snowy-rainy",
	"hail":          "snowy-rainy",
	"partly-cloudy": "partlycloudy",
	"overcast":      "cloudy",
	"foggy":         "fog",
	"mist":          "fog",
	"hazy":          "fog",
	"clear":         "sunny",
	"clear-day":     "sunny",

	"partly-cloudy-day":   "partlycloudy",
	"partly-cloudy-night": "partlycloudy",
	"windy":               "cloudy",
	"windy-variant":       "partlycloudy",
	"exceptional":         "cloudy",
}

// StateMapper normalizes raw weather condition strings into effect keys.
type StateMapper struct {
	aliases map[string]string
}

// NewStateMapper builds a mapper from the default table with overrides
// merged on top. Override keys and values are normalized like inputs.
func NewStateMapper(overrides map[string]string) *StateMapper {
	aliases := make(map[string]string, len(DefaultStateMap)+len(overrides))
	for k, v := range DefaultStateMap {
		aliases[k] = v
	}
	for k, v := range overrides {
		aliases[normalizeKey(k)] = normalizeKey(v)
	}
	return &StateMapper{aliases: aliases}
}

// Map returns the effect key for raw. An empty input yields "" (no effect).
func (m *StateMapper) Map(raw string) string {
	key := normalizeKey(raw)
	if key == "" {
		return ""
	}
	if alias, ok := m.aliases[key]; ok {
		return alias
	}
	return key
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
