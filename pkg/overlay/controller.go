package overlay

import (
	"fmt"
	"log"

	"github.com/gonewx/weather-overlay/pkg/config"
	"github.com/gonewx/weather-overlay/pkg/hass"
	"github.com/gonewx/weather-overlay/pkg/settings"
)

// ThunderSink receives thunder preference changes.
type ThunderSink interface {
	SetEnabled(enabled bool)
	SetVolume(volume float64)
}

// Controller applies poll Readings and local preferences to a Manager. It
// runs on the render goroutine, like the Manager itself.
type Controller struct {
	manager  *Manager
	mapper   *config.StateMapper
	keys     []string
	settings *settings.Manager
	thunder  ThunderSink

	last    hass.Reading
	hasLast bool
}

// NewController wires a manager to the mapper and settings. thunder may be
// nil.
func NewController(m *Manager, mapper *config.StateMapper, catalog config.Catalog, s *settings.Manager, thunder ThunderSink) *Controller {
	c := &Controller{
		manager:  m,
		mapper:   mapper,
		keys:     catalog.Keys(),
		settings: s,
		thunder:  thunder,
	}
	if thunder != nil {
		st := s.Get()
		thunder.SetEnabled(st.ThunderEnabled)
		thunder.SetVolume(st.ThunderVolume)
	}
	return c
}

// Apply makes the overlay reflect a Reading.
func (c *Controller) Apply(r hass.Reading) {
	c.last, c.hasLast = r, true
	c.refresh()
}

// Last returns the most recent Reading.
func (c *Controller) Last() (hass.Reading, bool) { return c.last, c.hasLast }

func (c *Controller) refresh() {
	st := c.settings.Get()
	visible := st.Enabled && (!c.hasLast || c.last.Enabled)
	c.manager.SetVisible(visible)

	if !visible {
		c.manager.SetCaption("")
		return
	}

	weather, source := c.last.Weather, c.last.Source
	if st.PreviewEffect != "" {
		weather, source = st.PreviewEffect, "preview"
	}
	key := c.mapper.Map(weather)
	c.manager.SetEffect(key)

	if st.ShowHUD {
		c.manager.SetCaption(caption(weather, source, key, c.manager.ActiveEffect()))
	} else {
		c.manager.SetCaption("")
	}
}

func caption(weather, source, key, active string) string {
	switch {
	case weather == "":
		return "weather: none"
	case active == "":
		return fmt.Sprintf("weather: %s [%s] -> %s (no effect)", weather, source, key)
	case weather == key:
		return fmt.Sprintf("weather: %s [%s]", weather, source)
	default:
		return fmt.Sprintf("weather: %s [%s] -> %s", weather, source, key)
	}
}

// CyclePreview steps the preview effect through the catalog keys; dir is
// +1 or -1. Stepping past either end returns to live weather.
func (c *Controller) CyclePreview(dir int) {
	if len(c.keys) == 0 {
		return
	}
	current := c.settings.Get().PreviewEffect
	idx := -1
	for i, k := range c.keys {
		if k == current {
			idx = i
			break
		}
	}

	next := ""
	switch {
	case idx < 0 && dir > 0:
		next = c.keys[0]
	case idx < 0 && dir < 0:
		next = c.keys[len(c.keys)-1]
	case idx+dir >= 0 && idx+dir < len(c.keys):
		next = c.keys[idx+dir]
	}

	log.Printf("[Controller] Preview effect: %q", next)
	c.settings.SetPreviewEffect(next)
	c.commit()
}

// ClearPreview returns to live weather.
func (c *Controller) ClearPreview() {
	if c.settings.Get().PreviewEffect == "" {
		return
	}
	c.settings.SetPreviewEffect("")
	c.commit()
}

// ToggleHUD shows or hides the status caption.
func (c *Controller) ToggleHUD() {
	c.settings.SetShowHUD(!c.settings.Get().ShowHUD)
	c.commit()
}

// ToggleEnabled flips the local kill switch.
func (c *Controller) ToggleEnabled() {
	enabled := !c.settings.Get().Enabled
	log.Printf("[Controller] Overlay locally enabled: %v", enabled)
	c.settings.SetEnabled(enabled)
	c.commit()
}

// ToggleThunder flips thunder playback.
func (c *Controller) ToggleThunder() {
	enabled := !c.settings.Get().ThunderEnabled
	c.settings.SetThunderEnabled(enabled)
	if c.thunder != nil {
		c.thunder.SetEnabled(enabled)
	}
	c.commit()
}

// commit saves settings and re-applies the last reading.
func (c *Controller) commit() {
	if err := c.settings.Save(); err != nil {
		log.Printf("[Controller] Warning: %v", err)
	}
	c.refresh()
}
