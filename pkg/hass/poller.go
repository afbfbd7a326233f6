package hass

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gonewx/weather-overlay/pkg/config"
)

// Reading is one poll result. Weather is "" when no condition is known.
type Reading struct {
	Enabled bool
	Weather string
	// Source names where Weather came from: "test", "weather" or "".
	Source string
}

const (
	SourceTest    = "test"
	SourceWeather = "weather"
)

// PollerConfig selects the entities to read.
type PollerConfig struct {
	WeatherEntity   string
	ToggleEntity    string
	TestEntity      string
	TestPassthrough string
	Interval        time.Duration
}

// PollerConfigFrom extracts poller settings from the overlay config.
func PollerConfigFrom(cfg *config.OverlayConfig) PollerConfig {
	return PollerConfig{
		WeatherEntity:   cfg.WeatherEntity,
		ToggleEntity:    cfg.ToggleEntity,
		TestEntity:      cfg.TestEntity,
		TestPassthrough: cfg.TestPassthrough,
		Interval:        time.Duration(cfg.UpdateIntervalMs) * time.Millisecond,
	}
}

// Poller periodically turns store states into Readings.
type Poller struct {
	store StateStore
	cfg   PollerConfig
}

// NewPoller creates a poller. Missing passthrough and interval values fall
// back to the config defaults.
func NewPoller(store StateStore, cfg PollerConfig) *Poller {
	if cfg.TestPassthrough == "" {
		cfg.TestPassthrough = config.DefaultTestPassthrough
	}
	if cfg.Interval <= 0 {
		cfg.Interval = config.DefaultUpdateIntervalMs * time.Millisecond
	}
	return &Poller{store: store, cfg: cfg}
}

// Read takes one reading. It never fails: every store problem resolves to
// "enabled" for the toggle and "no weather" for the condition.
func (p *Poller) Read(ctx context.Context) Reading {
	r := Reading{Enabled: p.enabled(ctx)}
	if !r.Enabled {
		return r
	}

	if p.cfg.TestEntity != "" {
		state, err := p.store.State(ctx, p.cfg.TestEntity)
		switch {
		case err == nil && state != "" && state != p.cfg.TestPassthrough:
			log.Printf("[Poller] Using test weather: %s", state)
			r.Weather, r.Source = state, SourceTest
			return r
		case err != nil && !errors.Is(err, ErrNotFound):
			log.Printf("[Poller] Error reading test entity: %v", err)
		}
	}

	state, err := p.store.State(ctx, p.cfg.WeatherEntity)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("[Poller] Entity %s not found", p.cfg.WeatherEntity)
		} else {
			log.Printf("[Poller] Error getting weather state: %v", err)
		}
		return r
	}
	r.Weather, r.Source = state, SourceWeather
	return r
}

func (p *Poller) enabled(ctx context.Context) bool {
	if p.cfg.ToggleEntity == "" {
		return true
	}
	state, err := p.store.State(ctx, p.cfg.ToggleEntity)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Printf("[Poller] Toggle entity %s not found, overlay enabled by default", p.cfg.ToggleEntity)
		} else {
			log.Printf("[Poller] Error checking toggle state: %v", err)
		}
		return true
	}
	return state == "on"
}

// Run reads immediately and then every interval, sending each Reading to
// out. It returns nil once ctx is cancelled.
func (p *Poller) Run(ctx context.Context, out chan<- Reading) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case out <- p.Read(ctx):
		case <-ctx.Done():
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}
