package hass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gonewx/weather-overlay/pkg/config"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type failingStore struct{ err error }

func (s failingStore) State(context.Context, string) (string, error) { return "", s.err }

func TestPoller_Read(t *testing.T) {
	base := PollerConfig{
		WeatherEntity: "weather.home",
		ToggleEntity:  "input_boolean.weather_overlay",
		TestEntity:    "input_select.weather_test",
	}

	tests := []struct {
		name  string
		store StateStore
		cfg   PollerConfig
		want  Reading
	}{
		{
			name:  "real weather",
			store: StaticStore{"weather.home": "rainy", "input_boolean.weather_overlay": "on", "input_select.weather_test": "Use Real Weather"},
			cfg:   base,
			want:  Reading{Enabled: true, Weather: "rainy", Source: SourceWeather},
		},
		{
			name:  "test entity overrides",
			store: StaticStore{"weather.home": "rainy", "input_select.weather_test": "snowy"},
			cfg:   base,
			want:  Reading{Enabled: true, Weather: "snowy", Source: SourceTest},
		},
		{
			name:  "empty test state uses real weather",
			store: StaticStore{"weather.home": "rainy", "input_select.weather_test": ""},
			cfg:   base,
			want:  Reading{Enabled: true, Weather: "rainy", Source: SourceWeather},
		},
		{
			name:  "custom passthrough",
			store: StaticStore{"weather.home": "fog", "input_select.weather_test": "off"},
			cfg: PollerConfig{
				WeatherEntity:   "weather.home",
				TestEntity:      "input_select.weather_test",
				TestPassthrough: "off",
			},
			want: Reading{Enabled: true, Weather: "fog", Source: SourceWeather},
		},
		{
			name:  "toggle off",
			store: StaticStore{"weather.home": "rainy", "input_boolean.weather_overlay": "off"},
			cfg:   base,
			want:  Reading{Enabled: false},
		},
		{
			name:  "missing toggle is enabled",
			store: StaticStore{"weather.home": "sunny"},
			cfg:   base,
			want:  Reading{Enabled: true, Weather: "sunny", Source: SourceWeather},
		},
		{
			name:  "no toggle configured",
			store: StaticStore{"weather.home": "cloudy"},
			cfg:   PollerConfig{WeatherEntity: "weather.home"},
			want:  Reading{Enabled: true, Weather: "cloudy", Source: SourceWeather},
		},
		{
			name:  "missing weather is idle",
			store: StaticStore{"input_boolean.weather_overlay": "on"},
			cfg:   base,
			want:  Reading{Enabled: true},
		},
		{
			name:  "store error fails open",
			store: failingStore{err: errors.New("connection refused")},
			cfg:   base,
			want:  Reading{Enabled: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPoller(tt.store, tt.cfg)
			if got := p.Read(context.Background()); got != tt.want {
				t.Errorf("Read() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPoller_Run(t *testing.T) {
	store := StaticStore{"weather.home": "snowy"}
	p := NewPoller(store, PollerConfig{WeatherEntity: "weather.home", Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Reading)
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, out) }()

	for i := 0; i < 3; i++ {
		select {
		case r := <-out:
			if r.Weather != "snowy" {
				t.Errorf("reading %d = %+v", i, r)
			}
		case <-time.After(time.Second):
			t.Fatalf("no reading %d", i)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestPollerConfigFrom(t *testing.T) {
	cfg, err := config.ParseOverlayConfig([]byte("weather_entity: weather.home\nstate_file: states.yaml\nupdate_interval_ms: 100\n"))
	if err != nil {
		t.Fatal(err)
	}
	pc := PollerConfigFrom(cfg)
	if pc.Interval != 500*time.Millisecond {
		t.Errorf("Interval = %v, want floor 500ms", pc.Interval)
	}
	if pc.TestPassthrough != config.DefaultTestPassthrough {
		t.Errorf("TestPassthrough = %q", pc.TestPassthrough)
	}
}

func newHAServer(t *testing.T, token string, states map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "401: Unauthorized", http.StatusUnauthorized)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/states/")
		state, ok := states[id]
		if !ok {
			http.Error(w, `{"message": "Entity not found."}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"entity_id": %q, "state": %q, "attributes": {"friendly_name": "Home"}, "last_changed": "2024-01-01T00:00:00+00:00"}`, id, state)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_State(t *testing.T) {
	srv := newHAServer(t, "secret", map[string]string{"weather.home": "lightning-rainy"})
	c := NewClient(srv.URL+"/", "secret", nil)

	state, err := c.State(context.Background(), "weather.home")
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if state != "lightning-rainy" {
		t.Errorf("State() = %q", state)
	}

	ent, err := c.Entity(context.Background(), "weather.home")
	if err != nil {
		t.Fatal(err)
	}
	if ent.Attributes["friendly_name"] != "Home" || ent.LastChanged.IsZero() {
		t.Errorf("Entity() = %+v", ent)
	}
}

func TestClient_Errors(t *testing.T) {
	srv := newHAServer(t, "secret", map[string]string{"weather.home": "rainy"})

	_, err := NewClient(srv.URL, "secret", nil).State(context.Background(), "weather.other")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing entity error = %v, want ErrNotFound", err)
	}

	_, err = NewClient(srv.URL, "wrong", nil).State(context.Background(), "weather.home")
	if err == nil || errors.Is(err, ErrNotFound) || !strings.Contains(err.Error(), "401") {
		t.Errorf("unauthorized error = %v", err)
	}
}

func TestClient_PollerFailsOpen(t *testing.T) {
	srv := newHAServer(t, "secret", map[string]string{"weather.home": "pouring"})
	p := NewPoller(NewClient(srv.URL, "secret", nil), PollerConfig{
		WeatherEntity: "weather.home",
		ToggleEntity:  "input_boolean.missing",
		TestEntity:    "input_select.missing",
	})

	want := Reading{Enabled: true, Weather: "pouring", Source: SourceWeather}
	if got := p.Read(context.Background()); got != want {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.yaml")
	if err := os.WriteFile(path, []byte("weather.home: rainy\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)

	if got, err := s.State(context.Background(), "weather.home"); err != nil || got != "rainy" {
		t.Fatalf("State() = %q, %v", got, err)
	}
	if _, err := s.State(context.Background(), "weather.other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing entity error = %v", err)
	}

	// Edits are picked up without reopening.
	if err := os.WriteFile(path, []byte("weather.home: snowy\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.State(context.Background(), "weather.home"); got != "snowy" {
		t.Errorf("State() after edit = %q", got)
	}

	if _, err := NewFileStore(filepath.Join(t.TempDir(), "none.yaml")).State(context.Background(), "x"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestNewStore(t *testing.T) {
	fileCfg := &config.OverlayConfig{StateFile: "states.yaml", Hass: config.HassConfig{URL: "http://ha.local:8123"}}
	if _, ok := NewStore(fileCfg).(*FileStore); !ok {
		t.Errorf("state_file config did not select FileStore")
	}

	apiCfg := &config.OverlayConfig{Hass: config.HassConfig{URL: "http://ha.local:8123/", Token: "abc"}}
	c, ok := NewStore(apiCfg).(*Client)
	if !ok {
		t.Fatalf("hass config did not select Client")
	}
	if c.baseURL != "http://ha.local:8123" || c.token != "abc" {
		t.Errorf("client = %q, %q", c.baseURL, c.token)
	}
}
