package app

import (
	"io"
	"log"
	"os"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/weather-overlay/pkg/config"
	"github.com/gonewx/weather-overlay/pkg/hass"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestApp(t *testing.T, readings <-chan hass.Reading) *App {
	t.Helper()
	a, err := newApp(Config{Overlay: config.PreviewConfig(), Readings: readings}, func() float64 { return 2 })
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestApp_ViewportFromWindowConfig(t *testing.T) {
	a := newTestApp(t, nil)
	vp := a.Viewport()

	if vp.Width != config.DefaultWindowWidth || vp.Height != config.DefaultWindowHeight || vp.DPR != 2 {
		t.Errorf("Viewport() = %+v", vp)
	}
}

func TestApp_LayoutNotifiesListeners(t *testing.T) {
	a := newTestApp(t, nil)
	calls := 0
	remove := a.AddResizeListener(func() { calls++ })

	a.layout(config.DefaultWindowWidth, config.DefaultWindowHeight, 2)
	if calls != 0 {
		t.Fatalf("unchanged layout notified %d times", calls)
	}

	a.layout(1920, 1080, 2)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if vp := a.Viewport(); vp.Width != 1920 || vp.Height != 1080 {
		t.Errorf("Viewport() = %+v", vp)
	}

	a.layout(1920, 1080, 1.5)
	if calls != 2 {
		t.Errorf("scale change: calls = %d, want 2", calls)
	}

	remove()
	a.layout(800, 600, 1)
	if calls != 2 {
		t.Errorf("removed listener still called")
	}
}

func TestApp_DrainReadings(t *testing.T) {
	ch := make(chan hass.Reading, 4)
	a := newTestApp(t, ch)

	ch <- hass.Reading{Enabled: true, Weather: "rainy", Source: hass.SourceWeather}
	ch <- hass.Reading{Enabled: true, Weather: "snowy", Source: hass.SourceWeather}
	a.drainReadings()

	if got := a.Manager().ActiveEffect(); got != "snowy" {
		t.Errorf("ActiveEffect() = %q, want snowy", got)
	}
	if r, ok := a.Controller().Last(); !ok || r.Weather != "snowy" {
		t.Errorf("Last() = %+v, %v", r, ok)
	}

	// An empty channel returns immediately.
	a.drainReadings()

	close(ch)
	a.drainReadings()
	if a.readings != nil {
		t.Error("closed channel was not dropped")
	}
}

func TestApp_HandleKeys(t *testing.T) {
	a := newTestApp(t, nil)
	a.Controller().Apply(hass.Reading{Enabled: true, Weather: "sunny", Source: hass.SourceWeather})

	press := func(keys ...ebiten.Key) func(ebiten.Key) bool {
		return func(k ebiten.Key) bool {
			for _, want := range keys {
				if k == want {
					return true
				}
			}
			return false
		}
	}

	keys := config.DefaultCatalog().Keys()
	a.handleKeys(press(ebiten.KeyArrowRight))
	if got := a.Manager().ActiveEffect(); got != keys[0] {
		t.Errorf("after ArrowRight effect = %q, want %q", got, keys[0])
	}

	a.handleKeys(press(ebiten.KeyBackspace))
	if got := a.Manager().ActiveEffect(); got != "sunny" {
		t.Errorf("after Backspace effect = %q, want sunny", got)
	}

	a.handleKeys(press(ebiten.KeyH))
	if a.Manager().Caption() == "" {
		t.Error("H did not show the caption")
	}

	a.handleKeys(press(ebiten.KeyP))
	if a.Manager().Visible() {
		t.Error("P did not hide the overlay")
	}

	a.handleKeys(press())
	if a.Manager().Visible() {
		t.Error("no key changed visibility")
	}
}
