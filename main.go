// Command weather-overlay draws the current Home Assistant weather as a
// transparent, click-through animation over the desktop.
//
// Usage:
//
//	weather-overlay [flags]
//
// Flags:
//
//	--config <path>   Overlay config file (default weather-overlay.yaml)
//	--effect <state>  Show a fixed weather state instead of polling (e.g. --effect=rainy)
//	--mute            Never open the audio device
//	--verbose         Enable verbose logging (default off)
//
// Controls:
//
//	Left/Right Arrow  - Preview the previous/next effect
//	Backspace         - Back to live weather
//	H                 - Toggle the status caption
//	T                 - Toggle thunder
//	P                 - Toggle the overlay
//	F11               - Toggle fullscreen
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gonewx/weather-overlay/pkg/app"
	"github.com/gonewx/weather-overlay/pkg/config"
	"github.com/gonewx/weather-overlay/pkg/hass"
	"github.com/gonewx/weather-overlay/pkg/settings"
	"github.com/gonewx/weather-overlay/pkg/sound"
)

var (
	configFlag  = flag.String("config", "weather-overlay.yaml", "Overlay config file")
	effectFlag  = flag.String("effect", "", "Show this weather state instead of polling")
	muteFlag    = flag.Bool("mute", false, "Disable thunder audio")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	cfg, err := loadConfig(*configFlag, *effectFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	readings := make(chan hass.Reading, 1)
	g, gctx := errgroup.WithContext(ctx)
	poller := hass.NewPoller(newStore(cfg, *effectFlag), hass.PollerConfigFrom(cfg))
	g.Go(func() error { return poller.Run(gctx, readings) })

	defaults := settings.DefaultSettings()
	defaults.ThunderEnabled = cfg.ThunderEnabled()
	defaults.ThunderVolume = cfg.Thunder.Volume
	prefs := settings.NewManager(settings.Open(), defaults)

	thunder := sound.NewThunder(defaults.ThunderEnabled, defaults.ThunderVolume)
	if !*muteFlag {
		if err := thunder.Init(); err != nil {
			log.Printf("[Main] Audio unavailable, thunder disabled: %v", err)
		}
	}
	defer thunder.Close()

	overlayApp, err := app.NewApp(app.Config{
		Verbose:  *verboseFlag,
		Overlay:  cfg,
		Settings: prefs,
		Readings: readings,
		Thunder:  thunder,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("Weather Overlay")
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)

	runErr := ebiten.RunGameWithOptions(&quitOnCancel{App: overlayApp, ctx: ctx}, &ebiten.RunGameOptions{
		ScreenTransparent: true,
	})
	cancel()
	if err := g.Wait(); err != nil {
		log.Printf("[Main] Poller stopped: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		log.Fatal(runErr)
	}
}

// quitOnCancel ends the game loop once ctx is done.
type quitOnCancel struct {
	*app.App
	ctx context.Context
}

func (q *quitOnCancel) Update() error {
	if q.ctx.Err() != nil {
		return ebiten.Termination
	}
	return q.App.Update()
}

// loadConfig reads the config file. With --effect a missing file is fine.
func loadConfig(path, effect string) (*config.OverlayConfig, error) {
	cfg, err := config.LoadOverlayConfig(path)
	if err != nil && effect != "" && errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Main] No config at %s, previewing %q", path, effect)
		return config.PreviewConfig(), nil
	}
	return cfg, err
}

// newStore returns a fixed store for --effect, otherwise the configured one.
func newStore(cfg *config.OverlayConfig, effect string) hass.StateStore {
	if effect != "" {
		return hass.StaticStore{cfg.WeatherEntity: effect}
	}
	return hass.NewStore(cfg)
}
