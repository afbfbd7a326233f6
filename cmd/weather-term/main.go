// Command weather-term draws the weather overlay in a terminal.
//
// Usage:
//
//	go run ./cmd/weather-term [flags]
//
// Flags:
//
//	--config <path>   Overlay config file (default weather-overlay.yaml)
//	--effect <state>  Show a fixed weather state instead of polling (e.g. --effect=snowy)
//	--background <c>  Color the overlay is blended onto (default black)
//	--log <path>      Write logs to this file
//
// Controls:
//
//	Left/Right Arrow  - Preview the previous/next effect
//	Backspace         - Back to live weather
//	h                 - Toggle the status caption
//	p                 - Toggle the overlay
//	q/Escape          - Quit
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

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gonewx/weather-overlay/pkg/canvas"
	"github.com/gonewx/weather-overlay/pkg/config"
	"github.com/gonewx/weather-overlay/pkg/hass"
	"github.com/gonewx/weather-overlay/pkg/overlay"
	"github.com/gonewx/weather-overlay/pkg/settings"
	"github.com/gonewx/weather-overlay/pkg/termhost"
)

var (
	configFlag     = flag.String("config", "weather-overlay.yaml", "Overlay config file")
	effectFlag     = flag.String("effect", "", "Show this weather state instead of polling")
	backgroundFlag = flag.String("background", "#000000", "Background color behind the overlay")
	logFlag        = flag.String("log", "", "Write logs to this file (default off)")
)

func main() {
	flag.Parse()

	// The terminal is the display, so logs only ever go to a file.
	log.SetOutput(io.Discard)
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "weather-term: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadOverlayConfig(*configFlag)
	if err != nil {
		if *effectFlag == "" || !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		cfg = config.PreviewConfig()
	}
	background, err := canvas.ParseColor(*backgroundFlag)
	if err != nil {
		return fmt.Errorf("invalid --background: %w", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	var store hass.StateStore = hass.StaticStore{cfg.WeatherEntity: *effectFlag}
	if *effectFlag == "" {
		store = hass.NewStore(cfg)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	host := termhost.New(screen)
	host.SetBackground(background)

	manager := overlay.NewManager(host, catalog, nil)
	if err := manager.Attach(overlay.SurfaceOptions{}); err != nil {
		return err
	}
	defer manager.Detach()

	prefs := settings.NewManager(settings.Open(), settings.DefaultSettings())
	controller := overlay.NewController(manager, cfg.Mapper(), catalog, prefs, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	readings := make(chan hass.Reading, 1)
	g, gctx := errgroup.WithContext(ctx)
	poller := hass.NewPoller(store, hass.PollerConfigFrom(cfg))
	g.Go(func() error { return poller.Run(gctx, readings) })
	g.Go(func() error {
		defer cancel()
		return host.Run(gctx, controller, readings)
	})
	return g.Wait()
}
