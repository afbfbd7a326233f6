// Package termhost renders the overlay in a terminal with tcell.
//
// Every terminal cell shows two vertically stacked raster samples through
// the upper half block: the top sample is the foreground color and the
// bottom sample the background color.
package termhost

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gonewx/weather-overlay/pkg/canvas"
	"github.com/gonewx/weather-overlay/pkg/canvas/raster"
	"github.com/gonewx/weather-overlay/pkg/hass"
	"github.com/gonewx/weather-overlay/pkg/overlay"
)

const (
	// CellWidth is the number of logical pixels per terminal column. A row
	// is twice as tall and holds two samples.
	CellWidth = 8

	frameInterval = 33 * time.Millisecond
	halfBlock     = '▀'
)

// Host implements overlay.Host on a tcell screen.
type Host struct {
	overlay.FrameQueue

	screen     tcell.Screen
	background colorful.Color
	surface    *surface

	listeners    map[int]func()
	nextListener int
}

// New wraps an initialized screen.
func New(screen tcell.Screen) *Host {
	return &Host{
		screen:     screen,
		background: colorful.Color{},
		listeners:  make(map[int]func()),
	}
}

// SetBackground sets the color the overlay is composited onto.
func (h *Host) SetBackground(c canvas.RGBA) { h.background = c.Colorful() }

// Viewport implements overlay.Host.
func (h *Host) Viewport() overlay.Viewport {
	cols, rows := h.screen.Size()
	return overlay.Viewport{
		Width:  float64(cols * CellWidth),
		Height: float64(rows * 2 * CellWidth),
		DPR:    1,
	}
}

// CreateSurface implements overlay.Host.
func (h *Host) CreateSurface(opts overlay.SurfaceOptions) (overlay.Surface, error) {
	if h.surface != nil {
		return nil, fmt.Errorf("surface already exists")
	}
	h.surface = &surface{
		canvas:  raster.New(opts.Width/CellWidth, opts.Height/CellWidth, CellWidth),
		visible: true,
		release: func() { h.surface = nil },
	}
	return h.surface, nil
}

// AddResizeListener implements overlay.Host.
func (h *Host) AddResizeListener(fn func()) func() {
	id := h.nextListener
	h.nextListener++
	h.listeners[id] = fn
	return func() { delete(h.listeners, id) }
}

// Present draws the surface onto the screen and shows it.
func (h *Host) Present() {
	cols, rows := h.screen.Size()
	bg := h.background
	var rc *raster.Canvas
	if h.surface != nil && h.surface.visible {
		rc = h.surface.canvas
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top, bottom := bg, bg
			if rc != nil {
				top = raster.Over(rc.At(x, 2*y), bg)
				bottom = raster.Over(rc.At(x, 2*y+1), bg)
			}
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			h.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}

	if rc != nil {
		for _, t := range rc.Texts() {
			h.printText(rc, t, cols, rows)
		}
	}
	h.screen.Show()
}

func (h *Host) printText(rc *raster.Canvas, t raster.TextRun, cols, rows int) {
	y := t.Row / 2
	if y < 0 || y >= rows {
		return
	}
	x := t.Col
	for _, r := range t.Text {
		if x >= cols {
			return
		}
		if x >= 0 {
			under := raster.Over(rc.At(x, 2*y+1), h.background)
			fg := under.BlendRgb(t.Color.Colorful(), t.Color.A)
			style := tcell.StyleDefault.Foreground(toTcell(fg)).Background(toTcell(under))
			h.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

// Run drives the overlay until ctx ends or the user quits. readings may be
// nil.
func (h *Host) Run(ctx context.Context, c *overlay.Controller, readings <-chan hass.Reading) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !h.HandleEvent(ev, c) {
				log.Printf("[Term] Quit requested")
				return nil
			}

		case r, ok := <-readings:
			if !ok {
				readings = nil
				continue
			}
			c.Apply(r)

		case now := <-ticker.C:
			h.RunFrames(now)
			h.Present()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (h *Host) HandleEvent(ev tcell.Event, c *overlay.Controller) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
		for _, fn := range h.listeners {
			fn()
		}

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRight:
			c.CyclePreview(1)
		case tcell.KeyLeft:
			c.CyclePreview(-1)
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			c.ClearPreview()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'h':
				c.ToggleHUD()
			case 't':
				c.ToggleThunder()
			case 'p':
				c.ToggleEnabled()
			}
		}
	}
	return true
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// surface adapts a raster canvas to overlay.Surface.
type surface struct {
	canvas  *raster.Canvas
	visible bool
	release func()
}

func (s *surface) Canvas() canvas.Canvas { return s.canvas }

func (s *surface) Resize(w, h int) { s.canvas.Resize(w/CellWidth, h/CellWidth) }

func (s *surface) SetVisible(visible bool) { s.visible = visible }

func (s *surface) Destroy() {
	if s.release != nil {
		s.release()
	}
}
