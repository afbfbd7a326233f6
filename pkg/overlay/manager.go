package overlay

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gonewx/weather-overlay/pkg/canvas"
	"github.com/gonewx/weather-overlay/pkg/config"
	"github.com/gonewx/weather-overlay/pkg/lightning"
	"github.com/gonewx/weather-overlay/pkg/particle"
	"github.com/gonewx/weather-overlay/pkg/utils"
)

// LoopState is the frame loop state.
type LoopState int

const (
	Stopped LoopState = iota
	Running
)

func (s LoopState) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

const (
	// firstFrameMs is the elapsed time assumed for the first tick after a
	// (re)start.
	firstFrameMs = 16.0
	// maxFrameMs caps the elapsed time of one tick so a stall does not
	// teleport particles.
	maxFrameMs = 50.0
	frameMs    = 16.0

	sunRadius = 500.0
)

var captionColor = canvas.RGB(255, 255, 255, 0.8)

// Manager owns the overlay surface, the active effect and its particle pool,
// the lightning sub-process and the frame loop.
type Manager struct {
	host    Host
	catalog config.Catalog
	rng     *rand.Rand

	refs         int
	surface      Surface
	viewport     Viewport
	removeResize func()
	visible      bool

	activeKey string
	profile   config.EffectProfile
	particles []particle.Particle
	lightning *lightning.Lightning

	state    LoopState
	frame    FrameID
	lastTick time.Time
	ticked   bool

	caption        string
	flashListeners []func(lightning.Flash)
}

// NewManager creates a detached manager. A nil rng gets a time-seeded one.
func NewManager(host Host, catalog config.Catalog, rng *rand.Rand) *Manager {
	if rng == nil {
		rng = utils.NewRand()
	}
	return &Manager{
		host:      host,
		catalog:   catalog,
		rng:       rng,
		visible:   true,
		lightning: lightning.New(rng),
	}
}

// Attach adds a consumer. The first consumer creates the surface.
func (m *Manager) Attach(opts SurfaceOptions) error {
	if m.refs > 0 {
		m.refs++
		return nil
	}

	vp := m.host.Viewport()
	opts.Width, opts.Height = vp.Physical()
	surface, err := m.host.CreateSurface(opts)
	if err != nil {
		return fmt.Errorf("failed to create overlay surface: %w", err)
	}

	m.refs = 1
	m.surface = surface
	m.viewport = vp
	m.surface.Canvas().SetTransform(m.dpr())
	m.surface.SetVisible(m.visible)
	m.removeResize = m.host.AddResizeListener(m.Resize)

	log.Printf("[Overlay] Surface attached: %.0fx%.0f @%.2fx (%dx%d px)",
		vp.Width, vp.Height, m.dpr(), opts.Width, opts.Height)

	// An effect chosen while detached starts drawing now.
	if m.activeKey != "" && m.visible {
		m.start()
	}
	return nil
}

// Detach removes a consumer. The last one tears the surface down.
func (m *Manager) Detach() {
	if m.refs == 0 {
		return
	}
	m.refs--
	if m.refs > 0 {
		return
	}

	m.stop()
	if m.removeResize != nil {
		m.removeResize()
		m.removeResize = nil
	}
	m.surface.Destroy()
	m.surface = nil
	m.particles = nil
	m.activeKey = ""
	m.profile = config.EffectProfile{}

	log.Printf("[Overlay] Surface detached")
}

// RefCount returns the number of attached consumers.
func (m *Manager) RefCount() int { return m.refs }

// Surface returns the current surface, or nil when detached.
func (m *Manager) Surface() Surface { return m.surface }

// Visible reports whether the overlay is shown.
func (m *Manager) Visible() bool { return m.visible }

// ActiveEffect returns the active effect key, or "" when idle.
func (m *Manager) ActiveEffect() string { return m.activeKey }

// Particles returns the current pool. Callers must not modify it.
func (m *Manager) Particles() []particle.Particle { return m.particles }

// LoopState returns whether the frame loop is scheduled.
func (m *Manager) LoopState() LoopState { return m.state }

// Lightning exposes the flash sub-process.
func (m *Manager) Lightning() *lightning.Lightning { return m.lightning }

// Viewport returns the logical viewport captured at attach or last resize.
func (m *Manager) Viewport() Viewport { return m.viewport }

// SetVisible shows or hides the surface. Hiding stops the loop; showing
// restarts it when an effect is active.
func (m *Manager) SetVisible(visible bool) {
	if visible == m.visible {
		return
	}
	m.visible = visible
	if m.surface != nil {
		m.surface.SetVisible(visible)
	}
	if !visible {
		m.stop()
		return
	}
	if m.activeKey != "" {
		m.start()
	}
}

// SetEffect switches to the effect stored under key. An empty or unknown
// key clears the overlay. Setting the active key again does nothing.
func (m *Manager) SetEffect(key string) {
	if key == m.activeKey {
		return
	}

	profile, ok := m.catalog.Lookup(key)
	if !ok {
		if key != "" {
			log.Printf("[Overlay] No effect for %q, clearing", key)
		}
		m.clearEffect()
		return
	}

	log.Printf("[Overlay] Effect changed: %q -> %q", m.activeKey, key)
	m.stop()
	if m.surface == nil {
		m.viewport = m.host.Viewport()
	}
	m.activeKey = key
	m.profile = profile
	m.lightning.Reset()
	m.particles = particle.NewPool(profile, m.bounds(), m.rng)
	log.Printf("[Overlay] Created %d particles for %s", len(m.particles), key)

	if m.visible {
		m.start()
	}
}

func (m *Manager) clearEffect() {
	m.stop()
	m.activeKey = ""
	m.profile = config.EffectProfile{}
	m.particles = nil
	m.lightning.Reset()
	if m.surface != nil {
		m.surface.Canvas().ClearRect(0, 0, m.viewport.Width, m.viewport.Height)
	}
}

// Resize re-reads the viewport and resizes the surface. The transform is
// set to exactly one DPR factor.
func (m *Manager) Resize() {
	if m.surface == nil {
		return
	}
	m.viewport = m.host.Viewport()
	w, h := m.viewport.Physical()
	m.surface.Resize(w, h)
	m.surface.Canvas().SetTransform(m.dpr())
	log.Printf("[Overlay] Surface resized: %dx%d @%.2fx", w, h, m.dpr())
}

// SetCaption sets the status line drawn at the bottom-left. Empty hides it.
func (m *Manager) SetCaption(text string) { m.caption = text }

// Caption returns the status line.
func (m *Manager) Caption() string { return m.caption }

// OnFlash registers fn to run whenever a lightning flash starts.
func (m *Manager) OnFlash(fn func(lightning.Flash)) {
	m.flashListeners = append(m.flashListeners, fn)
}

func (m *Manager) start() {
	if m.surface == nil || m.state == Running {
		return
	}
	m.state = Running
	m.ticked = false
	m.frame = m.host.RequestFrame(m.tick)
}

func (m *Manager) stop() {
	if m.state == Stopped {
		return
	}
	m.host.CancelFrame(m.frame)
	m.state = Stopped
	m.frame = 0
}

func (m *Manager) tick(now time.Time) {
	if m.surface == nil || !m.visible {
		m.state = Stopped
		m.frame = 0
		return
	}

	c := m.surface.Canvas()
	c.ClearRect(0, 0, m.viewport.Width, m.viewport.Height)

	elapsed := firstFrameMs
	if m.ticked {
		elapsed = utils.Clamp(float64(now.Sub(m.lastTick))/float64(time.Millisecond), 0, maxFrameMs)
	}
	m.lastTick = now
	m.ticked = true
	dt := elapsed / frameMs

	if m.profile.Kind == config.KindSunny {
		m.drawSunnyGlow(c)
	}

	b := m.bounds()
	for _, pt := range m.particles {
		particle.Update(pt, m.profile, dt, b, m.rng)
		particle.Draw(pt, c, m.profile, m.rng)
	}

	if m.profile.Lightning() {
		if flash, ok := m.lightning.Update(elapsed); ok {
			log.Printf("[Overlay] Lightning flash: %.0fms @%.2f", flash.DurationMs, flash.Brightness)
			for _, fn := range m.flashListeners {
				fn(flash)
			}
		}
		m.lightning.Draw(c, m.viewport.Width, m.viewport.Height)
	}

	if m.caption != "" {
		c.SetGlobalAlpha(1)
		c.FillText(m.caption, 8, m.viewport.Height-8, captionColor)
	}

	m.frame = m.host.RequestFrame(m.tick)
}

func (m *Manager) drawSunnyGlow(c canvas.Canvas) {
	x, y := m.viewport.Width*0.9, m.viewport.Height*0.1
	g := canvas.NewRadialGradient(x, y, sunRadius).
		AddColorStop(0, canvas.RGB(255, 200, 80, 0.25)).
		AddColorStop(0.2, canvas.RGB(255, 180, 60, 0.15)).
		AddColorStop(0.5, canvas.RGB(255, 160, 40, 0.08)).
		AddColorStop(0.8, canvas.RGB(255, 140, 20, 0.03)).
		AddColorStop(1, canvas.RGB(255, 120, 10, 0))
	c.SetGlobalAlpha(1)
	c.FillArc(x, y, sunRadius, canvas.Radial(g))
}

func (m *Manager) bounds() particle.Bounds {
	return particle.Bounds{Width: m.viewport.Width, Height: m.viewport.Height}
}

func (m *Manager) dpr() float64 {
	if m.viewport.DPR <= 0 {
		return 1
	}
	return m.viewport.DPR
}
