// Package app 在透明 ebiten 窗口中承载天气覆盖层
//
// App 同时实现 ebiten.Game 和 overlay.Host：帧队列在每次 Update 中运行一次，
// 因此覆盖层的所有修改都发生在 ebiten 的 update goroutine 上。
package app

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/weather-overlay/pkg/canvas"
	"github.com/gonewx/weather-overlay/pkg/canvas/ebitencanvas"
	"github.com/gonewx/weather-overlay/pkg/config"
	"github.com/gonewx/weather-overlay/pkg/hass"
	"github.com/gonewx/weather-overlay/pkg/overlay"
	"github.com/gonewx/weather-overlay/pkg/settings"
	"github.com/gonewx/weather-overlay/pkg/sound"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Overlay 已加载的覆盖层配置
	Overlay *config.OverlayConfig
	// Settings 本地偏好设置，为 nil 时使用内存中的默认值
	Settings *settings.Manager
	// Readings 轮询结果通道，可为 nil
	Readings <-chan hass.Reading
	// Thunder 每次闪电后播放雷声，可为 nil
	Thunder *sound.Thunder
}

// App 实现 ebiten.Game 和 overlay.Host 接口
type App struct {
	overlay.FrameQueue

	manager    *overlay.Manager
	controller *overlay.Controller
	readings   <-chan hass.Reading
	window     config.WindowConfig
	verbose    bool

	surface *surface

	outsideW, outsideH int
	scale              float64
	deviceScale        func() float64

	listeners    map[int]func()
	nextListener int

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建覆盖层并挂载绘制表面
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
	if cfg.Overlay == nil {
		return nil, fmt.Errorf("overlay config is required")
	}

	a, err := newApp(cfg, func() float64 { return ebiten.Monitor().DeviceScaleFactor() })
	if err != nil {
		return nil, err
	}

	if err := a.manager.Attach(overlay.SurfaceOptions{
		ZIndex:        cfg.Overlay.Stacking(),
		PointerEvents: cfg.Overlay.PointerEvents,
	}); err != nil {
		return nil, fmt.Errorf("failed to attach overlay: %w", err)
	}
	log.Printf("[App] Overlay attached, watching %s", cfg.Overlay.WeatherEntity)
	return a, nil
}

// newApp 创建除绘制表面以外的全部组件
func newApp(cfg Config, deviceScale func() float64) (*App, error) {
	catalog, err := cfg.Overlay.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build effect catalog: %w", err)
	}

	s := cfg.Settings
	if s == nil {
		s = settings.NewManager(nil, settings.DefaultSettings())
	}

	a := &App{
		readings:    cfg.Readings,
		window:      cfg.Overlay.Window,
		verbose:     cfg.Verbose,
		deviceScale: deviceScale,
		listeners:   make(map[int]func()),
		outsideW:    cfg.Overlay.Window.Width,
		outsideH:    cfg.Overlay.Window.Height,
	}
	a.scale = a.currentScale()

	a.manager = overlay.NewManager(a, catalog, nil)

	var sink overlay.ThunderSink
	if cfg.Thunder != nil {
		sink = cfg.Thunder
		a.manager.OnFlash(cfg.Thunder.OnFlash)
	}
	a.controller = overlay.NewController(a.manager, cfg.Overlay.Mapper(), catalog, s, sink)
	return a, nil
}

// Manager 返回覆盖层管理器
func (a *App) Manager() *overlay.Manager { return a.manager }

// Controller 返回读数与偏好控制器
func (a *App) Controller() *overlay.Controller { return a.controller }

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool { return a.verbose }

// Viewport 实现 overlay.Host，返回逻辑尺寸和设备缩放
func (a *App) Viewport() overlay.Viewport {
	return overlay.Viewport{
		Width:  float64(a.outsideW),
		Height: float64(a.outsideH),
		DPR:    a.scale,
	}
}

// CreateSurface 实现 overlay.Host
// 层级与鼠标穿透选项直接作用于窗口本身
func (a *App) CreateSurface(opts overlay.SurfaceOptions) (overlay.Surface, error) {
	if a.surface != nil {
		return nil, fmt.Errorf("surface already exists")
	}
	ebiten.SetWindowFloating(opts.ZIndex > 0)
	ebiten.SetWindowMousePassthrough(opts.PointerEvents == "none")

	a.surface = &surface{
		canvas:  ebitencanvas.New(opts.Width, opts.Height),
		visible: true,
		release: func() { a.surface = nil },
	}
	log.Printf("[App] Created %dx%d surface (floating=%v, passthrough=%v)",
		opts.Width, opts.Height, opts.ZIndex > 0, opts.PointerEvents == "none")
	return a.surface, nil
}

// AddResizeListener 实现 overlay.Host
func (a *App) AddResizeListener(fn func()) func() {
	id := a.nextListener
	a.nextListener++
	a.listeners[id] = fn
	return func() { delete(a.listeners, id) }
}

// Update 处理输入、读数和覆盖层的帧回调
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.window.Width, a.window.Height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.window.Width, a.window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.handleKeys(inpututil.IsKeyJustPressed)
	a.drainReadings()
	a.RunFrames(time.Now())
	return nil
}

// Draw 将覆盖层表面绘制到透明屏幕上
func (a *App) Draw(screen *ebiten.Image) {
	if a.surface == nil || !a.surface.visible {
		return
	}
	screen.DrawImage(a.surface.canvas.Image(), nil)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 全屏时 letterbox 区域保持透明
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Clear()
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回以设备像素计的窗口尺寸
// 使绘制表面与屏幕像素一一对应
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.layout(outsideWidth, outsideHeight, a.currentScale())
	return overlay.Viewport{
		Width:  float64(outsideWidth),
		Height: float64(outsideHeight),
		DPR:    a.scale,
	}.Physical()
}

// layout 记录窗口尺寸，尺寸或缩放变化时通知 resize 监听器
func (a *App) layout(w, h int, scale float64) {
	if w == a.outsideW && h == a.outsideH && scale == a.scale {
		return
	}
	a.outsideW, a.outsideH, a.scale = w, h, scale
	log.Printf("[App] Viewport changed: %dx%d @%.2fx", w, h, scale)
	for _, fn := range a.listeners {
		fn()
	}
}

func (a *App) currentScale() float64 {
	if a.deviceScale == nil {
		return 1
	}
	if s := a.deviceScale(); s > 0 {
		return s
	}
	return 1
}

// drainReadings 非阻塞地应用所有排队的读数
func (a *App) drainReadings() {
	for a.readings != nil {
		select {
		case r, ok := <-a.readings:
			if !ok {
				a.readings = nil
				return
			}
			a.controller.Apply(r)
		default:
			return
		}
	}
}

// binding 按键到控制器动作的映射
type binding struct {
	key    ebiten.Key
	action func(c *overlay.Controller)
}

var bindings = []binding{
	{ebiten.KeyArrowRight, func(c *overlay.Controller) { c.CyclePreview(1) }},
	{ebiten.KeyArrowLeft, func(c *overlay.Controller) { c.CyclePreview(-1) }},
	{ebiten.KeyBackspace, (*overlay.Controller).ClearPreview},
	{ebiten.KeyH, (*overlay.Controller).ToggleHUD},
	{ebiten.KeyT, (*overlay.Controller).ToggleThunder},
	{ebiten.KeyP, (*overlay.Controller).ToggleEnabled},
}

func (a *App) handleKeys(justPressed func(ebiten.Key) bool) {
	for _, b := range bindings {
		if justPressed(b.key) {
			b.action(a.controller)
		}
	}
}

// surface App 唯一的覆盖层绘制表面
type surface struct {
	canvas  *ebitencanvas.Canvas
	visible bool
	release func()
}

func (s *surface) Canvas() canvas.Canvas { return s.canvas }

func (s *surface) Resize(w, h int) { s.canvas.Resize(w, h) }

func (s *surface) SetVisible(visible bool) { s.visible = visible }

func (s *surface) Destroy() {
	s.canvas.Dispose()
	if s.release != nil {
		s.release()
	}
}
