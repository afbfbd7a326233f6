// Package overlay owns the fullscreen weather surface and its frame loop.
//
// A Manager is created once per process and shared by every consumer
// through Attach/Detach. All methods must be called from the host's render
// goroutine; the manager holds no locks.
package overlay

import "github.com/gonewx/weather-overlay/pkg/canvas"

// Viewport is the logical size of the display plus its device pixel ratio.
type Viewport struct {
	Width, Height float64
	DPR           float64
}

// Physical returns the viewport size in device pixels.
func (v Viewport) Physical() (w, h int) {
	dpr := v.DPR
	if dpr <= 0 {
		dpr = 1
	}
	return int(v.Width*dpr + 0.5), int(v.Height*dpr + 0.5)
}

// SurfaceOptions describe the surface a host should create.
type SurfaceOptions struct {
	// Width and Height are in device pixels. The manager fills them in.
	Width, Height int
	// ZIndex > 0 asks the host to keep the surface above other windows.
	ZIndex int
	// PointerEvents is "none" (clicks pass through) or "auto".
	PointerEvents string
}

// Surface is a host-owned drawing target.
type Surface interface {
	Canvas() canvas.Canvas
	// Resize changes the backing store to w×h device pixels. Any transform
	// on the canvas is lost, like resizing an HTML canvas element.
	Resize(w, h int)
	SetVisible(visible bool)
	Destroy()
}

// Host is everything the manager needs from its environment.
type Host interface {
	FrameScheduler

	Viewport() Viewport
	CreateSurface(opts SurfaceOptions) (Surface, error)
	// AddResizeListener registers fn to run after the viewport changes and
	// returns a function that removes it.
	AddResizeListener(fn func()) (remove func())
}
