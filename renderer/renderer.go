package renderer

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/richinsley/shaderpad/shader"
	"github.com/richinsley/shaderpad/uniforms"
)

// Surface presents a finished frame.
type Surface interface {
	Present() error
}

// Overlay composites the editor UI onto the window framebuffer. It may edit
// sources.Body; the edit is compiled on the next frame.
type Overlay interface {
	Render(sources *shader.SourceSet, width, height int) error
}

// Config holds the collaborators of a Renderer. Overlay and Logger are
// optional.
type Config struct {
	Device   Device
	Composer shader.Composer
	Surface  Surface
	Overlay  Overlay
	Tracker  *uniforms.Tracker
	Sources  *shader.SourceSet
	Width    int
	Height   int
	// SkipUnchanged enables hash-based recompilation skipping.
	SkipUnchanged bool
	Logger        *slog.Logger
}

// Renderer runs the per-frame sequence: advance time, recompile, draw the
// shader pass, composite the overlay and present.
type Renderer struct {
	device   Device
	pipeline *Pipeline
	surface  Surface
	overlay  Overlay
	tracker  *uniforms.Tracker
	sources  *shader.SourceSet

	width, height int
	clearColor    [4]float32
	frameCount    int64
	lastDiag      string
	log           *slog.Logger
}

// New creates the renderer and performs the initial compile. An error means
// the session cannot start.
func New(cfg Config) (*Renderer, error) {
	if cfg.Device == nil || cfg.Composer == nil || cfg.Surface == nil || cfg.Tracker == nil || cfg.Sources == nil {
		return nil, fmt.Errorf("renderer: incomplete config")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		device:     cfg.Device,
		pipeline:   NewPipeline(cfg.Device, cfg.Composer),
		surface:    cfg.Surface,
		overlay:    cfg.Overlay,
		tracker:    cfg.Tracker,
		sources:    cfg.Sources,
		width:      cfg.Width,
		height:     cfg.Height,
		clearColor: [4]float32{0, 0, 0, 1},
		log:        logger,
	}
	r.pipeline.SkipUnchanged = cfg.SkipUnchanged

	if err := r.pipeline.Init(r.sources); err != nil {
		return nil, err
	}
	r.log.Info("initial shader program ready", "composition", cfg.Composer.Name(), "program", r.pipeline.Active().ID)
	return r, nil
}

// SetOverlay attaches the overlay drawn on top of the shader pass.
func (r *Renderer) SetOverlay(o Overlay) {
	r.overlay = o
}

// RenderFrame renders and presents one frame. now is the clock reading in
// seconds. Shader errors are logged and absorbed; any returned error is a
// graphics failure the caller cannot recover from.
func (r *Renderer) RenderFrame(now float64) error {
	r.tracker.Advance(now)

	if _, err := r.pipeline.Recompile(r.sources); err != nil {
		r.reportDiagnostic(err)
	} else if r.lastDiag != "" {
		r.log.Info("shader compiles again")
		r.lastDiag = ""
	}

	snap := r.tracker.Snapshot()

	if err := r.device.Clear(r.clearColor); err != nil {
		return err
	}
	if err := r.device.Draw(r.pipeline.Active(), snap); err != nil {
		return err
	}
	if err := r.device.Resolve(); err != nil {
		return err
	}
	if r.overlay != nil {
		if err := r.overlay.Render(r.sources, r.width, r.height); err != nil {
			return fmt.Errorf("overlay: %w", err)
		}
	}
	if err := r.surface.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	r.frameCount++
	return nil
}

// reportDiagnostic logs a diagnostic when it differs from the previous
// frame's. A message that comes back after another one is logged again.
func (r *Renderer) reportDiagnostic(err error) {
	msg := err.Error()
	if msg == r.lastDiag {
		return
	}
	r.lastDiag = msg
	r.log.Warn("shader recompile failed, keeping previous program", "err", msg)
}

// Resize changes the surface backing size. Zero dimensions are ignored.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.device.Resize(width, height)
}

// Size returns the surface backing size.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Capture returns the last shader pass, without the overlay.
func (r *Renderer) Capture() (*image.RGBA, error) {
	return r.device.Capture()
}

// Program returns the active program.
func (r *Renderer) Program() *Program {
	return r.pipeline.Active()
}

// Pipeline exposes the recompilation pipeline.
func (r *Renderer) Pipeline() *Pipeline {
	return r.pipeline
}

// FrameCount returns the number of presented frames.
func (r *Renderer) FrameCount() int64 {
	return r.frameCount
}

// Shutdown releases the active program and the device resources.
func (r *Renderer) Shutdown() {
	r.pipeline.Destroy()
	r.device.Destroy()
}
