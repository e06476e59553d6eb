// Package app wires the window, renderer, editor overlay and event mapper
// into one session and drives the frame loop.
package app

import (
	"fmt"
	"log/slog"
	"time"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"

	"github.com/richinsley/shaderpad/events"
	"github.com/richinsley/shaderpad/glfwcontext"
	"github.com/richinsley/shaderpad/graphics"
	"github.com/richinsley/shaderpad/options"
	"github.com/richinsley/shaderpad/overlay"
	"github.com/richinsley/shaderpad/renderer"
	"github.com/richinsley/shaderpad/shader"
	"github.com/richinsley/shaderpad/translator"
	"github.com/richinsley/shaderpad/uniforms"
)

// App owns everything a session needs. It lives on the main thread.
type App struct {
	opts     *options.Options
	ctx      graphics.Context
	sources  *shader.SourceSet
	tracker  *uniforms.Tracker
	renderer *renderer.Renderer
	editor   *overlay.Editor
	mapper   *events.Mapper

	captureRequested bool
	log              *slog.Logger
}

// New opens the window and builds the session. Any error is fatal: the
// window could not be created, the GL setup failed or the initial shader
// did not compile.
func New(opts *options.Options, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, err := glfwcontext.New(opts, logger)
	if err != nil {
		return nil, err
	}
	ctx.MakeCurrent()

	width, height := ctx.GetFramebufferSize()
	device, err := renderer.NewGLDevice(width, height)
	if err != nil {
		ctx.Shutdown()
		return nil, err
	}

	composer, err := shader.NewComposer(opts.Composition, translator.TranslateFragment)
	if err != nil {
		device.Destroy()
		ctx.Shutdown()
		return nil, err
	}

	a, err := newSession(opts, ctx, device, composer, shader.LoadSources(opts.ShaderDir, logger), logger)
	if err != nil {
		return nil, err
	}

	var clipboard imgui.Clipboard
	if cb := ctx.Clipboard(); cb != nil {
		clipboard = cb
	}
	editor, err := overlay.New(ctx, clipboard, a.scale(), logger)
	if err != nil {
		a.Shutdown()
		return nil, fmt.Errorf("failed to create editor overlay: %w", err)
	}
	a.attachEditor(editor)
	return a, nil
}

// newSession builds the renderer, tracker and mapper on an open window.
// On error the device and the window are released.
func newSession(opts *options.Options, ctx graphics.Context, device renderer.Device,
	composer shader.Composer, sources *shader.SourceSet, logger *slog.Logger) (*App, error) {
	a := &App{opts: opts, ctx: ctx, sources: sources, log: logger}

	width, height := ctx.GetFramebufferSize()
	a.tracker = uniforms.NewTracker(width, height)
	r, err := renderer.New(renderer.Config{
		Device:        device,
		Composer:      composer,
		Surface:       ctx,
		Tracker:       a.tracker,
		Sources:       sources,
		Width:         width,
		Height:        height,
		SkipUnchanged: opts.SkipUnchanged,
		Logger:        logger,
	})
	if err != nil {
		device.Destroy()
		ctx.Shutdown()
		return nil, err
	}
	a.renderer = r

	a.mapper = events.NewMapper(a.tracker, r, nil, logger)
	ctx.RegisterKeyCallback(glfw.KeyF12, func() {
		a.captureRequested = true
	})

	logger.Info("session ready",
		"width", width, "height", height,
		"scale", a.scale(),
		"composition", composer.Name(),
		"shader_dir", opts.ShaderDir)
	return a, nil
}

// scale is the forced scale factor, or the window's content scale.
func (a *App) scale() float32 {
	if a.opts.ScaleForced {
		return float32(a.opts.ScaleFactor)
	}
	return a.ctx.ContentScale()
}

// attachEditor draws the editor over each frame and hands it the events the
// shader view does not consume.
func (a *App) attachEditor(e *overlay.Editor) {
	a.editor = e
	a.renderer.SetOverlay(e)
	a.mapper.SetPassthrough(e)
}

// Run drives the loop until the window is closed. A returned error is a
// graphics failure; shader errors never end the session.
func (a *App) Run() error {
	for {
		a.mapper.ApplyAll(a.ctx.PollEvents())

		if err := a.renderer.RenderFrame(a.ctx.Time()); err != nil {
			return err
		}
		if a.captureRequested {
			a.captureRequested = false
			a.capture()
		}
		if a.mapper.CloseRequested() {
			a.log.Info("window closed", "frames", a.renderer.FrameCount())
			return nil
		}
	}
}

func (a *App) capture() {
	img, err := a.renderer.Capture()
	if err != nil {
		a.log.Error("capture failed", "err", err)
		return
	}
	path, err := saveCapture(a.opts.CaptureDir, img, time.Now())
	if err != nil {
		a.log.Error("capture failed", "err", err)
		return
	}
	a.log.Info("frame captured", "path", path)
}

// Shutdown releases the session's resources in reverse order of creation.
func (a *App) Shutdown() {
	if a.editor != nil {
		a.editor.Destroy()
		a.editor = nil
	}
	if a.renderer != nil {
		a.renderer.Shutdown()
		a.renderer = nil
	}
	if a.ctx != nil {
		a.ctx.Shutdown()
		a.ctx = nil
	}
}
