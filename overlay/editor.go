// Package overlay draws the in-window source editor with Dear ImGui.
package overlay

import (
	"log/slog"

	"github.com/inkyblackness/imgui-go/v4"

	"github.com/richinsley/shaderpad/events"
	"github.com/richinsley/shaderpad/shader"
)

const editorWindowSize = 500

// Editor is a single text area bound to the fragment body. Edits land in
// the SourceSet directly, so the next frame's recompile sees them.
type Editor struct {
	context *imgui.Context
	io      imgui.IO
	input   *input
	gl      *glRenderer
	window  Window
	scale   float32
	log     *slog.Logger
}

// New creates the imgui context and its GL resources. The GL context must be
// current. clipboard may be nil, in which case copy and paste stay inside
// the editor.
func New(win Window, clipboard imgui.Clipboard, scale float32, logger *slog.Logger) (*Editor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if scale <= 0 {
		scale = 1
	}

	ctx := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	io.SetIniFilename("")
	io.SetFontGlobalScale(scale)
	imgui.CurrentStyle().ScaleAllSizes(scale)
	if clipboard != nil {
		io.SetClipboard(clipboard)
	}

	r, err := newGLRenderer(io)
	if err != nil {
		ctx.Destroy()
		return nil, err
	}

	logger.Debug("editor overlay ready", "scale", scale, "clipboard", clipboard != nil)
	return &Editor{
		context: ctx,
		io:      io,
		input:   newInput(io),
		gl:      r,
		window:  win,
		scale:   scale,
		log:     logger,
	}, nil
}

// HandleEvent forwards input the shader view did not consume.
func (e *Editor) HandleEvent(ev events.Event) {
	e.input.HandleEvent(ev)
}

// Render builds and draws one frame of the editor over the presented image.
func (e *Editor) Render(sources *shader.SourceSet, width, height int) error {
	e.input.frame(e.window, width, height)
	imgui.NewFrame()

	imgui.SetNextWindowSizeV(imgui.Vec2{X: editorWindowSize * e.scale, Y: editorWindowSize * e.scale}, imgui.ConditionFirstUseEver)
	if imgui.Begin("code") {
		imgui.InputTextMultilineV("##body", &sources.Body, imgui.Vec2{X: -1, Y: -1}, imgui.InputTextFlagsAllowTabInput, nil)
	}
	imgui.End()

	imgui.Render()
	size := [2]float32{float32(width), float32(height)}
	return e.gl.render(size, size, imgui.RenderedDrawData())
}

// Destroy releases the GL resources and the imgui context.
func (e *Editor) Destroy() {
	if e.gl != nil {
		e.gl.destroy()
		e.gl = nil
	}
	if e.context != nil {
		e.context.Destroy()
		e.context = nil
	}
}
