package renderer

import (
	"fmt"
	"image"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/shaderpad/shader"
	"github.com/richinsley/shaderpad/uniforms"
)

var glInitOnce sync.Once

// Single triangle covering the whole surface: two corners lie outside clip
// space so the visible part is exactly the viewport, with no diagonal seam.
var triangleVertices = []float32{
	-1.0, -1.0,
	3.0, -1.0,
	-1.0, 3.0,
}

// GLDevice implements Device with OpenGL 4.1 core. The GL context must be
// current on the calling thread for every method.
type GLDevice struct {
	vao               uint32
	vbo               uint32
	blitProgram       uint32
	blitTexLoc        int32
	offscreenRenderer *OffscreenRenderer
}

// NewGLDevice loads the GL entry points and creates the triangle geometry,
// the blit program and a render target of the given size.
func NewGLDevice(width, height int) (*GLDevice, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	d := &GLDevice{}
	gl.GenVertexArrays(1, &d.vao)
	gl.GenBuffers(1, &d.vbo)
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(triangleVertices)*4, gl.Ptr(triangleVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	var err error
	d.blitProgram, err = NewProgram(shader.BlitVertexShader(), shader.BlitFragmentShader())
	if err != nil {
		d.Destroy()
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	d.blitTexLoc = gl.GetUniformLocation(d.blitProgram, gl.Str("u_texture\x00"))

	d.offscreenRenderer, err = NewOffscreenRenderer(width, height)
	if err != nil {
		d.Destroy()
		return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
	}
	if err := glError("device setup"); err != nil {
		d.Destroy()
		return nil, err
	}
	return d, nil
}

func (d *GLDevice) Compile(c shader.Composed) (*Program, error) {
	id, err := NewProgram(c.Vertex, c.Fragment)
	if err != nil {
		return nil, err
	}
	p := &Program{
		ID:            id,
		timeLoc:       uniformLocation(id, c.Uniforms, shader.UniformTime),
		resolutionLoc: uniformLocation(id, c.Uniforms, shader.UniformResolution),
		mouseLoc:      uniformLocation(id, c.Uniforms, shader.UniformMouse),
	}
	return p, nil
}

func (d *GLDevice) Release(p *Program) {
	if p == nil || p.ID == 0 {
		return
	}
	gl.DeleteProgram(p.ID)
	p.ID = 0
}

func (d *GLDevice) Resize(width, height int) {
	d.offscreenRenderer.Resize(width, height)
}

func (d *GLDevice) Clear(color [4]float32) error {
	d.offscreenRenderer.Bind()
	gl.Disable(gl.SCISSOR_TEST)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	return glError("clear")
}

func (d *GLDevice) Draw(p *Program, s uniforms.Snapshot) error {
	if p == nil || p.ID == 0 {
		return fmt.Errorf("draw: no program")
	}
	gl.UseProgram(p.ID)
	if p.timeLoc != -1 {
		gl.Uniform1f(p.timeLoc, s.Time)
	}
	if p.resolutionLoc != -1 {
		gl.Uniform3f(p.resolutionLoc, s.Resolution[0], s.Resolution[1], s.Resolution[2])
	}
	if p.mouseLoc != -1 {
		gl.Uniform4f(p.mouseLoc, s.Mouse[0], s.Mouse[1], s.Mouse[2], s.Mouse[3])
	}
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	return glError("draw")
}

func (d *GLDevice) Resolve() error {
	width, height := d.offscreenRenderer.Size()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.UseProgram(d.blitProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.offscreenRenderer.textureID)
	if d.blitTexLoc != -1 {
		gl.Uniform1i(d.blitTexLoc, 0)
	}
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
	return glError("resolve")
}

func (d *GLDevice) Capture() (*image.RGBA, error) {
	img := d.offscreenRenderer.ReadPixels()
	if err := glError("capture"); err != nil {
		return nil, err
	}
	return img, nil
}

func (d *GLDevice) Destroy() {
	if d.offscreenRenderer != nil {
		d.offscreenRenderer.Destroy()
		d.offscreenRenderer = nil
	}
	if d.blitProgram != 0 {
		gl.DeleteProgram(d.blitProgram)
		d.blitProgram = 0
	}
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
		d.vbo = 0
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func uniformLocation(program uint32, names map[string]string, name string) int32 {
	mapped, ok := names[name]
	if !ok {
		return -1
	}
	return gl.GetUniformLocation(program, gl.Str(mapped+"\x00"))
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}

// NewProgram compiles and links a program. Failures are *Diagnostic.
func NewProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.BindAttribLocation(program, 0, gl.Str("pos\x00"))
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &Diagnostic{Stage: "link", Message: log}
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	stage := "vertex"
	if shaderType == gl.FRAGMENT_SHADER {
		stage = "fragment"
	}
	if strings.TrimSpace(source) == "" {
		return 0, &Diagnostic{Stage: stage, Message: "empty source"}
	}

	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, &Diagnostic{Stage: stage, Message: logText}
	}
	return shader, nil
}
