package renderer

import (
	"fmt"
	"image"
	"strings"

	"github.com/richinsley/shaderpad/shader"
	"github.com/richinsley/shaderpad/uniforms"
)

// Program is a linked shader program and its uniform locations. A location
// of -1 means the fragment stage does not use that uniform.
type Program struct {
	ID            uint32
	timeLoc       int32
	resolutionLoc int32
	mouseLoc      int32
}

// Device is the graphics backend of the renderer. GLDevice implements it
// with OpenGL; tests use a fake.
type Device interface {
	// Compile builds a program. Compile and link failures are returned as
	// *Diagnostic and leave no GPU objects behind.
	Compile(c shader.Composed) (*Program, error)
	Release(p *Program)
	// Resize changes the size of the render target.
	Resize(width, height int)
	// Clear binds the render target and clears it.
	Clear(color [4]float32) error
	// Draw renders the full-surface triangle with p and the snapshot.
	Draw(p *Program, s uniforms.Snapshot) error
	// Resolve copies the render target to the window framebuffer.
	Resolve() error
	// Capture reads back the render target.
	Capture() (*image.RGBA, error)
	Destroy()
}

// Diagnostic describes a failed shader compile, link or composition.
type Diagnostic struct {
	Stage   string // vertex, fragment, link or compose
	Message string
}

func (d *Diagnostic) Error() string {
	msg := strings.TrimRight(d.Message, "\x00\r\n ")
	return fmt.Sprintf("%s shader: %s", d.Stage, msg)
}
