package renderer

import (
	"errors"
	"image"
	"strings"

	"github.com/richinsley/shaderpad/shader"
	"github.com/richinsley/shaderpad/uniforms"
)

// fakeDevice compiles any fragment that does not contain a malformed main
// declaration or an #error directive, and records every call.
type fakeDevice struct {
	nextID   uint32
	live     map[uint32]bool
	calls    []string
	drawn    []uint32
	snaps    []uniforms.Snapshot
	released []uint32
	compiled int
	width    int
	height   int
	failDraw error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{live: make(map[uint32]bool), width: 1920, height: 1080}
}

func (d *fakeDevice) Compile(c shader.Composed) (*Program, error) {
	d.calls = append(d.calls, "compile")
	d.compiled++
	if strings.Contains(c.Fragment, "void main((") || strings.TrimSpace(c.Fragment) == "" {
		return nil, &Diagnostic{Stage: "fragment", Message: "0:1(11): error: syntax error"}
	}
	if strings.Contains(c.Fragment, "#error") {
		return nil, &Diagnostic{Stage: "fragment", Message: "0:1(1): error: #error directive"}
	}
	d.nextID++
	d.live[d.nextID] = true
	return &Program{ID: d.nextID, timeLoc: -1, resolutionLoc: -1, mouseLoc: -1}, nil
}

func (d *fakeDevice) Release(p *Program) {
	d.released = append(d.released, p.ID)
	delete(d.live, p.ID)
}

func (d *fakeDevice) Resize(w, h int) {
	d.calls = append(d.calls, "resize")
	d.width, d.height = w, h
}

func (d *fakeDevice) Clear([4]float32) error {
	d.calls = append(d.calls, "clear")
	return nil
}

func (d *fakeDevice) Draw(p *Program, s uniforms.Snapshot) error {
	d.calls = append(d.calls, "draw")
	if d.failDraw != nil {
		return d.failDraw
	}
	if p == nil || !d.live[p.ID] {
		return errors.New("draw with released program")
	}
	d.drawn = append(d.drawn, p.ID)
	d.snaps = append(d.snaps, s)
	return nil
}

func (d *fakeDevice) Resolve() error {
	d.calls = append(d.calls, "resolve")
	return nil
}

func (d *fakeDevice) Capture() (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, d.width, d.height)), nil
}

func (d *fakeDevice) Destroy() {
	d.calls = append(d.calls, "destroy")
}

type fakeSurface struct {
	device   *fakeDevice
	presents int
	err      error
}

func (s *fakeSurface) Present() error {
	s.device.calls = append(s.device.calls, "present")
	s.presents++
	return s.err
}

type fakeOverlay struct {
	device *fakeDevice
	edit   func(src *shader.SourceSet)
}

func (o *fakeOverlay) Render(src *shader.SourceSet, w, h int) error {
	o.device.calls = append(o.device.calls, "overlay")
	if o.edit != nil {
		o.edit(src)
	}
	return nil
}
