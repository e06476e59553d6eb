package shader

import (
	"errors"
	"fmt"
	"strings"
)

// Uniform names of the fragment contract.
const (
	UniformTime       = "iTime"
	UniformResolution = "iResolution"
	UniformMouse      = "iMouse"
)

// Composition modes accepted by NewComposer.
const (
	ModeDirect    = "direct"
	ModeFramed    = "framed"
	ModeShadertoy = "shadertoy"
)

// ErrUnknownMode is returned by NewComposer for an unsupported mode.
var ErrUnknownMode = errors.New("unknown composition mode")

// Composed is a vertex/fragment pair ready for the driver compiler.
type Composed struct {
	Vertex   string
	Fragment string
	// Uniforms maps contract names (iTime, ...) to the names declared in
	// Fragment. Contract uniforms missing from the map are not set.
	Uniforms map[string]string
}

// Composer turns the live source set into compilable text.
type Composer interface {
	Compose(src *SourceSet) (Composed, error)
	Name() string
}

// TranslateFunc translates a WebGL2 fragment shader to desktop GLSL and
// returns the code with the mapping from declared to emitted uniform names.
type TranslateFunc func(source string) (code string, names map[string]string, err error)

// NewComposer returns the composer for mode. translate is only used by the
// shadertoy mode and may be nil otherwise.
func NewComposer(mode string, translate TranslateFunc) (Composer, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeDirect:
		return Direct{}, nil
	case ModeFramed, "":
		return Framed{}, nil
	case ModeShadertoy:
		if translate == nil {
			return nil, fmt.Errorf("shadertoy composition requires a translator")
		}
		return &Shadertoy{translate: translate}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

func vertexOrDefault(src *SourceSet) string {
	if strings.TrimSpace(src.Vertex) == "" {
		return DefaultVertexShader()
	}
	return src.Vertex
}

func identity(names ...string) map[string]string {
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[n] = n
	}
	return m
}

// Direct compiles the body as the whole fragment shader.
type Direct struct{}

func (Direct) Name() string { return ModeDirect }

func (Direct) Compose(src *SourceSet) (Composed, error) {
	return Composed{
		Vertex:   vertexOrDefault(src),
		Fragment: src.Body,
		Uniforms: identity(UniformTime, UniformResolution),
	}, nil
}

// Framed surrounds the body with the fixed head and tail text.
type Framed struct{}

func (Framed) Name() string { return ModeFramed }

func (Framed) Compose(src *SourceSet) (Composed, error) {
	head := src.Head
	if strings.TrimSpace(head) == "" {
		head = DefaultHead()
	}
	return Composed{
		Vertex:   vertexOrDefault(src),
		Fragment: head + "\n" + src.Body + "\n" + src.Tail,
		Uniforms: identity(UniformTime, UniformResolution, UniformMouse),
	}, nil
}

// Shadertoy treats the body as a Shadertoy mainImage shader. The translated
// result for the last body is kept so unchanged text is not re-translated.
type Shadertoy struct {
	translate TranslateFunc

	lastBody string
	last     *Composed
	lastErr  error
}

func (s *Shadertoy) Name() string { return ModeShadertoy }

func (s *Shadertoy) Compose(src *SourceSet) (Composed, error) {
	vertex := vertexOrDefault(src)
	if s.last != nil && s.lastBody == src.Body {
		c := *s.last
		c.Vertex = vertex
		return c, s.lastErr
	}

	code, names, err := s.translate(ShadertoySource(src.Body))
	c := Composed{Vertex: vertex}
	if err == nil {
		c.Fragment = code
		c.Uniforms = make(map[string]string, 3)
		for _, n := range []string{UniformTime, UniformResolution, UniformMouse} {
			if mapped, ok := names[n]; ok {
				c.Uniforms[n] = mapped
			}
		}
	} else {
		err = fmt.Errorf("shadertoy translation failed: %w", err)
	}
	s.lastBody = src.Body
	s.last = &c
	s.lastErr = err
	return c, err
}
