package renderer

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/richinsley/shaderpad/shader"
)

// State of the active program.
type State int

const (
	Uninitialized State = iota
	Valid
)

func (s State) String() string {
	if s == Valid {
		return "valid"
	}
	return "uninitialized"
}

// ErrUninitialized is returned by Recompile before a successful Init.
var ErrUninitialized = errors.New("pipeline has no initial program")

// Pipeline turns the live sources into the active program. Once Init has
// succeeded there is always a drawable program; failed recompiles keep it.
type Pipeline struct {
	device   Device
	composer shader.Composer

	active *Program

	// SkipUnchanged avoids the driver call when the composed text hashes to
	// the same value as the last attempt. Off by default.
	SkipUnchanged bool
	lastHash      uint64
	lastErr       error
	attempts      int
}

func NewPipeline(device Device, composer shader.Composer) *Pipeline {
	return &Pipeline{device: device, composer: composer}
}

// Init performs the first compile. There is no previous program to fall
// back to, so an error here must abort startup.
func (p *Pipeline) Init(src *shader.SourceSet) error {
	if p.active != nil {
		return nil
	}
	prog, err := p.build(src)
	if err != nil {
		return fmt.Errorf("initial shader compile failed: %w", err)
	}
	p.active = prog
	return nil
}

// Recompile builds the current sources. On success the new program replaces
// the active one and the old one is released; on failure the returned
// *Diagnostic describes the problem and the active program is unchanged.
func (p *Pipeline) Recompile(src *shader.SourceSet) (bool, error) {
	if p.active == nil {
		return false, ErrUninitialized
	}
	prog, err := p.build(src)
	if err != nil {
		return false, err
	}
	if prog == nil {
		return false, nil
	}
	old := p.active
	p.active = prog
	p.device.Release(old)
	return true, nil
}

// build returns (nil, nil) when SkipUnchanged suppressed the compile and the
// last attempt succeeded.
func (p *Pipeline) build(src *shader.SourceSet) (*Program, error) {
	c, err := p.composer.Compose(src)
	if err != nil {
		return nil, &Diagnostic{Stage: "compose", Message: err.Error()}
	}

	if p.SkipUnchanged && p.active != nil {
		h := hashComposed(c)
		if h == p.lastHash {
			return nil, p.lastErr
		}
		p.lastHash = h
	}

	p.attempts++
	prog, err := p.device.Compile(c)
	if p.SkipUnchanged {
		p.lastErr = err
		if p.active == nil {
			p.lastHash = hashComposed(c)
		}
	}
	return prog, err
}

func hashComposed(c shader.Composed) uint64 {
	h := fnv.New64a()
	h.Write([]byte(c.Vertex))
	h.Write([]byte{0})
	h.Write([]byte(c.Fragment))
	return h.Sum64()
}

// Active returns the program to draw with; nil only before Init succeeds.
func (p *Pipeline) Active() *Program {
	return p.active
}

func (p *Pipeline) State() State {
	if p.active == nil {
		return Uninitialized
	}
	return Valid
}

// Attempts counts the compile calls made on the device.
func (p *Pipeline) Attempts() int {
	return p.attempts
}

// Destroy releases the active program.
func (p *Pipeline) Destroy() {
	if p.active != nil {
		p.device.Release(p.active)
		p.active = nil
	}
}
