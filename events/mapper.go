package events

import (
	"log/slog"

	"github.com/richinsley/shaderpad/uniforms"
)

// Resizer is the render surface side of a resize.
type Resizer interface {
	Resize(width, height int)
}

// Handler receives events the core does not consume itself, typically the
// editor overlay.
type Handler interface {
	HandleEvent(ev Event)
}

// Mapper routes events into the tracker, the surface and the passthrough
// handler. All events for a frame must be applied before that frame renders.
type Mapper struct {
	tracker     *uniforms.Tracker
	surface     Resizer
	passthrough Handler
	closing     bool
	log         *slog.Logger
}

// NewMapper creates a mapper. surface and passthrough may be nil.
func NewMapper(tracker *uniforms.Tracker, surface Resizer, passthrough Handler, logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{
		tracker:     tracker,
		surface:     surface,
		passthrough: passthrough,
		log:         logger,
	}
}

// SetPassthrough replaces the handler for unconsumed events.
func (m *Mapper) SetPassthrough(h Handler) {
	m.passthrough = h
}

// Apply routes a single event.
func (m *Mapper) Apply(ev Event) {
	switch e := ev.(type) {
	case PointerDown:
		m.tracker.PointerDown(e.X, e.Y)
	case PointerDrag:
		m.tracker.PointerDrag(e.X, e.Y)
	case PointerUp:
		m.tracker.PointerUp()
	case Resize:
		if e.Width <= 0 || e.Height <= 0 {
			m.log.Debug("ignoring resize to zero dimension", "width", e.Width, "height", e.Height)
			return
		}
		if m.surface != nil {
			m.surface.Resize(e.Width, e.Height)
		}
		m.tracker.Resize(e.Width, e.Height)
	case CloseRequested:
		m.closing = true
		return
	}
	if m.passthrough != nil {
		m.passthrough.HandleEvent(ev)
	}
}

// ApplyAll routes events in order.
func (m *Mapper) ApplyAll(evs []Event) {
	for _, ev := range evs {
		m.Apply(ev)
	}
}

// CloseRequested reports whether a close event has been seen.
func (m *Mapper) CloseRequested() bool {
	return m.closing
}
