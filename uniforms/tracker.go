package uniforms

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Snapshot holds the per-frame values handed to the fragment program.
type Snapshot struct {
	Time       float32    // iTime
	Resolution mgl32.Vec3 // iResolution: width, height, 1
	// Mouse is iMouse: originX, originY, currentX, currentY. The sign of the
	// last two components is positive while the button is held.
	Mouse mgl32.Vec4
}

// Pointer is the unencoded pointer state, in bottom-left origin pixels.
type Pointer struct {
	Origin  mgl32.Vec2
	Current mgl32.Vec2
	Held    bool
}

// Tracker derives uniform values from input events and the surface size.
// It is not safe for concurrent use; the render loop owns it.
type Tracker struct {
	started    bool
	start      float64
	elapsed    float64
	resolution mgl32.Vec3
	pointer    Pointer
}

// NewTracker creates a tracker for a surface of the given pixel size.
func NewTracker(width, height int) *Tracker {
	t := &Tracker{resolution: mgl32.Vec3{0, 0, 1}}
	t.Resize(width, height)
	return t
}

// Advance records the clock reading for a new frame and returns the elapsed
// seconds since the first frame. The first call always returns 0 and the
// result never decreases, even if now does.
func (t *Tracker) Advance(now float64) float64 {
	if !t.started {
		t.started = true
		t.start = now
		t.elapsed = 0
		return 0
	}
	if e := now - t.start; e > t.elapsed {
		t.elapsed = e
	}
	return t.elapsed
}

// Elapsed returns the value of the last Advance.
func (t *Tracker) Elapsed() float64 {
	return t.elapsed
}

// Resize updates the resolution when both dimensions are positive and
// reports whether it did.
func (t *Tracker) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	t.resolution = mgl32.Vec3{float32(width), float32(height), 1}
	return true
}

// Resolution returns the current resolution uniform.
func (t *Tracker) Resolution() mgl32.Vec3 {
	return t.resolution
}

// flip converts top-left origin coordinates to the bottom-left convention.
func (t *Tracker) flip(x, y float64) mgl32.Vec2 {
	return mgl32.Vec2{float32(x), t.resolution.Y() - float32(y)}
}

// PointerDown handles the button going down at raw window pixel (x, y).
// A press while already held is ignored.
func (t *Tracker) PointerDown(x, y float64) {
	if t.pointer.Held {
		return
	}
	p := t.flip(x, y)
	t.pointer = Pointer{Origin: p, Current: p, Held: true}
}

// PointerDrag moves the current position while the button is held.
func (t *Tracker) PointerDrag(x, y float64) {
	if !t.pointer.Held {
		return
	}
	t.pointer.Current = t.flip(x, y)
}

// PointerUp releases the button. Origin and current keep their positions.
func (t *Tracker) PointerUp() {
	t.pointer.Held = false
}

// Pointer returns the unencoded pointer state.
func (t *Tracker) Pointer() Pointer {
	return t.pointer
}

// Snapshot returns the uniform values for the current frame.
func (t *Tracker) Snapshot() Snapshot {
	cur := t.pointer.Current
	return Snapshot{
		Time:       float32(t.elapsed),
		Resolution: t.resolution,
		Mouse: mgl32.Vec4{
			t.pointer.Origin.X(),
			t.pointer.Origin.Y(),
			signed(cur.X(), t.pointer.Held),
			signed(cur.Y(), t.pointer.Held),
		},
	}
}

// signed encodes the held flag in the sign of v. Zero stays +0.
func signed(v float32, held bool) float32 {
	m := math32.Abs(v)
	if held || m == 0 {
		return m
	}
	return -m
}
