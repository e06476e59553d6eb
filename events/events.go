// Package events defines the platform events the render loop consumes and
// the Mapper that routes them into the uniform tracker, the render surface
// and the editor overlay.
package events

// Event is any platform event delivered to the loop.
type Event interface{ isEvent() }

// PointerDown is the primary button going down at window pixel (X, Y),
// top-left origin.
type PointerDown struct{ X, Y float64 }

// PointerDrag is pointer motion while the primary button is held.
type PointerDrag struct{ X, Y float64 }

// PointerUp is the primary button being released.
type PointerUp struct{ X, Y float64 }

// PointerMove is pointer motion with the primary button up.
type PointerMove struct{ X, Y float64 }

// Resize carries the new framebuffer size in pixels.
type Resize struct{ Width, Height int }

// CloseRequested asks the loop to stop after the current frame.
type CloseRequested struct{}

// Key is a keyboard key transition. Action follows GLFW: 0 release,
// 1 press, 2 repeat.
type Key struct {
	Key      int
	Scancode int
	Action   int
	Mods     int
}

// Char is a unicode character typed.
type Char struct{ Rune rune }

// Scroll is a wheel or trackpad scroll.
type Scroll struct{ DX, DY float64 }

// Button is a non-primary mouse button transition.
type Button struct {
	Button  int
	Pressed bool
}

func (PointerDown) isEvent()    {}
func (PointerDrag) isEvent()    {}
func (PointerUp) isEvent()      {}
func (PointerMove) isEvent()    {}
func (Resize) isEvent()         {}
func (CloseRequested) isEvent() {}
func (Key) isEvent()            {}
func (Char) isEvent()           {}
func (Scroll) isEvent()         {}
func (Button) isEvent()         {}
