package graphics

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/shaderpad/events"
)

// Context defines the interface for a windowed OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	// Present swaps the back buffer to the screen.
	Present() error
	// PollEvents pumps the platform queue and returns the events received
	// since the previous call, in order.
	PollEvents() []events.Event
	GetFramebufferSize() (int, int)
	// ContentScale is the platform UI scale of the window's monitor.
	ContentScale() float32
	Time() float64
	// RegisterKeyCallback runs f on every press of key, during PollEvents.
	RegisterKeyCallback(key glfw.Key, f func())
}
