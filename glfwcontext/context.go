package glfwcontext

import (
	"fmt"
	"log/slog"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/shaderpad/events"
	"github.com/richinsley/shaderpad/options"
)

// Context is a GLFW window with a GL 4.1 core context. Callbacks queue
// events that PollEvents hands to the loop.
type Context struct {
	window    *glfw.Window
	queue     []events.Event
	mouseDown bool
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
	clipboard    *Clipboard
	log          *slog.Logger
}

// New creates and initializes a new GLFW window and returns a Context object.
func New(opts *options.Options, logger *slog.Logger) (*Context, error) {
	if logger == nil {
		logger = slog.Default()
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
		log:          logger,
	}
	c.clipboard = newClipboard(win, logger)

	win.SetFramebufferSizeCallback(c.framebufferSizeCallback)
	win.SetMouseButtonCallback(c.mouseButtonCallback)
	win.SetCursorPosCallback(c.cursorPosCallback)
	win.SetScrollCallback(c.scrollCallback)
	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCharCallback(c.charCallback)
	win.SetCloseCallback(c.closeCallback)

	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) push(ev events.Event) {
	c.queue = append(c.queue, ev)
}

// cursorPixels converts the cursor position from screen coordinates to
// framebuffer pixels.
func (c *Context) cursorPixels(cursorX, cursorY float64) (float64, float64) {
	fbWidth, fbHeight := c.window.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	var scaleX, scaleY float64 = 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}
	return cursorX * scaleX, cursorY * scaleY
}

func (c *Context) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	c.push(events.Resize{Width: width, Height: height})
}

func (c *Context) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		c.push(events.Button{Button: int(button), Pressed: action == glfw.Press})
		return
	}
	x, y := c.cursorPixels(w.GetCursorPos())
	switch action {
	case glfw.Press:
		c.mouseDown = true
		c.push(events.PointerDown{X: x, Y: y})
	case glfw.Release:
		c.mouseDown = false
		c.push(events.PointerUp{X: x, Y: y})
	}
}

func (c *Context) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	x, y := c.cursorPixels(xpos, ypos)
	if c.mouseDown {
		c.push(events.PointerDrag{X: x, Y: y})
		return
	}
	c.push(events.PointerMove{X: x, Y: y})
}

func (c *Context) scrollCallback(_ *glfw.Window, xoff, yoff float64) {
	c.push(events.Scroll{DX: xoff, DY: yoff})
}

// glfwKeyCallback queues the key event and runs any registered callback.
func (c *Context) glfwKeyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	c.push(events.Key{Key: int(key), Scancode: scancode, Action: int(action), Mods: int(mods)})
	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

func (c *Context) charCallback(_ *glfw.Window, char rune) {
	c.push(events.Char{Rune: char})
}

func (c *Context) closeCallback(_ *glfw.Window) {
	c.push(events.CloseRequested{})
}

// PollEvents processes pending platform events and returns them in order.
func (c *Context) PollEvents() []events.Event {
	glfw.PollEvents()
	evs := c.queue
	c.queue = nil
	return evs
}

// Present swaps the buffers. GLFW reports platform errors by panicking;
// they are returned as errors here.
func (c *Context) Present() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("swap buffers: %v", r)
		}
	}()
	c.window.SwapBuffers()
	return nil
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// GetWindowSize returns the window size in screen coordinates.
func (c *Context) GetWindowSize() (int, int) {
	return c.window.GetSize()
}

// CursorPixels returns the cursor position in framebuffer pixels.
func (c *Context) CursorPixels() (float64, float64) {
	return c.cursorPixels(c.window.GetCursorPos())
}

// MouseButtonDown reports whether the given button is currently pressed.
func (c *Context) MouseButtonDown(button int) bool {
	return c.window.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

// Focused reports whether the window has input focus.
func (c *Context) Focused() bool {
	return c.window.GetAttrib(glfw.Focused) == glfw.True
}

func (c *Context) ContentScale() float32 {
	x, _ := c.window.GetContentScale()
	if x <= 0 {
		return 1
	}
	return x
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// Clipboard returns the clipboard bridge, or nil when the platform has none.
func (c *Context) Clipboard() *Clipboard {
	return c.clipboard
}

// Window returns the underlying *glfw.Window.
func (c *Context) Window() *glfw.Window {
	return c.window
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics(logger *slog.Logger) error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	logger.Info("GLFW initialized", "version", glfw.GetVersionString())
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics(logger *slog.Logger) {
	glfw.Terminate()
	logger.Info("GLFW terminated")
}
