package overlay

import (
	"math"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"

	"github.com/richinsley/shaderpad/events"
)

const mouseButtonCount = 3

// imgui keeps a fixed key table; codes outside it are ignored.
const maxKeyCode = 512

// Window is the part of the platform window the overlay polls each frame.
type Window interface {
	CursorPixels() (float64, float64)
	MouseButtonDown(button int) bool
	Focused() bool
	Time() float64
}

// input feeds platform events into imgui's IO. Clicks shorter than a frame
// are kept in justPressed so imgui still sees them.
type input struct {
	io          imgui.IO
	justPressed [mouseButtonCount]bool
	lastTime    float64
}

func newInput(io imgui.IO) *input {
	in := &input{io: io}
	keys := map[int]glfw.Key{
		imgui.KeyTab:        glfw.KeyTab,
		imgui.KeyLeftArrow:  glfw.KeyLeft,
		imgui.KeyRightArrow: glfw.KeyRight,
		imgui.KeyUpArrow:    glfw.KeyUp,
		imgui.KeyDownArrow:  glfw.KeyDown,
		imgui.KeyPageUp:     glfw.KeyPageUp,
		imgui.KeyPageDown:   glfw.KeyPageDown,
		imgui.KeyHome:       glfw.KeyHome,
		imgui.KeyEnd:        glfw.KeyEnd,
		imgui.KeyInsert:     glfw.KeyInsert,
		imgui.KeyDelete:     glfw.KeyDelete,
		imgui.KeyBackspace:  glfw.KeyBackspace,
		imgui.KeySpace:      glfw.KeySpace,
		imgui.KeyEnter:      glfw.KeyEnter,
		imgui.KeyEscape:     glfw.KeyEscape,
		imgui.KeyA:          glfw.KeyA,
		imgui.KeyC:          glfw.KeyC,
		imgui.KeyV:          glfw.KeyV,
		imgui.KeyX:          glfw.KeyX,
		imgui.KeyY:          glfw.KeyY,
		imgui.KeyZ:          glfw.KeyZ,
	}
	for imguiKey, glfwKey := range keys {
		io.KeyMap(imguiKey, int(glfwKey))
	}
	return in
}

// HandleEvent applies one platform event to imgui.
func (in *input) HandleEvent(ev events.Event) {
	switch ev := ev.(type) {
	case events.Key:
		if ev.Key < 0 || ev.Key >= maxKeyCode {
			return
		}
		switch glfw.Action(ev.Action) {
		case glfw.Press:
			in.io.KeyPress(ev.Key)
		case glfw.Release:
			in.io.KeyRelease(ev.Key)
		}
		in.io.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
		in.io.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
		in.io.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
		in.io.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
	case events.Char:
		in.io.AddInputCharacters(string(ev.Rune))
	case events.Scroll:
		in.io.AddMouseWheelDelta(float32(ev.DX), float32(ev.DY))
	case events.PointerDown:
		in.justPressed[0] = true
	case events.Button:
		if ev.Pressed && ev.Button >= 0 && ev.Button < mouseButtonCount {
			in.justPressed[ev.Button] = true
		}
	}
}

// frame updates display size, timing and mouse state ahead of NewFrame.
func (in *input) frame(win Window, width, height int) {
	in.io.SetDisplaySize(imgui.Vec2{X: float32(width), Y: float32(height)})

	now := win.Time()
	delta := float32(1.0 / 60.0)
	if in.lastTime > 0 && now > in.lastTime {
		delta = float32(now - in.lastTime)
	}
	in.lastTime = now
	in.io.SetDeltaTime(delta)

	if win.Focused() {
		x, y := win.CursorPixels()
		in.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	} else {
		in.io.SetMousePosition(imgui.Vec2{X: -math.MaxFloat32, Y: -math.MaxFloat32})
	}

	for i := range in.justPressed {
		down := in.justPressed[i] || win.MouseButtonDown(i)
		in.io.SetMouseButtonDown(i, down)
		in.justPressed[i] = false
	}
}
