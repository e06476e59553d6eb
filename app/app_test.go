package app

import (
	"bytes"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/shaderpad/events"
	"github.com/richinsley/shaderpad/options"
	"github.com/richinsley/shaderpad/renderer"
	"github.com/richinsley/shaderpad/shader"
	"github.com/richinsley/shaderpad/uniforms"
)

const redBody = "void main(){ outColor = vec4(1,0,0,1); }"

// fakeWindow hands out one scripted batch of events per poll and counts
// presents. Once the script runs out it polls empty batches.
type fakeWindow struct {
	batches  [][]events.Event
	polls    int
	presents int
	now      float64
	keys     map[glfw.Key]func()
	pressAt  map[int]glfw.Key // key callbacks fired during the numbered poll
	closed   bool
}

func newFakeWindow(batches ...[]events.Event) *fakeWindow {
	return &fakeWindow{batches: batches, keys: make(map[glfw.Key]func()), pressAt: make(map[int]glfw.Key)}
}

func (w *fakeWindow) MakeCurrent() {}
func (w *fakeWindow) Shutdown()    { w.closed = true }
func (w *fakeWindow) Present() error {
	w.presents++
	return nil
}

func (w *fakeWindow) PollEvents() []events.Event {
	w.polls++
	if key, ok := w.pressAt[w.polls]; ok {
		if f := w.keys[key]; f != nil {
			f()
		}
	}
	if len(w.batches) == 0 {
		return nil
	}
	batch := w.batches[0]
	w.batches = w.batches[1:]
	return batch
}

func (w *fakeWindow) GetFramebufferSize() (int, int) { return 1920, 1080 }
func (w *fakeWindow) ContentScale() float32          { return 1 }

func (w *fakeWindow) Time() float64 {
	w.now += 0.016
	return w.now
}

func (w *fakeWindow) RegisterKeyCallback(key glfw.Key, f func()) {
	w.keys[key] = f
}

// fakeDevice accepts every shader and records the snapshot of each draw.
type fakeDevice struct {
	nextID    uint32
	snaps     []uniforms.Snapshot
	destroyed bool
}

func (d *fakeDevice) Compile(shader.Composed) (*renderer.Program, error) {
	d.nextID++
	return &renderer.Program{ID: d.nextID}, nil
}

func (d *fakeDevice) Release(*renderer.Program) {}
func (d *fakeDevice) Resize(int, int)           {}
func (d *fakeDevice) Clear([4]float32) error    { return nil }
func (d *fakeDevice) Resolve() error            { return nil }
func (d *fakeDevice) Destroy()                  { d.destroyed = true }

func (d *fakeDevice) Draw(_ *renderer.Program, s uniforms.Snapshot) error {
	d.snaps = append(d.snaps, s)
	return nil
}

func (d *fakeDevice) Capture() (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func newTestSession(t *testing.T, win *fakeWindow, dev *fakeDevice, opts *options.Options) (*App, *bytes.Buffer) {
	t.Helper()
	if opts == nil {
		opts = &options.Options{CaptureDir: t.TempDir()}
	}
	logs := &bytes.Buffer{}
	a, err := newSession(opts, win, dev, shader.Framed{}, &shader.SourceSet{Body: redBody},
		slog.New(slog.NewTextHandler(logs, nil)))
	require.NoError(t, err)
	return a, logs
}

func TestRunStopsAfterPresentingCloseFrame(t *testing.T) {
	win := newFakeWindow(
		nil,
		[]events.Event{events.PointerDown{X: 100, Y: 100}, events.CloseRequested{}},
	)
	dev := &fakeDevice{}
	a, logs := newTestSession(t, win, dev, nil)

	require.NoError(t, a.Run())

	assert.Equal(t, 2, win.polls)
	assert.Equal(t, 2, win.presents, "the frame that saw the close is still presented")
	require.Len(t, dev.snaps, 2)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 0}, dev.snaps[0].Mouse)
	assert.Equal(t, mgl32.Vec4{100, 980, 100, 980}, dev.snaps[1].Mouse, "events apply before the frame renders")
	assert.Contains(t, logs.String(), "window closed")
}

func TestRunAppliesResizeBeforeFrame(t *testing.T) {
	win := newFakeWindow(
		[]events.Event{events.Resize{Width: 800, Height: 600}, events.Resize{Width: 0, Height: 600}},
		[]events.Event{events.CloseRequested{}},
	)
	dev := &fakeDevice{}
	a, _ := newTestSession(t, win, dev, nil)

	require.NoError(t, a.Run())

	require.Len(t, dev.snaps, 2)
	assert.Equal(t, mgl32.Vec3{800, 600, 1}, dev.snaps[0].Resolution)
	w, h := a.renderer.Size()
	assert.Equal(t, [2]int{800, 600}, [2]int{w, h})
}

func TestCaptureKeySavesAfterFrame(t *testing.T) {
	dir := t.TempDir()
	win := newFakeWindow(nil, []events.Event{events.CloseRequested{}})
	win.pressAt[1] = glfw.KeyF12
	a, logs := newTestSession(t, win, &fakeDevice{}, &options.Options{CaptureDir: dir})

	require.NoError(t, a.Run())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".png", filepath.Ext(entries[0].Name()))
	assert.Contains(t, logs.String(), "frame captured")
}

func TestForcedScaleOverridesContentScale(t *testing.T) {
	a, _ := newTestSession(t, newFakeWindow(), &fakeDevice{}, &options.Options{ScaleFactor: 1.5, ScaleForced: true})
	assert.Equal(t, float32(1.5), a.scale())

	a.opts.ScaleForced = false
	assert.Equal(t, float32(1), a.scale())
}

func TestShutdownReleasesWindowAndDevice(t *testing.T) {
	win := newFakeWindow()
	dev := &fakeDevice{}
	a, _ := newTestSession(t, win, dev, nil)

	a.Shutdown()
	assert.True(t, dev.destroyed)
	assert.True(t, win.closed)
	assert.NotPanics(t, a.Shutdown)
}
