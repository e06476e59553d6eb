package renderer

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/shaderpad/shader"
	"github.com/richinsley/shaderpad/uniforms"
)

type harness struct {
	r       *Renderer
	device  *fakeDevice
	surface *fakeSurface
	overlay *fakeOverlay
	tracker *uniforms.Tracker
	sources *shader.SourceSet
	logs    *bytes.Buffer
}

func newHarness(t *testing.T, body string) *harness {
	t.Helper()
	d := newFakeDevice()
	h := &harness{
		device:  d,
		surface: &fakeSurface{device: d},
		overlay: &fakeOverlay{device: d},
		tracker: uniforms.NewTracker(1920, 1080),
		sources: &shader.SourceSet{Body: body},
		logs:    &bytes.Buffer{},
	}
	r, err := New(Config{
		Device:   d,
		Composer: shader.Framed{},
		Surface:  h.surface,
		Overlay:  h.overlay,
		Tracker:  h.tracker,
		Sources:  h.sources,
		Width:    1920,
		Height:   1080,
		Logger:   slog.New(slog.NewTextHandler(h.logs, nil)),
	})
	require.NoError(t, err)
	h.r = r
	d.calls = nil
	return h
}

func TestNewFailsOnInvalidInitialShader(t *testing.T) {
	d := newFakeDevice()
	_, err := New(Config{
		Device:   d,
		Composer: shader.Framed{},
		Surface:  &fakeSurface{device: d},
		Tracker:  uniforms.NewTracker(10, 10),
		Sources:  &shader.SourceSet{Body: "void main(("},
	})
	assert.Error(t, err)
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestFrameSequence(t *testing.T) {
	h := newHarness(t, redBody)
	require.NoError(t, h.r.RenderFrame(1.0))

	assert.Equal(t, []string{"compile", "clear", "draw", "resolve", "overlay", "present"}, h.device.calls)
	assert.Equal(t, 1, h.surface.presents)
	assert.EqualValues(t, 1, h.r.FrameCount())
}

func TestElapsedTimeAcrossFrames(t *testing.T) {
	h := newHarness(t, redBody)
	for _, now := range []float64{5.0, 5.5, 5.25, 6.0} {
		require.NoError(t, h.r.RenderFrame(now))
	}
	require.Len(t, h.device.snaps, 4)
	assert.Equal(t, float32(0), h.device.snaps[0].Time)
	for i := 1; i < len(h.device.snaps); i++ {
		assert.GreaterOrEqual(t, h.device.snaps[i].Time, h.device.snaps[i-1].Time)
	}
	assert.Equal(t, float32(1), h.device.snaps[3].Time)
}

func TestMalformedEditKeepsPreviousProgram(t *testing.T) {
	h := newHarness(t, redBody)
	require.NoError(t, h.r.RenderFrame(0))
	good := h.r.Program().ID

	h.sources.Body = "void main(("
	require.NoError(t, h.r.RenderFrame(0.016))
	require.NoError(t, h.r.RenderFrame(0.033))

	n := len(h.device.drawn)
	assert.Equal(t, good, h.device.drawn[n-1])
	assert.Equal(t, good, h.device.drawn[n-2])
	assert.Equal(t, 3, h.surface.presents, "session keeps presenting")

	assert.Equal(t, 1, strings.Count(h.logs.String(), "shader recompile failed"), "repeated diagnostic logged once")

	h.sources.Body = redBody
	require.NoError(t, h.r.RenderFrame(0.05))
	assert.NotEqual(t, good, h.r.Program().ID)
	assert.Contains(t, h.logs.String(), "shader compiles again")
}

func TestDiagnosticLoggedOnChange(t *testing.T) {
	h := newHarness(t, redBody)
	bodies := []string{"void main((", "void main((", "#error stop", "void main(("}
	for i, body := range bodies {
		h.sources.Body = body
		require.NoError(t, h.r.RenderFrame(float64(i)))
	}

	logs := h.logs.String()
	assert.Equal(t, 3, strings.Count(logs, "shader recompile failed"))
	assert.Equal(t, 2, strings.Count(logs, "syntax error"))
	assert.Equal(t, 1, strings.Count(logs, "#error directive"))
	assert.Equal(t, 4, h.surface.presents)
}

func TestOverlayEditCompiledNextFrame(t *testing.T) {
	h := newHarness(t, redBody)
	h.overlay.edit = func(src *shader.SourceSet) { src.Body = "void main((" }

	require.NoError(t, h.r.RenderFrame(0))
	assert.NotContains(t, h.logs.String(), "shader recompile failed")

	h.overlay.edit = nil
	require.NoError(t, h.r.RenderFrame(0.016))
	assert.Contains(t, h.logs.String(), "shader recompile failed")
}

func TestDrawFailureIsReturned(t *testing.T) {
	h := newHarness(t, redBody)
	h.device.failDraw = errors.New("draw: gl error 0x505")
	err := h.r.RenderFrame(0)
	assert.ErrorContains(t, err, "0x505")
	assert.Equal(t, 0, h.surface.presents)
}

func TestPresentFailureIsReturned(t *testing.T) {
	h := newHarness(t, redBody)
	h.surface.err = errors.New("swap failed")
	assert.ErrorContains(t, h.r.RenderFrame(0), "present")
}

func TestResize(t *testing.T) {
	h := newHarness(t, redBody)
	h.r.Resize(800, 600)
	h.r.Resize(1024, 768)
	w, hh := h.r.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, hh)

	h.r.Resize(0, 500)
	h.r.Resize(500, 0)
	w, hh = h.r.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, hh)
	assert.Equal(t, 1024, h.device.width)
	assert.Equal(t, 768, h.device.height)
}

func TestUniformsReachDraw(t *testing.T) {
	h := newHarness(t, redBody)
	h.tracker.PointerDown(100, 100)
	require.NoError(t, h.r.RenderFrame(0))

	s := h.device.snaps[0]
	assert.Equal(t, mgl32.Vec3{1920, 1080, 1}, s.Resolution)
	assert.Equal(t, mgl32.Vec4{100, 980, 100, 980}, s.Mouse)
}

func TestShutdown(t *testing.T) {
	h := newHarness(t, redBody)
	id := h.r.Program().ID
	h.r.Shutdown()
	assert.Contains(t, h.device.released, id)
	assert.Contains(t, h.device.calls, "destroy")
}
