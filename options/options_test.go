package options

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	opts, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Shaderpad", opts.Title)
	assert.Equal(t, 1920, opts.Width)
	assert.Equal(t, 1080, opts.Height)
	assert.False(t, opts.ScaleForced)
	assert.Equal(t, ".", opts.ShaderDir)
	assert.Equal(t, "framed", opts.Composition)
	assert.False(t, opts.SkipUnchanged)
	assert.Equal(t, slog.LevelInfo, opts.LogLevel)
}

func TestLoadScaleFactor(t *testing.T) {
	t.Setenv("SHADERPAD_SCALE_FACTOR", "1.5")
	opts, err := Load()
	require.NoError(t, err)
	assert.True(t, opts.ScaleForced)
	assert.Equal(t, 1.5, opts.ScaleFactor)
}

func TestLoadScaleFactorInvalid(t *testing.T) {
	for _, raw := range []string{"abc", "", " 1.5 ", "0", "-2", "NaN"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("SHADERPAD_SCALE_FACTOR", raw)
			_, err := Load()
			assert.ErrorIs(t, err, ErrInvalidScaleFactor)
		})
	}
}

func TestLoadComposition(t *testing.T) {
	t.Setenv("SHADERPAD_COMPOSITION", "Direct")
	opts, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "direct", opts.Composition)

	t.Setenv("SHADERPAD_COMPOSITION", "multipass")
	_, err = Load()
	assert.ErrorIs(t, err, ErrUnknownComposition)
}

func TestLoadMisc(t *testing.T) {
	t.Setenv("SHADERPAD_SHADER_DIR", "/tmp/shaders")
	t.Setenv("SHADERPAD_SKIP_UNCHANGED", "true")
	t.Setenv("SHADERPAD_LOG_LEVEL", "debug")
	opts, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/shaders", opts.ShaderDir)
	assert.True(t, opts.SkipUnchanged)
	assert.Equal(t, slog.LevelDebug, opts.LogLevel)

	t.Setenv("SHADERPAD_SKIP_UNCHANGED", "maybe")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadEmptyValuesFallBack(t *testing.T) {
	for _, key := range []string{"SHADER_DIR", "COMPOSITION", "SKIP_UNCHANGED", "CAPTURE_DIR", "LOG_LEVEL"} {
		t.Setenv("SHADERPAD_"+key, "")
	}
	opts, err := Load()
	require.NoError(t, err)
	assert.False(t, opts.ScaleForced)
	assert.Equal(t, ".", opts.ShaderDir)
	assert.Equal(t, ".", opts.CaptureDir)
	assert.Equal(t, "framed", opts.Composition)
	assert.False(t, opts.SkipUnchanged)
	assert.Equal(t, slog.LevelInfo, opts.LogLevel)
}
