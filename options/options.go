package options

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/richinsley/shaderpad/shader"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SHADERPAD"

var (
	ErrInvalidScaleFactor = errors.New("invalid scaling factor")
	ErrUnknownComposition = errors.New("unknown composition")
)

// Options is the startup configuration. It is read from the environment
// only; nothing is written back.
type Options struct {
	Title  string
	Width  int
	Height int

	// ScaleFactor overrides the display scale when ScaleForced is set.
	ScaleFactor float64
	ScaleForced bool

	ShaderDir     string
	Composition   string
	SkipUnchanged bool
	CaptureDir    string
	LogLevel      slog.Level
}

// Load reads the options from the environment. An unparsable scale factor,
// log level or composition is an error; startup must not continue.
func Load() (*Options, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	// An empty SHADERPAD_SCALE_FACTOR is present and must fail to parse.
	v.AllowEmptyEnv(true)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"scale_factor", "shader_dir", "composition", "skip_unchanged", "capture_dir", "log_level"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}
	defaults := map[string]string{
		"shader_dir":     ".",
		"composition":    shader.ModeFramed,
		"skip_unchanged": "false",
		"capture_dir":    ".",
		"log_level":      "info",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// Empty values only count for the scale factor.
	get := func(key string) string {
		if s := v.GetString(key); s != "" {
			return s
		}
		return defaults[key]
	}

	opts := &Options{
		Title:      "Shaderpad",
		Width:      1920,
		Height:     1080,
		ShaderDir:  get("shader_dir"),
		CaptureDir: get("capture_dir"),
	}

	if v.IsSet("scale_factor") {
		raw := v.GetString("scale_factor")
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidScaleFactor, raw, err)
		}
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w %q: must be a positive number", ErrInvalidScaleFactor, raw)
		}
		opts.ScaleFactor = f
		opts.ScaleForced = true
	}

	mode := strings.ToLower(strings.TrimSpace(get("composition")))
	switch mode {
	case shader.ModeDirect, shader.ModeFramed, shader.ModeShadertoy:
		opts.Composition = mode
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownComposition, mode)
	}

	skip, err := cast.ToBoolE(get("skip_unchanged"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s_SKIP_UNCHANGED: %w", EnvPrefix, err)
	}
	opts.SkipUnchanged = skip

	if err := opts.LogLevel.UnmarshalText([]byte(get("log_level"))); err != nil {
		return nil, fmt.Errorf("invalid %s_LOG_LEVEL: %w", EnvPrefix, err)
	}

	return opts, nil
}
