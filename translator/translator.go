package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
		if initErr != nil {
			initErr = fmt.Errorf("failed to create shader translator: %w", initErr)
		}
	})
	return translator, initErr
}

// TranslateFragment converts a WebGL2 fragment shader to GLSL 410 and returns
// the declared-to-emitted uniform name mapping.
func TranslateFragment(source string) (string, map[string]string, error) {
	t, err := GetTranslator()
	if err != nil {
		return "", nil, err
	}
	fsShader, err := t.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return "", nil, err
	}
	names := make(map[string]string, len(fsShader.Variables))
	for name, v := range fsShader.Variables {
		names[name] = v.MappedName
	}
	return fsShader.Code, names, nil
}
