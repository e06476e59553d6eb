package app

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// captureName returns the file name for a capture taken at t.
func captureName(t time.Time) string {
	return fmt.Sprintf("shaderpad-%s.png", t.Format("20060102-150405.000"))
}

// saveCapture writes a bottom-up GL readback as a top-down PNG in dir and
// returns the written path.
func saveCapture(dir string, img *image.RGBA, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("capture dir: %w", err)
	}
	path := filepath.Join(dir, captureName(t))
	if err := imgio.Save(path, transform.FlipV(img), imgio.PNGEncoder()); err != nil {
		return "", fmt.Errorf("save capture: %w", err)
	}
	return path, nil
}
