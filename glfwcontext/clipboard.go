package glfwcontext

import (
	"fmt"
	"log/slog"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
)

// Clipboard bridges the system clipboard through GLFW. If the platform
// clipboard fails once, bridging is switched off for the rest of the
// session and the editor keeps working without it.
type Clipboard struct {
	window   *glfw.Window
	disabled bool
	log      *slog.Logger
}

// newClipboard probes the platform clipboard and returns nil if it is
// unusable.
func newClipboard(win *glfw.Window, logger *slog.Logger) *Clipboard {
	c := &Clipboard{window: win, log: logger}
	if _, err := c.get(); err != nil {
		logger.Debug("clipboard unavailable", "err", err)
		return nil
	}
	return c
}

func (c *Clipboard) get() (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipboard: %v", r)
		}
	}()
	return c.window.GetClipboardString(), nil
}

// Text returns the clipboard contents.
func (c *Clipboard) Text() (string, error) {
	if c.disabled {
		return "", nil
	}
	text, err := c.get()
	if err != nil {
		c.disable(err)
		return "", nil
	}
	return text, nil
}

// SetText replaces the clipboard contents.
func (c *Clipboard) SetText(value string) {
	if c.disabled {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.disable(fmt.Errorf("clipboard: %v", r))
		}
	}()
	c.window.SetClipboardString(value)
}

func (c *Clipboard) disable(err error) {
	c.disabled = true
	c.log.Debug("clipboard bridging disabled", "err", err)
}
