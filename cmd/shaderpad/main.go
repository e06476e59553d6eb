package main

import (
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/richinsley/shaderpad/app"
	"github.com/richinsley/shaderpad/glfwcontext"
	"github.com/richinsley/shaderpad/options"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	opts, err := options.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.LogLevel}))
	slog.SetDefault(logger)

	if err := glfwcontext.InitGraphics(logger); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glfwcontext.TerminateGraphics(logger)

	a, err := app.New(opts, logger)
	if err != nil {
		glfwcontext.TerminateGraphics(logger)
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Shutdown()

	if err := a.Run(); err != nil {
		a.Shutdown()
		glfwcontext.TerminateGraphics(logger)
		log.Fatalf("Render loop failed: %v", err)
	}
}
