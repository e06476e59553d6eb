package shader

import (
	"log/slog"
	"os"
	"path/filepath"
)

// File names read from the shader directory at startup.
const (
	VertexFile = "vert.glsl"
	HeadFile   = "frag_head.glsl"
	BodyFile   = "frag.glsl"
	TailFile   = "frag_tail.glsl"
)

// SourceSet is the live shader text of a session. Body is edited in place by
// the editor overlay; nothing else writes to the set after loading.
type SourceSet struct {
	Vertex string
	Head   string
	Body   string
	Tail   string
}

// LoadSources reads the shader files from dir. A missing or unreadable
// file leaves its field empty.
func LoadSources(dir string, logger *slog.Logger) *SourceSet {
	if logger == nil {
		logger = slog.Default()
	}
	read := func(name string) string {
		path := filepath.Join(dir, name)
		b, err := os.ReadFile(path)
		if err != nil {
			logger.Debug("shader file unavailable, using empty source", "path", path, "err", err)
			return ""
		}
		return string(b)
	}
	return &SourceSet{
		Vertex: read(VertexFile),
		Head:   read(HeadFile),
		Body:   read(BodyFile),
		Tail:   read(TailFile),
	}
}
