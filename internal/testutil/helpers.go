package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/swmmbridge/internal/config"
	"github.com/specialistvlad/swmmbridge/internal/ctxlog"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Context returns a context carrying a debug-level text logger writing into
// the returned buffer.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// StaticLoader is a config.Loader that serves a fixed mapping (or error)
// without touching the filesystem.
type StaticLoader struct {
	Mapping *config.Mapping
	Err     error
	// Loads counts Load invocations, for asserting reload policy.
	Loads int
}

func (l *StaticLoader) Load(ctx context.Context, path string) (*config.Mapping, error) {
	l.Loads++
	if l.Err != nil {
		return nil, l.Err
	}
	// Copy so callers mutating the result do not corrupt later loads.
	m := *l.Mapping
	return &m, nil
}

var _ config.Loader = (*StaticLoader)(nil)

// WriteFile writes content under a temp dir and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ModelFile drops an empty placeholder model file into a temp dir, for tests
// that need Initialize's file validation to pass.
func ModelFile(t *testing.T) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "model.inp", "[TITLE]\nsynthetic test model\n")
}
