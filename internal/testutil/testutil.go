// Package testutil holds helpers shared by package tests: a concurrency-safe
// log buffer, a logger-carrying context and a file-tree writer.
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
	"github.com/vk/buildgrid/internal/ctxlog"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewTestContext returns a context carrying a debug-level text logger that
// writes into the returned buffer. Set BUILDGRID_TEST_LOGS=true to dump the
// buffer when the test finishes.
func NewTestContext(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()

	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("BUILDGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// WriteFiles creates every file in files (relative path to content) below
// root, creating parent directories as needed.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// ProjectDirs creates sibling "src" and "out" directories under a fresh
// temporary root, fills src with files and returns both absolute paths.
func ProjectDirs(t *testing.T, files map[string]string) (string, string) {
	t.Helper()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.Mkdir(out, 0o755))
	WriteFiles(t, src, files)
	return src, out
}
