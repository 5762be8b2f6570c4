package integration_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/buildgrid/internal/backend"
	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/environment"
	"github.com/vk/buildgrid/internal/testutil"
)

func TestHclFeatures_NestedSourcesGetDistinctObjects(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src, out := testutil.ProjectDirs(t, map[string]string{
		environment.MarkerFile: "project \"p\" {}\nexecutable \"x\" {\n  sources = [\"a/b.c\", \"a_b.c\"]\n}\n",
		"a/b.c":                "",
		"a_b.c":                "",
	})

	// --- Act ---
	_, err := configure(t, config.Options{}, src, out)

	// --- Assert ---
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(out, backend.NinjaFile))
	require.NoError(t, err)
	manifest := string(data)
	assert.Contains(t, manifest, "build x.p/a/b.c.o: ")
	assert.Contains(t, manifest, "build x.p/a_b.c.o: ")
	assert.Contains(t, manifest, "build x: c_LINKER x.p/a/b.c.o x.p/a_b.c.o\n")
}
