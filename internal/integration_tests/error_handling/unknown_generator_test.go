package integration_tests

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/buildgrid/internal/app"
	"github.com/vk/buildgrid/internal/backend"
	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/environment"
	"github.com/vk/buildgrid/internal/testutil"
)

func TestErrorHandling_UnknownGeneratorWritesNothing(t *testing.T) {
	t.Parallel()

	src, out := testutil.ProjectDirs(t, map[string]string{
		environment.MarkerFile: "project \"p\" {}\nexecutable \"p\" {\n  sources = [\"p.c\"]\n}\n",
		"p.c":                  "",
	})

	_, err := configure(t, config.Options{Generator: "make"}, src, out)

	var stageErr *app.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, app.StageSelectBackend, stageErr.Stage)
	var unknown *backend.UnknownGeneratorError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "make", unknown.Name)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
