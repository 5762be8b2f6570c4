package integration_tests

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/buildgrid/internal/app"
	"github.com/vk/buildgrid/internal/build"
	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/environment"
	"github.com/vk/buildgrid/internal/testutil"
)

func TestErrorHandling_ReservedTargetNameFailsConfigure(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		target    string
		generator config.Generator
	}{
		{target: "all", generator: config.GeneratorNinja},
		{target: "test", generator: config.GeneratorNinja},
		{target: "install", generator: config.GeneratorNinja},
		{target: "build.ninja", generator: config.GeneratorNinja},
		{target: "compile.sh", generator: config.GeneratorShell},
		{target: "run_tests.sh", generator: config.GeneratorShell},
		{target: "install.sh", generator: config.GeneratorShell},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.target, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			src, out := testutil.ProjectDirs(t, map[string]string{
				environment.MarkerFile: fmt.Sprintf("project \"p\" {}\nexecutable %q {\n  sources = [\"main.c\"]\n}\n", tc.target),
				"main.c":               "",
			})

			// --- Act ---
			_, err := configure(t, config.Options{Generator: tc.generator}, src, out)

			// --- Assert ---
			var stageErr *app.StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, app.StageInterpret, stageErr.Stage)
			require.ErrorIs(t, err, build.ErrReservedOutput)

			entries, err := os.ReadDir(out)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}
