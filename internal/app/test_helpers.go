package app

import (
	"os"
	"testing"

	"github.com/vk/buildgrid/internal/testutil"
)

// SetupAppTest creates an App whose output and debug-level logs are captured
// in the returned buffers.
func SetupAppTest(t *testing.T, opts ...Option) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	outBuffer := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(outBuffer, logBuffer, &AppConfig{LogLevel: "debug", LogFormat: "text"}, opts...)

	t.Cleanup(func() {
		if os.Getenv("BUILDGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
