package integration_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/buildgrid/internal/app"
	"github.com/vk/buildgrid/internal/config"
)

// configure runs one full invocation with first and second as the
// positional directories, returning the app output and the error.
func configure(t *testing.T, opts config.Options, first, second string) (string, error) {
	t.Helper()

	cfg, err := config.New(opts)
	require.NoError(t, err)
	testApp, outBuf, _ := app.SetupAppTest(t)
	err = testApp.Execute(context.Background(), &app.Invocation{
		SourceArg:  first,
		BuildArg:   second,
		Entrypoint: "/usr/bin/buildgrid",
		Config:     cfg,
	})
	return outBuf.String(), err
}
