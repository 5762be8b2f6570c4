package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/buildgrid/internal/app"
	"github.com/vk/buildgrid/internal/cli"
)

// main is the entrypoint for the buildgrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

// run encapsulates the main application logic for easier testing and
// returns the process exit code.
func run(outW, errW io.Writer, args []string, opts ...app.Option) int {
	err := execute(outW, errW, args, opts...)
	if err == nil {
		return cli.ExitOK
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Usage {
			fmt.Fprintln(errW, exitErr.Message)
		} else {
			cli.Diagnostic(errW, exitErr.Message)
		}
		return exitErr.Code
	}
	cli.Diagnostic(errW, err.Error())
	return cli.ExitFailure
}

func execute(outW, errW io.Writer, args []string, opts ...app.Option) error {
	parsed, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	if exe, err := os.Executable(); err == nil {
		parsed.Invocation.Entrypoint = exe
	}

	buildgridApp := app.NewApp(outW, errW, parsed.AppConfig, opts...)
	return buildgridApp.Execute(context.Background(), parsed.Invocation)
}
