package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/vk/buildgrid/internal/ctxlog"
	"github.com/vk/buildgrid/internal/environment"
	"github.com/vk/buildgrid/internal/fsutil"
	"github.com/vk/buildgrid/internal/resolver"
)

// AppConfig holds the process-level settings of an App.
type AppConfig struct {
	LogFormat string
	LogLevel  string
}

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	prober resolver.Prober
	collab Collaborators
}

// Option customises an App.
type Option func(*App)

// WithCollaborators replaces the stage factories.
func WithCollaborators(c Collaborators) Option {
	return func(a *App) {
		a.collab = c
	}
}

// WithProber replaces the filesystem probe used during directory resolution.
func WithProber(p resolver.Prober) Option {
	return func(a *App) {
		a.prober = p
	}
}

// WithLogger replaces the logger built from AppConfig.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// NewApp is the constructor for the main application. User-facing output
// goes to outW, logs go to logW. Each App has its own isolated logger.
func NewApp(outW, logW io.Writer, appConfig *AppConfig, opts ...Option) *App {
	a := &App{
		outW:   outW,
		logger: newLogger(appConfig.LogLevel, appConfig.LogFormat, logW),
		prober: fsutil.NewOSProber(),
		collab: DefaultCollaborators(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger.Debug("Logger configured successfully.")
	return a
}

// Prepare classifies the two directory arguments and freezes the result
// into a PipelineContext. It only reads the filesystem.
func (a *App) Prepare(inv *Invocation) (*PipelineContext, error) {
	if inv.Config == nil {
		return nil, errors.New("invocation has no configuration")
	}

	dirA, dirB := orCurrent(inv.SourceArg), orCurrent(inv.BuildArg)
	a.logger.Debug("Resolving directory roles.", "first", dirA, "second", dirB, "marker", environment.MarkerFile)

	dirs, err := resolver.New(a.prober, environment.MarkerFile).Resolve(dirA, dirB)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Directory roles resolved.", "source_dir", dirs.Source, "build_dir", dirs.Build)

	return &PipelineContext{
		Dirs:       dirs,
		Config:     inv.Config,
		Entrypoint: inv.Entrypoint,
	}, nil
}

func orCurrent(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

// Execute runs Prepare, reports the resolved directories on outW and then
// runs the pipeline.
func (a *App) Execute(ctx context.Context, inv *Invocation) error {
	pc, err := a.Prepare(inv)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "Source dir: %s\n", pc.Dirs.Source)
	fmt.Fprintf(a.outW, "Build dir: %s\n", pc.Dirs.Build)
	return a.Run(ctx, pc)
}

// Run executes the pipeline stages in order. The first failing stage stops
// the run; artefacts written before the failure are left in place.
func (a *App) Run(ctx context.Context, pc *PipelineContext) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger
	logger.Debug("App.Run method started.", "source_dir", pc.Dirs.Source, "build_dir", pc.Dirs.Build)

	env, err := a.collab.NewEnvironment(pc.Dirs, pc.Entrypoint, pc.Config)
	if err != nil {
		return &StageError{Stage: StageEnvironment, Err: err}
	}
	logger.Debug("Stage finished.", "stage", StageEnvironment)

	b := a.collab.NewBuild(env)
	if b == nil {
		return &StageError{Stage: StageBuildGraph, Err: errors.New("no build graph was created")}
	}
	logger.Debug("Stage finished.", "stage", StageBuildGraph)

	res, err := a.collab.NewInterpreter(b).Run(ctx)
	if err != nil {
		return &StageError{Stage: StageInterpret, Err: &InterpreterFailure{Err: err}}
	}
	logger.Debug("Stage finished.", "stage", StageInterpret, "project", res.Project)

	gen, err := a.collab.SelectGenerator(pc.Config.Generator())
	if err != nil {
		return &StageError{Stage: StageSelectBackend, Err: err}
	}
	logger.Debug("Stage finished.", "stage", StageSelectBackend, "generator", gen.Kind())

	if err := gen.Generate(ctx, b, res); err != nil {
		return &StageError{Stage: StageGenerate, Err: &GeneratorFailure{Generator: string(gen.Kind()), Err: err}}
	}
	logger.Info("Build files generated.", "generator", gen.Kind(), "build_dir", pc.Dirs.Build)

	logger.Debug("App.Run method finished.")
	return nil
}
