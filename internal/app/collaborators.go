package app

import (
	"context"

	"github.com/vk/buildgrid/internal/backend"
	"github.com/vk/buildgrid/internal/build"
	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/environment"
	"github.com/vk/buildgrid/internal/interpreter"
	"github.com/vk/buildgrid/internal/resolver"
)

// Interpreter populates the build graph it was created for.
type Interpreter interface {
	Run(ctx context.Context) (*interpreter.Result, error)
}

// Collaborators are the factories the pipeline hands control to, one per
// stage. Tests replace them to observe or fail individual stages.
type Collaborators struct {
	NewEnvironment  func(dirs resolver.Dirs, entrypoint string, cfg *config.Configuration) (*environment.Environment, error)
	NewBuild        func(env *environment.Environment) *build.Build
	NewInterpreter  func(b *build.Build) Interpreter
	SelectGenerator func(name config.Generator) (backend.Generator, error)
}

// DefaultCollaborators wires the real environment, build graph, HCL
// interpreter and backend selector.
func DefaultCollaborators() Collaborators {
	return Collaborators{
		NewEnvironment: func(dirs resolver.Dirs, entrypoint string, cfg *config.Configuration) (*environment.Environment, error) {
			return environment.New(dirs.Source, dirs.Build, entrypoint, cfg)
		},
		NewBuild: build.New,
		NewInterpreter: func(b *build.Build) Interpreter {
			return interpreter.New(b)
		},
		SelectGenerator: backend.Select,
	}
}
