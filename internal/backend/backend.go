package backend

import (
	"context"
	"fmt"

	"github.com/vk/buildgrid/internal/build"
	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/interpreter"
)

// Kind enumerates the supported backends.
type Kind string

const (
	KindShell Kind = "shell"
	KindNinja Kind = "ninja"
)

// Kinds lists every backend in display order.
var Kinds = []Kind{KindShell, KindNinja}

// Generator writes the build files for one backend into the build directory.
type Generator interface {
	Kind() Kind
	Generate(ctx context.Context, b *build.Build, res *interpreter.Result) error
}

// UnknownGeneratorError reports a generator name outside Kinds.
type UnknownGeneratorError struct {
	Name string
}

func (e *UnknownGeneratorError) Error() string {
	return fmt.Sprintf("unknown generator %q", e.Name)
}

// ParseKind maps a generator name onto its Kind.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// Select returns the generator registered for name.
func Select(name config.Generator) (Generator, error) {
	kind, ok := ParseKind(string(name))
	if !ok {
		return nil, &UnknownGeneratorError{Name: string(name)}
	}
	switch kind {
	case KindShell:
		return &ShellGenerator{}, nil
	case KindNinja:
		return &NinjaGenerator{}, nil
	}
	return nil, &UnknownGeneratorError{Name: string(name)}
}
