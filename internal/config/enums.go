package config

import (
	"errors"
	"fmt"
	"strings"
)

// BuildType selects the compiler flag profile.
type BuildType string

const (
	BuildTypePlain     BuildType = "plain"
	BuildTypeDebug     BuildType = "debug"
	BuildTypeOptimized BuildType = "optimized"

	DefaultBuildType = BuildTypeDebug
)

// BuildTypes lists every accepted build type in display order.
var BuildTypes = []BuildType{BuildTypePlain, BuildTypeDebug, BuildTypeOptimized}

// ErrInvalidBuildType is returned by ParseBuildType for unknown names.
var ErrInvalidBuildType = errors.New("invalid build type")

// ParseBuildType converts a command-line value into a BuildType.
func ParseBuildType(s string) (BuildType, error) {
	for _, bt := range BuildTypes {
		if string(bt) == s {
			return bt, nil
		}
	}
	return "", fmt.Errorf("%w %q (choose from %s)", ErrInvalidBuildType, s, buildTypeList())
}

func buildTypeList() string {
	names := make([]string, len(BuildTypes))
	for i, bt := range BuildTypes {
		names[i] = string(bt)
	}
	return strings.Join(names, ", ")
}

// Generator names the backend that receives the populated build graph.
// The set of valid names is owned by the backend package; values are carried
// here unvalidated.
type Generator string

const (
	GeneratorShell Generator = "shell"
	GeneratorNinja Generator = "ninja"

	DefaultGenerator = GeneratorNinja
)

// ParseGenerator normalises a command-line generator name.
func ParseGenerator(s string) Generator {
	return Generator(strings.TrimSpace(s))
}
