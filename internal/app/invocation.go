package app

import (
	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/resolver"
)

// Invocation is everything the entrypoint collected before any filesystem
// access: the raw directory arguments and a validated configuration.
type Invocation struct {
	// SourceArg and BuildArg are the positional directories as given. Empty
	// means the current directory. Their order does not decide their roles.
	SourceArg string
	BuildArg  string

	// Entrypoint is the path of the running binary, recorded so generated
	// files can re-invoke it.
	Entrypoint string

	Config *config.Configuration
}

// PipelineContext is created once per invocation by Prepare and is
// read-only afterwards.
type PipelineContext struct {
	Dirs       resolver.Dirs
	Config     *config.Configuration
	Entrypoint string
}
