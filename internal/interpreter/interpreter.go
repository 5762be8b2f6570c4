package interpreter

import (
	"context"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/vk/buildgrid/internal/build"
	"github.com/vk/buildgrid/internal/ctxlog"
	"github.com/vk/buildgrid/internal/schema"
)

// Result is the auxiliary output handed to the backend alongside the graph.
type Result struct {
	// Project is the declared project name.
	Project string
	// BuildFiles are the build description files that were read. Backends
	// use them to regenerate when a description changes.
	BuildFiles []string
}

// Interpreter evaluates one build description into one Build.
type Interpreter struct {
	build  *build.Build
	parser *hclparse.Parser
}

// New creates an interpreter that populates b.
func New(b *build.Build) *Interpreter {
	return &Interpreter{
		build:  b,
		parser: hclparse.NewParser(),
	}
}

// Run parses the environment's build file and populates the build graph.
func (i *Interpreter) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	env := i.build.Environment()
	path := env.BuildFile()
	logger.Debug("Interpreter started.", "build_file", path)

	file, diags := i.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "unable to parse %s", path)
	}

	var root schema.File
	if diags := gohcl.DecodeBody(file.Body, evalContext(env), &root); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "unable to decode %s", path)
	}
	logger.Debug("Build description decoded.",
		"projects", len(root.Projects),
		"executables", len(root.Executables),
		"static_libraries", len(root.StaticLibraries),
		"shared_libraries", len(root.SharedLibraries),
		"tests", len(root.Tests),
	)

	if err := i.translate(ctx, &root); err != nil {
		return nil, errors.Wrapf(err, "in %s", path)
	}

	project := i.build.Project()
	logger.Info("Project interpreted.", "project", project.Name, "version", project.Version)
	return &Result{
		Project:    project.Name,
		BuildFiles: []string{path},
	}, nil
}
