package backend

import (
	"context"

	"github.com/vk/buildgrid/internal/build"
	"github.com/vk/buildgrid/internal/ctxlog"
	"github.com/vk/buildgrid/internal/environment"
	"github.com/vk/buildgrid/internal/version"
)

// persist writes the configure snapshot and reports whether the backend's
// tool is available.
func persist(ctx context.Context, b *build.Build, p *plan, kind Kind) error {
	logger := ctxlog.FromContext(ctx)

	s := environment.Snapshot{
		Version: version.Version,
		Backend: string(kind),
		Project: p.project,
	}
	for _, tp := range p.targets {
		s.Targets = append(s.Targets, environment.SnapshotTarget{
			Name:     tp.Target.Name,
			Kind:     string(tp.Target.Kind),
			Output:   tp.Link.Output,
			LinkWith: tp.Target.LinkWith,
			Install:  tp.Target.Install,
		})
	}
	for _, t := range p.tests {
		s.Tests = append(s.Tests, t.Name)
	}

	path, err := b.Environment().WriteSnapshot(s)
	if err != nil {
		return err
	}
	logger.Debug("Snapshot written.", "path", path)

	tool, err := environment.FindBackendTool(string(kind))
	if err != nil {
		logger.Warn("Backend tool not found, install it before building.", "backend", kind, "error", err)
		return nil
	}
	logger.Info("Backend tool found.", "backend", kind, "path", tool)
	return nil
}
