package interpreter

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vk/buildgrid/internal/build"
	"github.com/vk/buildgrid/internal/ctxlog"
	"github.com/vk/buildgrid/internal/environment"
	"github.com/vk/buildgrid/internal/schema"
)

type kindedTarget struct {
	kind   build.Kind
	target *schema.Target
}

// translate copies the decoded description into the build graph. Targets
// are all added before any link is made so link_with may refer forward.
func (i *Interpreter) translate(ctx context.Context, root *schema.File) error {
	logger := ctxlog.FromContext(ctx)

	project, err := translateProject(root.Projects)
	if err != nil {
		return err
	}
	if err := i.build.SetProject(*project); err != nil {
		return err
	}

	var targets []kindedTarget
	for _, t := range root.StaticLibraries {
		targets = append(targets, kindedTarget{build.KindStaticLibrary, t})
	}
	for _, t := range root.SharedLibraries {
		targets = append(targets, kindedTarget{build.KindSharedLibrary, t})
	}
	for _, t := range root.Executables {
		targets = append(targets, kindedTarget{build.KindExecutable, t})
	}

	for _, kt := range targets {
		target, err := i.translateTarget(project, kt.kind, kt.target)
		if err != nil {
			return err
		}
		if err := i.build.AddTarget(target); err != nil {
			return err
		}
		logger.Debug("Target added.", "target", target.Name, "kind", target.Kind)
	}
	for _, kt := range targets {
		for _, dep := range kt.target.LinkWith {
			if err := i.build.Link(kt.target.Name, dep); err != nil {
				return err
			}
		}
	}

	for _, t := range root.Tests {
		if err := i.build.AddTest(&build.Test{Name: t.Name, Target: t.Target, Args: t.Args}); err != nil {
			return err
		}
	}
	for _, h := range root.Headers {
		if err := i.checkFiles("header", h.Files); err != nil {
			return err
		}
		i.build.AddHeaders(build.InstallSet{Files: h.Files, Subdir: h.Subdir})
	}
	for _, m := range root.Man {
		if err := i.checkFiles("man page", m.Pages); err != nil {
			return err
		}
		for _, page := range m.Pages {
			if _, err := ManSection(page); err != nil {
				return err
			}
		}
		i.build.AddManPages(m.Pages...)
	}
	for _, d := range root.Data {
		if err := i.checkFiles("data file", d.Files); err != nil {
			return err
		}
		i.build.AddData(build.InstallSet{Files: d.Files, Subdir: d.Subdir})
	}
	return nil
}

func translateProject(blocks []*schema.Project) (*build.Project, error) {
	switch len(blocks) {
	case 0:
		return nil, errors.New("no project block declared")
	case 1:
	default:
		return nil, errors.Errorf("%d project blocks declared, expected exactly one", len(blocks))
	}

	p := blocks[0]
	names := p.Languages
	if len(names) == 0 {
		names = []string{string(environment.LangC)}
	}
	project := &build.Project{Name: p.Name, Version: p.Version}
	for _, name := range names {
		lang, err := environment.ParseLanguage(name)
		if err != nil {
			return nil, errors.Wrapf(err, "project %q", p.Name)
		}
		project.Languages = append(project.Languages, lang)
	}
	return project, nil
}

func (i *Interpreter) translateTarget(project *build.Project, kind build.Kind, t *schema.Target) (*build.Target, error) {
	if err := i.checkFiles("source", t.Sources); err != nil {
		return nil, errors.Wrapf(err, "%s %q", kind, t.Name)
	}

	target := &build.Target{
		Name:        t.Name,
		Kind:        kind,
		Sources:     t.Sources,
		IncludeDirs: t.IncludeDirs,
		CArgs:       t.CArgs,
		LinkArgs:    t.LinkArgs,
		Install:     t.Install,
	}
	for _, lang := range target.Languages() {
		if !declared(project, lang) {
			return nil, errors.Errorf("%s %q uses language %q which project %q does not declare", kind, t.Name, lang, project.Name)
		}
	}
	return target, nil
}

func declared(p *build.Project, lang environment.Language) bool {
	for _, l := range p.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// checkFiles verifies that every source-relative path exists.
func (i *Interpreter) checkFiles(what string, files []string) error {
	srcDir := i.build.Environment().SourceDir()
	for _, f := range files {
		if filepath.IsAbs(f) {
			return errors.Errorf("%s %q must be relative to the source directory", what, f)
		}
		if clean := filepath.Clean(f); clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return errors.Errorf("%s %q must stay inside the source directory", what, f)
		}
		if _, err := os.Stat(filepath.Join(srcDir, f)); err != nil {
			return errors.Wrapf(err, "%s %q", what, f)
		}
	}
	return nil
}

// ManSection returns the manual section of a page named like "tool.1".
func ManSection(page string) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(page), ".")
	if len(ext) != 1 || ext[0] < '1' || ext[0] > '9' {
		return "", errors.Errorf("man page %q has no section suffix (.1 to .9)", page)
	}
	return ext, nil
}
