package backend

import (
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vk/buildgrid/internal/build"
	"github.com/vk/buildgrid/internal/environment"
	"github.com/vk/buildgrid/internal/interpreter"
)

// compileStep produces one object file. Object is relative to the build
// directory; Source is absolute.
type compileStep struct {
	Lang   environment.Language
	Source string
	Object string
	Args   []string
}

// linkStep produces a target's output from its objects. Static libraries
// are archived and carry no Lang.
type linkStep struct {
	Lang     environment.Language
	Output   string
	Objects  []string
	Libs     []string
	Args     []string
	LinkArgs []string
}

type targetPlan struct {
	Target   *build.Target
	ObjDir   string
	Compiles []compileStep
	Link     linkStep
}

type testStep struct {
	Name string
	Exe  string
	Args []string
}

// installStep copies Source to Dest below $DESTDIR. Source is relative to
// the build directory for built files and absolute for source files.
type installStep struct {
	Source string
	Dest   string
	Mode   string
	Strip  bool
}

// plan is the backend-neutral description of a build.
type plan struct {
	project    string
	sourceDir  string
	buildDir   string
	buildFiles []string
	compilers  map[environment.Language]string
	archiver   string
	targets    []targetPlan
	tests      []testStep
	installs   []installStep
}

// languages returns the languages that need a compiler rule, sorted.
func (p *plan) languages() []environment.Language {
	var langs []environment.Language
	for _, lang := range []environment.Language{environment.LangC, environment.LangCPP} {
		if _, ok := p.compilers[lang]; ok {
			langs = append(langs, lang)
		}
	}
	return langs
}

func makePlan(b *build.Build, res *interpreter.Result) (*plan, error) {
	env := b.Environment()
	project := b.Project()
	if project == nil {
		return nil, errors.New("build graph has no project")
	}

	p := &plan{
		project:   project.Name,
		sourceDir: env.SourceDir(),
		buildDir:  env.BuildDir(),
		compilers: make(map[environment.Language]string),
		archiver:  env.StaticLinker(),
	}
	if res != nil && len(res.BuildFiles) > 0 {
		p.buildFiles = res.BuildFiles
	} else {
		p.buildFiles = []string{env.BuildFile()}
	}

	targets, err := b.Targets()
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		tp, err := planTarget(b, t)
		if err != nil {
			return nil, err
		}
		for _, c := range tp.Compiles {
			if err := p.useCompiler(env, c.Lang); err != nil {
				return nil, err
			}
		}
		if tp.Link.Lang != "" {
			if err := p.useCompiler(env, tp.Link.Lang); err != nil {
				return nil, err
			}
		}
		p.targets = append(p.targets, tp)
	}

	for _, test := range b.Tests() {
		t, ok := b.Target(test.Target)
		if !ok {
			return nil, errors.Wrapf(build.ErrUnknownTarget, "test %q runs %q", test.Name, test.Target)
		}
		p.tests = append(p.tests, testStep{
			Name: test.Name,
			Exe:  "./" + t.Filename(),
			Args: test.Args,
		})
	}

	installs, err := planInstalls(b, targets)
	if err != nil {
		return nil, err
	}
	p.installs = installs
	return p, nil
}

func (p *plan) useCompiler(env *environment.Environment, lang environment.Language) error {
	if _, ok := p.compilers[lang]; ok {
		return nil
	}
	cc, err := env.Compiler(lang)
	if err != nil {
		return err
	}
	p.compilers[lang] = cc
	return nil
}

func planTarget(b *build.Build, t *build.Target) (targetPlan, error) {
	env := b.Environment()
	tp := targetPlan{Target: t, ObjDir: t.ObjDir()}

	for _, src := range t.CompiledSources() {
		lang, _ := environment.LanguageOf(src)
		obj := objectPath(tp.ObjDir, src)
		tp.Compiles = append(tp.Compiles, compileStep{
			Lang:   lang,
			Source: filepath.Join(env.SourceDir(), src),
			Object: obj,
			Args:   compileArgs(env, t, lang),
		})
		tp.Link.Objects = append(tp.Link.Objects, obj)
	}
	tp.Link.Output = t.Filename()

	if t.Kind == build.KindStaticLibrary {
		return tp, nil
	}

	closure, err := b.LinkClosure(t.Name)
	if err != nil {
		return tp, err
	}
	tp.Link.Lang = t.LinkLanguage()
	for _, name := range closure {
		dep, _ := b.Target(name)
		tp.Link.Libs = append(tp.Link.Libs, dep.Filename())
		if dep.LinkLanguage() == environment.LangCPP {
			tp.Link.Lang = environment.LangCPP
		}
	}
	if t.Kind == build.KindSharedLibrary {
		tp.Link.Args = []string{"-shared"}
	}
	tp.Link.LinkArgs = append(tp.Link.LinkArgs, tp.Link.Libs...)
	tp.Link.LinkArgs = append(tp.Link.LinkArgs, env.LinkArgs()...)
	tp.Link.LinkArgs = append(tp.Link.LinkArgs, env.CoverageArgs()...)
	tp.Link.LinkArgs = append(tp.Link.LinkArgs, t.LinkArgs...)
	return tp, nil
}

// objectPath mirrors the source tree under the object directory so that
// distinct sources never share an object file.
func objectPath(objDir, src string) string {
	return path.Join(objDir, path.Clean(filepath.ToSlash(src))+".o")
}

// objectDirs lists the directories the objects of tp live in.
func (tp targetPlan) objectDirs() []string {
	var dirs []string
	seen := map[string]bool{}
	for _, c := range tp.Compiles {
		dir := path.Dir(c.Object)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// compileArgs orders flags from least to most specific so that target
// c_args can override everything before them.
func compileArgs(env *environment.Environment, t *build.Target, lang environment.Language) []string {
	args := []string{"-I" + env.SourceDir()}
	for _, inc := range t.IncludeDirs {
		args = append(args, "-I"+filepath.Join(env.SourceDir(), inc))
	}
	args = append(args, env.BuildTypeArgs()...)
	args = append(args, env.CoverageArgs()...)
	if t.Kind == build.KindSharedLibrary {
		args = append(args, "-fPIC")
	}
	args = append(args, env.CompileArgs(lang)...)
	args = append(args, t.CArgs...)
	return args
}

func planInstalls(b *build.Build, targets []*build.Target) ([]installStep, error) {
	cfg := b.Environment().Config()
	srcDir := b.Environment().SourceDir()
	var steps []installStep

	for _, t := range targets {
		if !t.Install {
			continue
		}
		step := installStep{Source: t.Filename()}
		switch t.Kind {
		case build.KindExecutable:
			step.Dest = path.Join(cfg.BinInstallDir(), t.Filename())
			step.Mode = "755"
			step.Strip = cfg.Strip()
		case build.KindSharedLibrary:
			step.Dest = path.Join(cfg.LibInstallDir(), t.Filename())
			step.Mode = "755"
			step.Strip = cfg.Strip()
		case build.KindStaticLibrary:
			step.Dest = path.Join(cfg.LibInstallDir(), t.Filename())
			step.Mode = "644"
		}
		steps = append(steps, step)
	}

	for _, set := range b.Headers() {
		dir := path.Join(cfg.IncludeInstallDir(), set.Subdir)
		steps = append(steps, sourceInstalls(srcDir, dir, set.Files)...)
	}
	for _, page := range b.ManPages() {
		section, err := interpreter.ManSection(page)
		if err != nil {
			return nil, err
		}
		dir := path.Join(cfg.ManInstallDir(), "man"+section)
		steps = append(steps, sourceInstalls(srcDir, dir, []string{page})...)
	}
	for _, set := range b.Data() {
		subdir := set.Subdir
		if subdir == "" {
			subdir = b.Project().Name
		}
		dir := path.Join(cfg.DataInstallDir(), subdir)
		steps = append(steps, sourceInstalls(srcDir, dir, set.Files)...)
	}
	return steps, nil
}

func sourceInstalls(srcDir, dir string, files []string) []installStep {
	steps := make([]installStep, 0, len(files))
	for _, f := range files {
		steps = append(steps, installStep{
			Source: filepath.Join(srcDir, f),
			Dest:   path.Join(dir, path.Base(filepath.ToSlash(f))),
			Mode:   "644",
		})
	}
	return steps
}
