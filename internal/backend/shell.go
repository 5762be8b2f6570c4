package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/buildgrid/internal/build"
	"github.com/vk/buildgrid/internal/ctxlog"
	"github.com/vk/buildgrid/internal/interpreter"
)

// CompileScript is the shell backend's build script.
const CompileScript = "compile.sh"

// ShellGenerator writes plain POSIX shell scripts into the build directory:
// one that compiles and links every target in dependency order, one that
// runs the tests and one that installs.
type ShellGenerator struct{}

func (g *ShellGenerator) Kind() Kind {
	return KindShell
}

func (g *ShellGenerator) Generate(ctx context.Context, b *build.Build, res *interpreter.Result) error {
	logger := ctxlog.FromContext(ctx)
	env := b.Environment()

	p, err := makePlan(b, res)
	if err != nil {
		return err
	}

	scripts := []struct {
		name    string
		content string
	}{
		{CompileScript, renderCompileScript(p)},
		{TestScript, renderTestScript(p)},
		{InstallScript, renderInstallScript(p)},
	}
	for _, s := range scripts {
		out := filepath.Join(env.BuildDir(), s.name)
		if err := writeFile(out, s.content, 0o755); err != nil {
			return err
		}
		logger.Debug("Script written.", "path", out)
	}
	logger.Info("Shell scripts written.", "dir", env.BuildDir(), "targets", len(p.targets), "tests", len(p.tests))

	return persist(ctx, b, p, KindShell)
}

func renderCompileScript(p *plan) string {
	var sb strings.Builder
	scriptHeader(&sb, p, "Build script")
	sb.WriteString("set -e\n")
	fmt.Fprintf(&sb, "cd %s\n", quote(p.buildDir))

	for _, tp := range p.targets {
		fmt.Fprintf(&sb, "\n# %s %s\n", tp.Target.Kind, tp.Target.Name)
		if dirs := tp.objectDirs(); len(dirs) > 0 {
			fmt.Fprintf(&sb, "mkdir -p %s\n", quote(dirs...))
		}
		for _, c := range tp.Compiles {
			fmt.Fprintf(&sb, "echo %s\n", quote(fmt.Sprintf("Compiling %s object %s", c.Lang, c.Object)))
			cmd := append(append([]string{}, c.Args...), "-o", c.Object, "-c", c.Source)
			fmt.Fprintf(&sb, "%s %s\n", p.compilers[c.Lang], quote(cmd...))
		}

		link := tp.Link
		if tp.Target.Kind == build.KindStaticLibrary {
			fmt.Fprintf(&sb, "echo %s\n", quote("Linking static target "+link.Output))
			fmt.Fprintf(&sb, "rm -f %s\n", quote(link.Output))
			fmt.Fprintf(&sb, "%s rcs %s\n", p.archiver, quote(append([]string{link.Output}, link.Objects...)...))
			continue
		}
		fmt.Fprintf(&sb, "echo %s\n", quote("Linking target "+link.Output))
		cmd := append(append([]string{}, link.Args...), "-o", link.Output)
		cmd = append(cmd, link.Objects...)
		cmd = append(cmd, link.LinkArgs...)
		fmt.Fprintf(&sb, "%s %s\n", p.compilers[link.Lang], quote(cmd...))
	}
	return sb.String()
}
