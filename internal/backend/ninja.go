package backend

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/vk/buildgrid/internal/build"
	"github.com/vk/buildgrid/internal/ctxlog"
	"github.com/vk/buildgrid/internal/environment"
	"github.com/vk/buildgrid/internal/interpreter"
)

// NinjaFile is the name of the generated ninja manifest.
const NinjaFile = "build.ninja"

var (
	ninjaPathEscaper  = strings.NewReplacer("$", "$$", " ", "$ ", ":", "$:")
	ninjaValueEscaper = strings.NewReplacer("$", "$$")
)

// ninjaPath escapes a path for use in a build statement.
func ninjaPath(p string) string {
	return ninjaPathEscaper.Replace(p)
}

func ninjaPaths(ps []string) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = ninjaPath(p)
	}
	return strings.Join(out, " ")
}

// ninjaArgs shell-quotes args and escapes the result for a variable value.
func ninjaArgs(args ...string) string {
	return ninjaValueEscaper.Replace(quote(args...))
}

// NinjaGenerator writes build.ninja. The test and install edges run the
// shared scripts placed in the private directory.
type NinjaGenerator struct{}

func (g *NinjaGenerator) Kind() Kind {
	return KindNinja
}

func (g *NinjaGenerator) Generate(ctx context.Context, b *build.Build, res *interpreter.Result) error {
	logger := ctxlog.FromContext(ctx)
	env := b.Environment()

	p, err := makePlan(b, res)
	if err != nil {
		return err
	}

	if err := writeFile(env.PrivatePath(TestScript), renderTestScript(p), 0o755); err != nil {
		return err
	}
	if err := writeFile(env.PrivatePath(InstallScript), renderInstallScript(p), 0o755); err != nil {
		return err
	}

	out := filepath.Join(env.BuildDir(), NinjaFile)
	if err := writeFile(out, renderNinja(p, regenerateArgs(env, KindNinja)), 0o644); err != nil {
		return err
	}
	logger.Info("Ninja build file written.", "path", out, "targets", len(p.targets), "tests", len(p.tests))

	return persist(ctx, b, p, KindNinja)
}

func renderNinja(p *plan, regenerate []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# This is the build file for project %q.\n", p.project)
	sb.WriteString("# It is autogenerated by buildgrid. Do not edit by hand.\n\n")
	sb.WriteString("ninja_required_version = 1.5\n\n")

	for _, lang := range p.languages() {
		cc := ninjaValueEscaper.Replace(p.compilers[lang])
		fmt.Fprintf(&sb, "rule %s_COMPILER\n", lang)
		fmt.Fprintf(&sb, " command = %s $ARGS -MD -MQ $out -MF $DEPFILE -o $out -c $in\n", cc)
		sb.WriteString(" deps = gcc\n")
		sb.WriteString(" depfile = $DEPFILE_UNQUOTED\n")
		fmt.Fprintf(&sb, " description = Compiling %s object $out\n\n", lang)

		fmt.Fprintf(&sb, "rule %s_LINKER\n", lang)
		fmt.Fprintf(&sb, " command = %s $ARGS -o $out $in $LINK_ARGS\n", cc)
		sb.WriteString(" description = Linking target $out\n\n")
	}

	sb.WriteString("rule STATIC_LINKER\n")
	fmt.Fprintf(&sb, " command = rm -f $out && %s rcs $out $in\n", ninjaValueEscaper.Replace(p.archiver))
	sb.WriteString(" description = Linking static target $out\n\n")

	sb.WriteString("rule CUSTOM_COMMAND\n")
	sb.WriteString(" command = $COMMAND\n")
	sb.WriteString(" description = $DESC\n")
	sb.WriteString(" restat = 1\n\n")

	sb.WriteString("rule REGENERATE_BUILD\n")
	fmt.Fprintf(&sb, " command = %s\n", ninjaArgs(regenerate...))
	sb.WriteString(" description = Regenerating build files.\n")
	sb.WriteString(" generator = 1\n\n")

	var outputs []string
	for _, tp := range p.targets {
		for _, c := range tp.Compiles {
			fmt.Fprintf(&sb, "build %s: %s_COMPILER %s\n", ninjaPath(c.Object), c.Lang, ninjaPath(c.Source))
			fmt.Fprintf(&sb, " DEPFILE = %s\n", ninjaArgs(c.Object+".d"))
			fmt.Fprintf(&sb, " DEPFILE_UNQUOTED = %s\n", ninjaValueEscaper.Replace(c.Object+".d"))
			fmt.Fprintf(&sb, " ARGS = %s\n\n", ninjaArgs(c.Args...))
		}

		link := tp.Link
		if tp.Target.Kind == build.KindStaticLibrary {
			fmt.Fprintf(&sb, "build %s: STATIC_LINKER %s\n\n", ninjaPath(link.Output), ninjaPaths(link.Objects))
		} else {
			fmt.Fprintf(&sb, "build %s: %s_LINKER %s", ninjaPath(link.Output), link.Lang, ninjaPaths(link.Objects))
			if len(link.Libs) > 0 {
				fmt.Fprintf(&sb, " | %s", ninjaPaths(link.Libs))
			}
			sb.WriteString("\n")
			if len(link.Args) > 0 {
				fmt.Fprintf(&sb, " ARGS = %s\n", ninjaArgs(link.Args...))
			}
			if len(link.LinkArgs) > 0 {
				fmt.Fprintf(&sb, " LINK_ARGS = %s\n", ninjaArgs(link.LinkArgs...))
			}
			sb.WriteString("\n")
		}
		outputs = append(outputs, link.Output)
	}

	fmt.Fprintf(&sb, "build all: phony %s\n\n", ninjaPaths(outputs))

	sb.WriteString("build test: CUSTOM_COMMAND all\n")
	fmt.Fprintf(&sb, " COMMAND = %s\n", ninjaArgs("sh", path.Join(environment.PrivateDir, TestScript)))
	sb.WriteString(" DESC = Running all tests.\n")
	sb.WriteString(" pool = console\n\n")

	sb.WriteString("build install: CUSTOM_COMMAND all\n")
	fmt.Fprintf(&sb, " COMMAND = %s\n", ninjaArgs("sh", path.Join(environment.PrivateDir, InstallScript)))
	sb.WriteString(" DESC = Installing files.\n")
	sb.WriteString(" pool = console\n\n")

	fmt.Fprintf(&sb, "build %s: REGENERATE_BUILD %s\n", NinjaFile, ninjaPaths(p.buildFiles))
	sb.WriteString(" pool = console\n\n")

	sb.WriteString("default all\n")
	return sb.String()
}
