package backend

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	"github.com/vk/buildgrid/internal/environment"
)

const (
	TestScript    = "run_tests.sh"
	InstallScript = "install.sh"
)

func quote(args ...string) string {
	return shellquote.Join(args...)
}

func scriptHeader(sb *strings.Builder, p *plan, what string) {
	sb.WriteString("#!/bin/sh\n")
	fmt.Fprintf(sb, "# %s for project %s.\n", what, p.project)
	sb.WriteString("# Autogenerated by buildgrid. Do not edit by hand.\n\n")
}

// renderTestScript runs every test from the build directory and fails if
// any test fails. All tests run even after a failure.
func renderTestScript(p *plan) string {
	var sb strings.Builder
	scriptHeader(&sb, p, "Test runner")
	fmt.Fprintf(&sb, "cd %s || exit 1\n", quote(p.buildDir))
	fmt.Fprintf(&sb, "LD_LIBRARY_PATH=%s${LD_LIBRARY_PATH:+:$LD_LIBRARY_PATH}\n", quote(p.buildDir))
	sb.WriteString("export LD_LIBRARY_PATH\n\n")
	sb.WriteString(`passed=0
failed=0
run_test() {
	name=$1
	shift
	if "$@"; then
		echo "ok   $name"
		passed=$((passed + 1))
	else
		echo "FAIL $name"
		failed=$((failed + 1))
	fi
}

`)
	for _, t := range p.tests {
		fmt.Fprintf(&sb, "run_test %s\n", quote(append([]string{t.Name, t.Exe}, t.Args...)...))
	}
	sb.WriteString("\necho \"$passed passed, $failed failed\"\n")
	sb.WriteString("test \"$failed\" -eq 0\n")
	return sb.String()
}

// renderInstallScript copies built and source files into the configured
// install locations, prefixed by $DESTDIR when set.
func renderInstallScript(p *plan) string {
	var sb strings.Builder
	scriptHeader(&sb, p, "Installer")
	sb.WriteString("set -e\n")
	fmt.Fprintf(&sb, "cd %s\n\n", quote(p.buildDir))

	made := make(map[string]bool)
	for _, step := range p.installs {
		dir := path.Dir(step.Dest)
		if !made[dir] {
			made[dir] = true
			fmt.Fprintf(&sb, "install -d \"${DESTDIR}\"%s\n", quote(dir))
		}
		fmt.Fprintf(&sb, "echo %s\n", quote("Installing "+step.Source+" to "+dir))
		fmt.Fprintf(&sb, "install -m %s %s \"${DESTDIR}\"%s\n", step.Mode, quote(step.Source), quote(step.Dest))
		if step.Strip {
			fmt.Fprintf(&sb, "strip \"${DESTDIR}\"%s\n", quote(step.Dest))
		}
	}
	return sb.String()
}

// writeFile writes data to name, creating parent directories and forcing
// mode even when the file already exists.
func writeFile(name string, data string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return errors.Wrapf(err, "unable to create %s", filepath.Dir(name))
	}
	if err := os.WriteFile(name, []byte(data), mode); err != nil {
		return errors.Wrapf(err, "unable to write %s", name)
	}
	if err := os.Chmod(name, mode); err != nil {
		return errors.Wrapf(err, "unable to set mode on %s", name)
	}
	return nil
}

// regenerateArgs is the command line that reproduces the current
// configuration for the given backend.
func regenerateArgs(env *environment.Environment, kind Kind) []string {
	cfg := env.Config()
	entry := env.Entrypoint()
	if entry == "" {
		entry = "buildgrid"
	}
	args := []string{
		entry,
		"--prefix", cfg.Prefix(),
		"--libdir", cfg.LibDir(),
		"--bindir", cfg.BinDir(),
		"--includedir", cfg.IncludeDir(),
		"--datadir", cfg.DataDir(),
		"--mandir", cfg.ManDir(),
		"--buildtype", string(cfg.BuildType()),
		"--generator", string(kind),
	}
	if cfg.Strip() {
		args = append(args, "--strip")
	}
	if cfg.Coverage() {
		args = append(args, "--enable-gcov")
	}
	return append(args, env.SourceDir(), env.BuildDir())
}
