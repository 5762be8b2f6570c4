package environment

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
	"github.com/vk/buildgrid/internal/config"
)

const (
	// MarkerFile is the build description whose presence marks a source root.
	MarkerFile = "project.build"
	// PrivateDir holds collaborator state inside the build directory.
	PrivateDir = "buildgrid-private"
)

// Language is a source language the backends know how to compile.
type Language string

const (
	LangC   Language = "c"
	LangCPP Language = "cpp"
)

var extLanguages = map[string]Language{
	".c":   LangC,
	".cc":  LangCPP,
	".cpp": LangCPP,
	".cxx": LangCPP,
	".C":   LangCPP,
}

// LanguageOf returns the language of a source file by extension. Headers and
// unknown files report false.
func LanguageOf(source string) (Language, bool) {
	lang, ok := extLanguages[filepath.Ext(source)]
	return lang, ok
}

// ParseLanguage validates a language name from a build description.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(s)) {
	case LangC:
		return LangC, nil
	case LangCPP, "c++", "cxx":
		return LangCPP, nil
	}
	return "", errors.Errorf("unsupported language %q", s)
}

// Environment is created once per invocation and is read-only afterwards.
type Environment struct {
	sourceDir  string
	buildDir   string
	entrypoint string
	cfg        *config.Configuration

	compilers    map[Language]string
	compileArgs  map[Language][]string
	linkArgs     []string
	staticLinker string
}

// New inspects the process environment ($CC, $CXX, $AR, $CFLAGS, $CXXFLAGS,
// $LDFLAGS) and binds the result to the given directories and configuration.
func New(sourceDir, buildDir, entrypoint string, cfg *config.Configuration) (*Environment, error) {
	env := &Environment{
		sourceDir:    sourceDir,
		buildDir:     buildDir,
		entrypoint:   entrypoint,
		cfg:          cfg,
		compilers:    map[Language]string{LangC: envOr("CC", "cc"), LangCPP: envOr("CXX", "c++")},
		compileArgs:  make(map[Language][]string),
		staticLinker: envOr("AR", "ar"),
	}

	var err error
	if env.compileArgs[LangC], err = splitFlags("CFLAGS"); err != nil {
		return nil, err
	}
	if env.compileArgs[LangCPP], err = splitFlags("CXXFLAGS"); err != nil {
		return nil, err
	}
	if env.linkArgs, err = splitFlags("LDFLAGS"); err != nil {
		return nil, err
	}
	return env, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitFlags(key string) ([]string, error) {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse $%s", key)
	}
	return args, nil
}

func (e *Environment) SourceDir() string {
	return e.sourceDir
}

func (e *Environment) BuildDir() string {
	return e.buildDir
}

func (e *Environment) Entrypoint() string {
	return e.entrypoint
}

func (e *Environment) Config() *config.Configuration {
	return e.cfg
}

func (e *Environment) StaticLinker() string {
	return e.staticLinker
}

// BuildFile is the absolute path of the project's build description.
func (e *Environment) BuildFile() string {
	return filepath.Join(e.sourceDir, MarkerFile)
}

// PrivatePath joins elem onto the private state directory of the build tree.
func (e *Environment) PrivatePath(elem ...string) string {
	return filepath.Join(append([]string{e.buildDir, PrivateDir}, elem...)...)
}

func (e *Environment) LinkArgs() []string {
	return append([]string(nil), e.linkArgs...)
}

func (e *Environment) CompileArgs(lang Language) []string {
	return append([]string(nil), e.compileArgs[lang]...)
}

// Compiler returns the compiler command for lang.
func (e *Environment) Compiler(lang Language) (string, error) {
	cc, ok := e.compilers[lang]
	if !ok {
		return "", errors.Errorf("no compiler known for language %q", lang)
	}
	return cc, nil
}

// BuildTypeArgs returns the compiler flags implied by the configured build type.
func (e *Environment) BuildTypeArgs() []string {
	switch e.cfg.BuildType() {
	case config.BuildTypeDebug:
		return []string{"-g"}
	case config.BuildTypeOptimized:
		return []string{"-O2"}
	default:
		return nil
	}
}

// CoverageArgs returns the compile and link flags enabling coverage
// measurement, or nil when coverage is off.
func (e *Environment) CoverageArgs() []string {
	if !e.cfg.Coverage() {
		return nil
	}
	return []string{"--coverage"}
}

// backendTools lists, per backend, the executables tried in order.
var backendTools = map[string][]string{
	"ninja": {"ninja", "ninja-build", "samu"},
	"shell": {"sh"},
}

// FindBackendTool locates the executable that consumes a backend's output.
func FindBackendTool(backend string) (string, error) {
	candidates, ok := backendTools[backend]
	if !ok {
		return "", errors.Errorf("no tool known for backend %q", backend)
	}
	for _, name := range candidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", errors.Errorf("none of %s found in PATH", strings.Join(candidates, ", "))
}
