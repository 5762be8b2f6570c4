package config

import (
	"fmt"
	"path"
	"strings"
)

// Default values applied by New to every zero-valued option.
const (
	DefaultPrefix     = "/usr/local"
	DefaultLibDir     = "lib"
	DefaultBinDir     = "bin"
	DefaultIncludeDir = "include"
	DefaultDataDir    = "share"
	DefaultManDir     = "share/man"
)

// Options is the flat, mutable input to New. It mirrors the command line.
type Options struct {
	Prefix     string
	LibDir     string
	BinDir     string
	IncludeDir string
	DataDir    string
	ManDir     string
	Generator  Generator
	BuildType  BuildType
	Strip      bool
	Coverage   bool
}

// Configuration is the validated, read-only configuration of one invocation.
type Configuration struct {
	prefix     string
	libDir     string
	binDir     string
	includeDir string
	dataDir    string
	manDir     string
	generator  Generator
	buildType  BuildType
	strip      bool
	coverage   bool
}

// InvalidPrefixError reports a prefix that is not an absolute path.
type InvalidPrefixError struct {
	Prefix string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("--prefix must be an absolute path, got %q", e.Prefix)
}

// New applies defaults to opts and validates the result. It never touches
// the filesystem.
func New(opts Options) (*Configuration, error) {
	cfg := &Configuration{
		prefix:     orDefault(opts.Prefix, DefaultPrefix),
		libDir:     orDefault(opts.LibDir, DefaultLibDir),
		binDir:     orDefault(opts.BinDir, DefaultBinDir),
		includeDir: orDefault(opts.IncludeDir, DefaultIncludeDir),
		dataDir:    orDefault(opts.DataDir, DefaultDataDir),
		manDir:     orDefault(opts.ManDir, DefaultManDir),
		generator:  opts.Generator,
		buildType:  opts.BuildType,
		strip:      opts.Strip,
		coverage:   opts.Coverage,
	}
	if cfg.generator == "" {
		cfg.generator = DefaultGenerator
	}
	if cfg.buildType == "" {
		cfg.buildType = DefaultBuildType
	}

	if !strings.HasPrefix(cfg.prefix, "/") {
		return nil, &InvalidPrefixError{Prefix: cfg.prefix}
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (c *Configuration) Prefix() string       { return c.prefix }
func (c *Configuration) LibDir() string       { return c.libDir }
func (c *Configuration) BinDir() string       { return c.binDir }
func (c *Configuration) IncludeDir() string   { return c.includeDir }
func (c *Configuration) DataDir() string      { return c.dataDir }
func (c *Configuration) ManDir() string       { return c.manDir }
func (c *Configuration) Generator() Generator { return c.generator }
func (c *Configuration) BuildType() BuildType { return c.buildType }
func (c *Configuration) Strip() bool          { return c.strip }
func (c *Configuration) Coverage() bool       { return c.coverage }

// Options returns a copy of the effective options, defaults included.
func (c *Configuration) Options() Options {
	return Options{
		Prefix:     c.prefix,
		LibDir:     c.libDir,
		BinDir:     c.binDir,
		IncludeDir: c.includeDir,
		DataDir:    c.dataDir,
		ManDir:     c.manDir,
		Generator:  c.generator,
		BuildType:  c.buildType,
		Strip:      c.strip,
		Coverage:   c.coverage,
	}
}

// BinInstallDir is the absolute install location of executables.
func (c *Configuration) BinInstallDir() string { return path.Join(c.prefix, c.binDir) }

// LibInstallDir is the absolute install location of libraries.
func (c *Configuration) LibInstallDir() string { return path.Join(c.prefix, c.libDir) }

// IncludeInstallDir is the absolute install location of headers.
func (c *Configuration) IncludeInstallDir() string { return path.Join(c.prefix, c.includeDir) }

// DataInstallDir is the absolute install location of data files.
func (c *Configuration) DataInstallDir() string { return path.Join(c.prefix, c.dataDir) }

// ManInstallDir is the absolute root of the man page sections.
func (c *Configuration) ManInstallDir() string { return path.Join(c.prefix, c.manDir) }
