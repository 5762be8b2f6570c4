package environment

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SnapshotFile is the name of the persisted configuration inside PrivateDir.
const SnapshotFile = "coredata.yaml"

// Snapshot is the persisted view of one configure run, read back by
// inspection tools. The environment fills in directories and options.
type Snapshot struct {
	Version    string           `yaml:"version"`
	SourceDir  string           `yaml:"source_dir"`
	BuildDir   string           `yaml:"build_dir"`
	Entrypoint string           `yaml:"entrypoint"`
	Backend    string           `yaml:"backend"`
	Options    SnapshotOptions  `yaml:"options"`
	Project    string           `yaml:"project"`
	Targets    []SnapshotTarget `yaml:"targets"`
	Tests      []string         `yaml:"tests,omitempty"`
}

// SnapshotOptions mirrors config.Options with stable YAML keys.
type SnapshotOptions struct {
	Prefix     string `yaml:"prefix"`
	LibDir     string `yaml:"libdir"`
	BinDir     string `yaml:"bindir"`
	IncludeDir string `yaml:"includedir"`
	DataDir    string `yaml:"datadir"`
	ManDir     string `yaml:"mandir"`
	BuildType  string `yaml:"buildtype"`
	Strip      bool   `yaml:"strip"`
	Coverage   bool   `yaml:"coverage"`
}

// SnapshotTarget summarises one build target.
type SnapshotTarget struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	Output   string   `yaml:"output"`
	LinkWith []string `yaml:"link_with,omitempty"`
	Install  bool     `yaml:"install"`
}

// WriteSnapshot completes s with this environment's directories and options
// and writes it to PrivateDir/SnapshotFile, returning the file path.
func (e *Environment) WriteSnapshot(s Snapshot) (string, error) {
	opts := e.cfg.Options()
	s.SourceDir = e.sourceDir
	s.BuildDir = e.buildDir
	s.Entrypoint = e.entrypoint
	s.Options = SnapshotOptions{
		Prefix:     opts.Prefix,
		LibDir:     opts.LibDir,
		BinDir:     opts.BinDir,
		IncludeDir: opts.IncludeDir,
		DataDir:    opts.DataDir,
		ManDir:     opts.ManDir,
		BuildType:  string(opts.BuildType),
		Strip:      opts.Strip,
		Coverage:   opts.Coverage,
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return "", errors.Wrap(err, "unable to encode snapshot")
	}

	path := e.PrivatePath(SnapshotFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrapf(err, "unable to create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "unable to write %s", path)
	}
	return path, nil
}

// ReadSnapshot loads a snapshot previously written into buildDir.
func ReadSnapshot(buildDir string) (*Snapshot, error) {
	path := filepath.Join(buildDir, PrivateDir, SnapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "unable to decode %s", path)
	}
	return &s, nil
}
