package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vk/buildgrid/internal/app"
	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/version"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitFailure = 2
)

// EnvPrefix prefixes every environment variable that can stand in for a flag.
const EnvPrefix = "BUILDGRID"

// UsageText is printed when more than two directories are given.
const UsageText = "buildgrid <source directory> <build directory>\n" +
	"If you omit either directory, the current directory is substituted."

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	// Usage marks messages printed verbatim instead of as a diagnostic.
	Usage bool
	Err   error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Parsed is the outcome of a successful Parse.
type Parsed struct {
	Invocation *app.Invocation
	AppConfig  *app.AppConfig
}

type flagValues struct {
	prefix     string
	libDir     string
	binDir     string
	includeDir string
	dataDir    string
	manDir     string
	generator  string
	buildType  string
	strip      bool
	coverage   bool
	logLevel   string
	logFormat  string
}

// Parse processes command-line arguments. It returns the parsed invocation,
// a boolean indicating if the program should exit cleanly (help or
// version was printed), or an ExitError.
func Parse(args []string, output io.Writer) (*Parsed, bool, error) {
	slog.Debug("CLI parser started.")

	var parsed *Parsed
	cmd := newRootCommand(func(p *Parsed) { parsed = p })
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
	}
	if parsed == nil {
		slog.Debug("Help or version printed, exiting.")
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "source", parsed.Invocation.SourceArg, "build", parsed.Invocation.BuildArg)
	return parsed, false, nil
}

func newRootCommand(done func(*Parsed)) *cobra.Command {
	var v flagValues
	cmd := &cobra.Command{
		Use:   "buildgrid [options] [source_dir [build_dir]]",
		Short: "Configure a C/C++ project for the ninja or shell backend",
		Long: `buildgrid reads the project.build description found in one of the two
directories and writes build files for the chosen backend into the other.
The directories may be given in either order.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				return &ExitError{Code: ExitUsage, Message: UsageText, Usage: true}
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindViper(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := v.build(args)
			if err != nil {
				return err
			}
			done(p)
			return nil
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.StringVar(&v.prefix, "prefix", config.DefaultPrefix, "Installation prefix (absolute path)")
	fs.StringVar(&v.libDir, "libdir", config.DefaultLibDir, "Library directory, relative to prefix")
	fs.StringVar(&v.binDir, "bindir", config.DefaultBinDir, "Executable directory, relative to prefix")
	fs.StringVar(&v.includeDir, "includedir", config.DefaultIncludeDir, "Header directory, relative to prefix")
	fs.StringVar(&v.dataDir, "datadir", config.DefaultDataDir, "Data directory, relative to prefix")
	fs.StringVar(&v.manDir, "mandir", config.DefaultManDir, "Manual page directory, relative to prefix")
	fs.StringVarP(&v.generator, "generator", "G", string(config.DefaultGenerator), "Backend to generate (shell, ninja)")
	fs.StringVar(&v.buildType, "buildtype", string(config.DefaultBuildType), "Build type (plain, debug, optimized)")
	fs.BoolVar(&v.strip, "strip", false, "Strip targets on install")
	fs.BoolVar(&v.coverage, "enable-gcov", false, "Enable coverage instrumentation")
	fs.StringVar(&v.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.StringVar(&v.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	return cmd
}

// build validates the flag values and assembles the invocation. The
// configuration is checked before any directory is looked at.
func (v *flagValues) build(args []string) (*Parsed, error) {
	buildType, err := config.ParseBuildType(strings.TrimSpace(v.buildType))
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
	}
	if err := app.ValidateLogSettings(v.logLevel, v.logFormat); err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
	}

	cfg, err := config.New(config.Options{
		Prefix:     v.prefix,
		LibDir:     v.libDir,
		BinDir:     v.binDir,
		IncludeDir: v.includeDir,
		DataDir:    v.dataDir,
		ManDir:     v.manDir,
		Generator:  config.ParseGenerator(v.generator),
		BuildType:  buildType,
		Strip:      v.strip,
		Coverage:   v.coverage,
	})
	if err != nil {
		return nil, &ExitError{Code: ExitFailure, Message: err.Error(), Err: err}
	}

	dirs := make([]string, 2)
	for i, arg := range args {
		expanded, err := homedir.Expand(arg)
		if err != nil {
			return nil, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unable to expand %q: %v", arg, err), Err: err}
		}
		dirs[i] = expanded
	}

	return &Parsed{
		Invocation: &app.Invocation{
			SourceArg: dirs[0],
			BuildArg:  dirs[1],
			Config:    cfg,
		},
		AppConfig: &app.AppConfig{
			LogLevel:  strings.ToLower(v.logLevel),
			LogFormat: strings.ToLower(v.logFormat),
		},
	}, nil
}

// bindViper fills every flag the user did not set from BUILDGRID_* variables
// or from the file named by BUILDGRID_CONFIG.
func bindViper(fs *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile := os.Getenv(EnvPrefix + "_CONFIG"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("unable to read %s: %v", configFile, err), Err: err}
		}
	}
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	var setErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "help" || f.Name == "version" {
			return
		}
		if !v.IsSet(f.Name) {
			return
		}
		val := fmt.Sprintf("%v", v.Get(f.Name))
		if val == "" {
			return
		}
		if err := f.Value.Set(val); err != nil && setErr == nil {
			setErr = &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid value %q for %s: %v", val, f.Name, err), Err: err}
		}
	})
	return setErr
}

// Diagnostic writes the one-line failure message. The prefix is red only
// when w is a terminal and NO_COLOR is unset.
func Diagnostic(w io.Writer, msg string) {
	c := color.New(color.FgRed, color.Bold)
	if isColorTerminal(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	fmt.Fprintf(w, "%s %s\n", c.Sprint("buildgrid: error:"), msg)
}

// isColorTerminal decides for w itself; color.NoColor only looks at stdout.
func isColorTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
