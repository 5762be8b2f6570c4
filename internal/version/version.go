// Package version carries build-time version information.
package version

import (
	"fmt"
	"runtime"
)

// These values are overridden at build time via -ldflags "-X ...".
var (
	Version   = "0.1-research"
	GitCommit = "unknown"
	BuildDate = "unknown" // RFC3339 UTC preferred
)

// Info describes the running binary as reported by --version.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
	Platform  string
}

// Get collects the link-time values together with the Go toolchain and
// platform the binary was built for.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the info on one line for --version.
func (i Info) String() string {
	return fmt.Sprintf("buildgrid %s (commit %s, built %s, %s %s)", i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}
