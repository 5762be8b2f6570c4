// Package fsutil provides the read-only filesystem probes used while
// classifying directories.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Prober answers existence and identity questions about paths. It never
// modifies the filesystem.
type Prober struct {
	fs afero.Fs
}

// NewOSProber returns a Prober backed by the real operating system filesystem.
func NewOSProber() *Prober {
	return &Prober{fs: afero.NewOsFs()}
}

// NewProber wraps an arbitrary afero filesystem. Identity checks on
// non-OS filesystems fall back to path comparison.
func NewProber(fsys afero.Fs) *Prober {
	return &Prober{fs: fsys}
}

// Stat follows symlinks and returns the target's info.
func (p *Prober) Stat(path string) (fs.FileInfo, error) {
	return p.fs.Stat(path)
}

// IsFile reports whether path names a regular file. Any lookup error
// counts as absence.
func (p *Prober) IsFile(path string) bool {
	info, err := p.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// SameFile reports whether a and b, obtained from Stat on aPath and bPath,
// describe the same filesystem entry.
func (p *Prober) SameFile(aPath string, a fs.FileInfo, bPath string, b fs.FileInfo) bool {
	if _, ok := p.fs.(*afero.OsFs); ok {
		return os.SameFile(a, b)
	}
	return filepath.Clean(aPath) == filepath.Clean(bPath)
}
