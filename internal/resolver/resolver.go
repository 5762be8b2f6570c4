package resolver

import (
	"io/fs"
	"path/filepath"
)

// Prober is the filesystem seam used by Resolver. fsutil.Prober is the
// production implementation.
type Prober interface {
	Stat(path string) (fs.FileInfo, error)
	IsFile(path string) bool
	SameFile(aPath string, a fs.FileInfo, bPath string, b fs.FileInfo) bool
}

// Dirs is the resolved, absolute (source, build) pair.
type Dirs struct {
	Source string
	Build  string
}

// Role says which argument turned out to be the source directory.
type Role int

const (
	AIsSource Role = iota + 1
	BIsSource
)

// Decide maps the marker probe results for the first and second directory
// to a role. It is total over the four combinations.
func Decide(marker string, inA, inB bool) (Role, error) {
	switch {
	case inA && inB:
		return 0, &AmbiguousMarkerError{Marker: marker}
	case inA:
		return AIsSource, nil
	case inB:
		return BIsSource, nil
	default:
		return 0, &MissingMarkerError{Marker: marker}
	}
}

// Resolver classifies directory pairs by marker file presence.
type Resolver struct {
	prober Prober
	marker string
}

// New creates a Resolver that looks for marker using p.
func New(p Prober, marker string) *Resolver {
	return &Resolver{prober: p, marker: marker}
}

// Resolve returns the (source, build) pair for dirA and dirB, in whichever
// order the marker dictates.
func (r *Resolver) Resolve(dirA, dirB string) (Dirs, error) {
	absA, infoA, err := r.directory(dirA)
	if err != nil {
		return Dirs{}, err
	}
	absB, infoB, err := r.directory(dirB)
	if err != nil {
		return Dirs{}, err
	}
	if r.prober.SameFile(absA, infoA, absB, infoB) {
		return Dirs{}, &SameDirectoryError{Path: absA}
	}

	inA := r.prober.IsFile(filepath.Join(absA, r.marker))
	inB := r.prober.IsFile(filepath.Join(absB, r.marker))
	role, err := Decide(r.marker, inA, inB)
	if err != nil {
		return Dirs{}, err
	}
	if role == AIsSource {
		return Dirs{Source: absA, Build: absB}, nil
	}
	return Dirs{Source: absB, Build: absA}, nil
}

// directory canonicalises arg and checks that it names a directory.
func (r *Resolver) directory(arg string) (string, fs.FileInfo, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", nil, &NotADirectoryError{Path: arg, Err: err}
	}
	info, err := r.prober.Stat(abs)
	if err != nil {
		return "", nil, &NotADirectoryError{Path: arg, Err: err}
	}
	if !info.IsDir() {
		return "", nil, &NotADirectoryError{Path: arg}
	}
	return abs, info, nil
}
