package resolver

import "fmt"

// NotADirectoryError reports an argument that does not name a directory,
// including arguments that do not exist at all.
type NotADirectoryError struct {
	Path string
	Err  error
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("%s is not a directory", e.Path)
}

func (e *NotADirectoryError) Unwrap() error { return e.Err }

// SameDirectoryError reports that both arguments denote one filesystem entry.
type SameDirectoryError struct {
	Path string
}

func (e *SameDirectoryError) Error() string {
	return "source and build directories must not be the same; create a pristine build directory"
}

// AmbiguousMarkerError reports that both directories contain the marker.
type AmbiguousMarkerError struct {
	Marker string
}

func (e *AmbiguousMarkerError) Error() string {
	return fmt.Sprintf("both directories contain a build file %s", e.Marker)
}

// MissingMarkerError reports that neither directory contains the marker.
type MissingMarkerError struct {
	Marker string
}

func (e *MissingMarkerError) Error() string {
	return fmt.Sprintf("neither directory contains a build file %s", e.Marker)
}
