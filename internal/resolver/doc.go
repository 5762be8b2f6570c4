// Package resolver decides which of two directories is the project source
// and which is the build output location.
//
// The only signal is the presence of the marker file (see
// environment.MarkerFile). Resolve canonicalises both arguments, rejects
// non-directories and the same directory passed twice, and only then probes
// for the marker. The branching itself lives in Decide, a pure function over
// the two probe results, so the full truth table can be tested without a
// filesystem.
package resolver
