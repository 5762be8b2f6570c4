// Package environment describes the machine a build is configured for: the
// source and build directories, the invoking entrypoint, the compilers and
// flags picked up from the process environment, and where backend tools
// live. It also owns the marker filename that identifies a source root and
// the on-disk snapshot written for inspection tools.
package environment
