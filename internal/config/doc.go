// Package config defines the immutable Configuration value that every
// pipeline stage receives explicitly: installation layout, backend choice,
// build type and feature toggles.
//
// A Configuration is produced once per invocation by New from a flat
// Options set. Every option has a documented default, so the empty Options
// value is valid. The only validation performed here is that the prefix is
// an absolute path; enumerated values are checked where strings are parsed.
package config
