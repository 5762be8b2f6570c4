// Package backend turns a populated build graph into files consumed by a
// downstream build tool.
//
// The set of backends is closed: Kind enumerates them and Select maps a
// configured generator name onto an implementation. Every backend derives
// its output from the same plan (compile, link, test and install steps) so
// the ninja and shell outputs always describe the same build.
package backend
