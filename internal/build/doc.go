// Package build is the in-memory build graph: the project, its targets, the
// link relationships between them, tests and the files to install.
//
// A Build starts empty, bound to an Environment, and is populated by the
// interpreter. Link edges are kept in a directed acyclic graph so cycles are
// rejected at the moment they would be introduced and backends can walk
// targets in dependency order.
package build
