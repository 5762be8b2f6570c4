// Package app contains the core application logic: it resolves which of the
// two directories is the source tree, then drives the configure pipeline
// (environment, build graph, interpreter, backend) one stage at a time. It is
// decoupled from any specific entrypoint like a CLI.
package app
