// Package interpreter reads a project's build description and populates a
// build.Build with it.
//
// Build descriptions are HCL files. Expressions are evaluated against a
// context exposing the active configuration (prefix, buildtype, ...) and a
// small set of string and collection functions, so a description can adapt
// to the options it is configured with:
//
//	project "hello" {
//	  version   = "1.0"
//	  languages = ["c"]
//	}
//
//	static_library "greet" {
//	  sources = ["greet.c"]
//	}
//
//	executable "hello" {
//	  sources   = ["main.c"]
//	  link_with = ["greet"]
//	  c_args    = [format("-DPREFIX=\"%s\"", prefix)]
//	  install   = true
//	}
//
//	test "runs" {
//	  target = "hello"
//	}
package interpreter
