package build

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/vk/buildgrid/internal/environment"
)

// Kind is the type of artefact a target produces.
type Kind string

const (
	KindExecutable    Kind = "executable"
	KindStaticLibrary Kind = "static_library"
	KindSharedLibrary Kind = "shared_library"
)

// IsLibrary reports whether targets of this kind may appear in link_with.
func (k Kind) IsLibrary() bool {
	return k == KindStaticLibrary || k == KindSharedLibrary
}

// Target is one buildable artefact. Paths in Sources and IncludeDirs are
// relative to the source directory.
type Target struct {
	Name        string
	Kind        Kind
	Sources     []string
	IncludeDirs []string
	CArgs       []string
	LinkArgs    []string
	Install     bool

	// LinkWith lists directly linked library names in declaration order. It
	// is maintained by Build.Link.
	LinkWith []string
}

// Filename is the name of the produced file inside the build directory.
func (t *Target) Filename() string {
	switch t.Kind {
	case KindStaticLibrary:
		return "lib" + t.Name + ".a"
	case KindSharedLibrary:
		return "lib" + t.Name + ".so"
	default:
		return t.Name
	}
}

// ObjDir is the build directory entry holding the target's objects.
func (t *Target) ObjDir() string {
	return t.Name + ".p"
}

// CompiledSources returns the sources that produce object files, skipping
// headers and other non-compilable inputs.
func (t *Target) CompiledSources() []string {
	var out []string
	for _, src := range t.Sources {
		if _, ok := environment.LanguageOf(src); ok {
			out = append(out, src)
		}
	}
	return out
}

// Languages returns the set of languages used by the target's sources, sorted.
func (t *Target) Languages() []environment.Language {
	seen := make(map[environment.Language]struct{})
	var langs []environment.Language
	for _, src := range t.Sources {
		lang, ok := environment.LanguageOf(src)
		if !ok {
			continue
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// LinkLanguage is the language whose compiler driver links the target: C++
// if any source is C++, otherwise C.
func (t *Target) LinkLanguage() environment.Language {
	for _, lang := range t.Languages() {
		if lang == environment.LangCPP {
			return environment.LangCPP
		}
	}
	return environment.LangC
}

func (t *Target) validate() error {
	if t.Name == "" {
		return errors.New("target name must not be empty")
	}
	if t.Name == "." || t.Name == ".." || strings.ContainsAny(t.Name, `/\`) {
		return errors.Errorf("target name %q must be a plain file name", t.Name)
	}
	switch t.Kind {
	case KindExecutable, KindStaticLibrary, KindSharedLibrary:
	default:
		return errors.Errorf("target %q has unknown kind %q", t.Name, t.Kind)
	}
	if len(t.CompiledSources()) == 0 {
		return errors.Errorf("target %q has no compilable sources", t.Name)
	}
	return nil
}

// Test runs a built executable with fixed arguments.
type Test struct {
	Name   string
	Target string
	Args   []string
}

// InstallSet is a group of source-relative files installed into one
// subdirectory of an install location.
type InstallSet struct {
	Files  []string
	Subdir string
}

// Project carries the top-level project declaration.
type Project struct {
	Name      string
	Version   string
	Languages []environment.Language
}
