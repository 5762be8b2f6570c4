package build

import (
	stderrors "errors"
	"path"
	"path/filepath"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"github.com/vk/buildgrid/internal/environment"
)

var (
	ErrProjectAlreadySet = errors.New("project already declared")
	ErrDuplicateTarget   = errors.New("duplicate target")
	ErrUnknownTarget     = errors.New("unknown target")
	ErrInvalidLink       = errors.New("invalid link")
	ErrDependencyCycle   = errors.New("dependency cycle")
	ErrDuplicateTest     = errors.New("duplicate test")
	ErrReservedOutput    = errors.New("reserved output name")
	ErrOutputCollision   = errors.New("output collision")
)

// reservedOutputs are build directory entries written or claimed by the
// generators themselves.
var reservedOutputs = map[string]bool{
	"all":          true,
	"test":         true,
	"install":      true,
	"build.ninja":  true,
	"compile.sh":   true,
	"run_tests.sh": true,
	"install.sh":   true,
}

// IsReservedOutput reports whether a target may not produce name.
func IsReservedOutput(name string) bool {
	clean := path.Clean(filepath.ToSlash(name))
	if reservedOutputs[clean] {
		return true
	}
	return clean == environment.PrivateDir || strings.HasPrefix(clean, environment.PrivateDir+"/")
}

// Build is the mutable build graph populated by the interpreter.
type Build struct {
	env     *environment.Environment
	project *Project
	targets graph.Graph[string, *Target]
	order   []string
	outputs map[string]string

	tests    []*Test
	headers  []InstallSet
	manPages []string
	data     []InstallSet
}

func targetHash(t *Target) string {
	return t.Name
}

// New returns an empty build graph bound to env.
func New(env *environment.Environment) *Build {
	return &Build{
		env:     env,
		targets: graph.New(targetHash, graph.Directed(), graph.PreventCycles()),
		outputs: map[string]string{},
	}
}

// Environment returns the environment the build was created for.
func (b *Build) Environment() *environment.Environment {
	return b.env
}

// SetProject records the project declaration. It may be called once.
func (b *Build) SetProject(p Project) error {
	if b.project != nil {
		return errors.Wrapf(ErrProjectAlreadySet, "cannot declare %q after %q", p.Name, b.project.Name)
	}
	b.project = &p
	return nil
}

// Project returns the declared project, or nil before SetProject.
func (b *Build) Project() *Project {
	return b.project
}

// AddTarget adds a target without any link edges.
func (b *Build) AddTarget(t *Target) error {
	if err := t.validate(); err != nil {
		return err
	}
	if _, ok := b.Target(t.Name); ok {
		return errors.Wrapf(ErrDuplicateTarget, "target %q", t.Name)
	}
	claims := []string{t.Filename(), t.ObjDir()}
	for _, out := range claims {
		if IsReservedOutput(out) {
			return errors.Wrapf(ErrReservedOutput, "%s %q would produce %q", t.Kind, t.Name, out)
		}
		if owner, ok := b.outputs[path.Clean(out)]; ok {
			return errors.Wrapf(ErrOutputCollision, "%s %q and target %q both produce %q", t.Kind, t.Name, owner, out)
		}
	}
	if err := b.targets.AddVertex(t); err != nil {
		if stderrors.Is(err, graph.ErrVertexAlreadyExists) {
			return errors.Wrapf(ErrDuplicateTarget, "target %q", t.Name)
		}
		return errors.Wrapf(err, "unable to add target %q", t.Name)
	}
	for _, out := range claims {
		b.outputs[path.Clean(out)] = t.Name
	}
	b.order = append(b.order, t.Name)
	return nil
}

// Link makes target link against the library dep.
func (b *Build) Link(target, dep string) error {
	t, ok := b.Target(target)
	if !ok {
		return errors.Wrapf(ErrUnknownTarget, "%q", target)
	}
	d, ok := b.Target(dep)
	if !ok {
		return errors.Wrapf(ErrUnknownTarget, "%q links with %q", target, dep)
	}
	if !d.Kind.IsLibrary() {
		return errors.Wrapf(ErrInvalidLink, "%q links with %s %q", target, d.Kind, dep)
	}
	if target == dep {
		return errors.Wrapf(ErrDependencyCycle, "%q links with itself", target)
	}

	err := b.targets.AddEdge(dep, target)
	switch {
	case err == nil:
		t.LinkWith = append(t.LinkWith, dep)
		return nil
	case stderrors.Is(err, graph.ErrEdgeAlreadyExists):
		return nil
	case stderrors.Is(err, graph.ErrEdgeCreatesCycle):
		return errors.Wrapf(ErrDependencyCycle, "%q -> %q", target, dep)
	default:
		return errors.Wrapf(err, "unable to link %q with %q", target, dep)
	}
}

// Target looks a target up by name.
func (b *Build) Target(name string) (*Target, bool) {
	t, err := b.targets.Vertex(name)
	if err != nil {
		return nil, false
	}
	return t, true
}

// Targets returns every target with libraries before their dependents.
// Targets that are unordered relative to each other keep declaration order.
func (b *Build) Targets() ([]*Target, error) {
	rank := make(map[string]int, len(b.order))
	for i, name := range b.order {
		rank[name] = i
	}
	names, err := graph.StableTopologicalSort(b.targets, func(x, y string) bool {
		return rank[x] < rank[y]
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to order targets")
	}

	out := make([]*Target, 0, len(names))
	for _, name := range names {
		t, err := b.targets.Vertex(name)
		if err != nil {
			return nil, errors.Wrapf(err, "target %q vanished", name)
		}
		out = append(out, t)
	}
	return out, nil
}

// LinkClosure returns every library name reachable from target through
// link_with, ordered so that each library precedes the libraries it needs.
func (b *Build) LinkClosure(target string) ([]string, error) {
	t, ok := b.Target(target)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTarget, "%q", target)
	}

	seen := make(map[string]bool)
	var post []string
	var visit func(*Target)
	visit = func(cur *Target) {
		for _, name := range cur.LinkWith {
			if seen[name] {
				continue
			}
			seen[name] = true
			dep, _ := b.Target(name)
			visit(dep)
			post = append(post, name)
		}
	}
	visit(t)

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post, nil
}

// AddTest registers a test that runs an executable target.
func (b *Build) AddTest(test *Test) error {
	t, ok := b.Target(test.Target)
	if !ok {
		return errors.Wrapf(ErrUnknownTarget, "test %q runs %q", test.Name, test.Target)
	}
	if t.Kind != KindExecutable {
		return errors.Errorf("test %q runs %s %q, not an executable", test.Name, t.Kind, t.Name)
	}
	for _, existing := range b.tests {
		if existing.Name == test.Name {
			return errors.Wrapf(ErrDuplicateTest, "%q", test.Name)
		}
	}
	b.tests = append(b.tests, test)
	return nil
}

// Tests returns the registered tests in declaration order.
func (b *Build) Tests() []*Test {
	return b.tests
}

// AddHeaders schedules header files for installation.
func (b *Build) AddHeaders(set InstallSet) {
	b.headers = append(b.headers, set)
}

// Headers returns the header install sets.
func (b *Build) Headers() []InstallSet {
	return b.headers
}

// AddManPages schedules man pages for installation. The section is taken
// from each file's extension.
func (b *Build) AddManPages(pages ...string) {
	b.manPages = append(b.manPages, pages...)
}

// ManPages returns the man pages to install.
func (b *Build) ManPages() []string {
	return b.manPages
}

// AddData schedules data files for installation.
func (b *Build) AddData(set InstallSet) {
	b.data = append(b.data, set)
}

// Data returns the data install sets.
func (b *Build) Data() []InstallSet {
	return b.data
}
