package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ts []*Target) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func lib(name string) *Target {
	return &Target{Name: name, Kind: KindStaticLibrary, Sources: []string{name + ".c"}}
}

func exe(name string) *Target {
	return &Target{Name: name, Kind: KindExecutable, Sources: []string{name + ".c"}}
}

func TestAddTarget_Validation(t *testing.T) {
	t.Parallel()

	b := New(nil)
	require.NoError(t, b.AddTarget(exe("app")))

	err := b.AddTarget(exe("app"))
	require.ErrorIs(t, err, ErrDuplicateTarget)

	err = b.AddTarget(&Target{Name: "hdr", Kind: KindExecutable, Sources: []string{"only.h"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no compilable sources")

	err = b.AddTarget(&Target{Name: "odd", Kind: "module", Sources: []string{"a.c"}})
	require.Error(t, err)

	err = b.AddTarget(&Target{Kind: KindExecutable, Sources: []string{"a.c"}})
	require.Error(t, err)
}

func TestAddTarget_ReservedOutputs(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		target *Target
	}{
		{name: "ninja all", target: exe("all")},
		{name: "ninja test", target: exe("test")},
		{name: "ninja install", target: exe("install")},
		{name: "ninja manifest", target: exe("build.ninja")},
		{name: "shell compile script", target: exe("compile.sh")},
		{name: "test script", target: exe("run_tests.sh")},
		{name: "install script", target: exe("install.sh")},
		{name: "private dir", target: exe("buildgrid-private")},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			b := New(nil)

			// --- Act ---
			err := b.AddTarget(tc.target)

			// --- Assert ---
			require.ErrorIs(t, err, ErrReservedOutput)
			_, ok := b.Target(tc.target.Name)
			assert.False(t, ok)
		})
	}
}

func TestAddTarget_LibraryNamesAreNotReserved(t *testing.T) {
	t.Parallel()

	// libtest.a does not clash with the test edge.
	b := New(nil)
	require.NoError(t, b.AddTarget(lib("test")))
	require.NoError(t, b.AddTarget(lib("all")))
}

func TestAddTarget_OutputCollision(t *testing.T) {
	t.Parallel()

	b := New(nil)
	require.NoError(t, b.AddTarget(exe("app")))

	// app.p is the object directory of app.
	err := b.AddTarget(exe("app.p"))
	require.ErrorIs(t, err, ErrOutputCollision)

	// liba.so would be the same file as the executable liba.so.
	require.NoError(t, b.AddTarget(exe("liba.so")))
	err = b.AddTarget(&Target{Name: "a", Kind: KindSharedLibrary, Sources: []string{"a.c"}})
	require.ErrorIs(t, err, ErrOutputCollision)

	// The failed targets leave no claims behind.
	require.NoError(t, b.AddTarget(lib("a")))
}

func TestAddTarget_PlainNames(t *testing.T) {
	t.Parallel()

	b := New(nil)
	for _, name := range []string{".", "..", "sub/app", `sub\app`} {
		err := b.AddTarget(exe(name))
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "plain file name")
	}
}

func TestIsReservedOutput(t *testing.T) {
	t.Parallel()

	assert.True(t, IsReservedOutput("build.ninja"))
	assert.True(t, IsReservedOutput("./test"))
	assert.True(t, IsReservedOutput("buildgrid-private/coredata.yaml"))
	assert.False(t, IsReservedOutput("buildgrid-private2"))
	assert.False(t, IsReservedOutput("tests"))
}

func TestSetProject_Once(t *testing.T) {
	t.Parallel()

	b := New(nil)
	assert.Nil(t, b.Project())
	require.NoError(t, b.SetProject(Project{Name: "one"}))
	require.ErrorIs(t, b.SetProject(Project{Name: "two"}), ErrProjectAlreadySet)
	assert.Equal(t, "one", b.Project().Name)
}

func TestTargets_DependencyOrder(t *testing.T) {
	t.Parallel()

	b := New(nil)
	// Declared in an order that is the reverse of what linking requires.
	require.NoError(t, b.AddTarget(exe("app")))
	require.NoError(t, b.AddTarget(exe("tool")))
	require.NoError(t, b.AddTarget(lib("net")))
	require.NoError(t, b.AddTarget(lib("core")))

	require.NoError(t, b.Link("app", "net"))
	require.NoError(t, b.Link("net", "core"))
	require.NoError(t, b.Link("tool", "core"))

	targets, err := b.Targets()
	require.NoError(t, err)
	order := names(targets)

	index := func(n string) int {
		for i, v := range order {
			if v == n {
				return i
			}
		}
		t.Fatalf("%s missing from %v", n, order)
		return -1
	}
	assert.Len(t, order, 4)
	assert.Less(t, index("core"), index("net"))
	assert.Less(t, index("net"), index("app"))
	assert.Less(t, index("core"), index("tool"))
}

func TestTargets_Stable(t *testing.T) {
	t.Parallel()

	b := New(nil)
	for _, n := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, b.AddTarget(exe(n)))
	}
	targets, err := b.Targets()
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names(targets))
}

func TestLink_Errors(t *testing.T) {
	t.Parallel()

	b := New(nil)
	require.NoError(t, b.AddTarget(exe("app")))
	require.NoError(t, b.AddTarget(lib("a")))
	require.NoError(t, b.AddTarget(lib("b")))

	require.ErrorIs(t, b.Link("app", "missing"), ErrUnknownTarget)
	require.ErrorIs(t, b.Link("missing", "a"), ErrUnknownTarget)
	require.ErrorIs(t, b.Link("a", "app"), ErrInvalidLink)
	require.ErrorIs(t, b.Link("a", "a"), ErrDependencyCycle)

	require.NoError(t, b.Link("a", "b"))
	require.ErrorIs(t, b.Link("b", "a"), ErrDependencyCycle)

	// Re-linking is idempotent.
	require.NoError(t, b.Link("a", "b"))
	a, ok := b.Target("a")
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, a.LinkWith)
}

func TestLinkClosure_Diamond(t *testing.T) {
	t.Parallel()

	b := New(nil)
	require.NoError(t, b.AddTarget(exe("app")))
	for _, n := range []string{"left", "right", "base"} {
		require.NoError(t, b.AddTarget(lib(n)))
	}
	require.NoError(t, b.Link("app", "left"))
	require.NoError(t, b.Link("app", "right"))
	require.NoError(t, b.Link("left", "base"))
	require.NoError(t, b.Link("right", "base"))

	closure, err := b.LinkClosure("app")
	require.NoError(t, err)
	assert.Equal(t, []string{"right", "left", "base"}, closure)

	_, err = b.LinkClosure("nope")
	require.ErrorIs(t, err, ErrUnknownTarget)
}

func TestAddTest(t *testing.T) {
	t.Parallel()

	b := New(nil)
	require.NoError(t, b.AddTarget(exe("app")))
	require.NoError(t, b.AddTarget(lib("core")))

	require.NoError(t, b.AddTest(&Test{Name: "smoke", Target: "app"}))
	require.ErrorIs(t, b.AddTest(&Test{Name: "smoke", Target: "app"}), ErrDuplicateTest)
	require.ErrorIs(t, b.AddTest(&Test{Name: "ghost", Target: "nope"}), ErrUnknownTarget)
	require.Error(t, b.AddTest(&Test{Name: "lib", Target: "core"}))

	require.Len(t, b.Tests(), 1)
}

func TestTarget_Helpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "app", exe("app").Filename())
	assert.Equal(t, "libcore.a", lib("core").Filename())
	assert.Equal(t, "libui.so", (&Target{Name: "ui", Kind: KindSharedLibrary}).Filename())
	assert.Equal(t, "app.p", exe("app").ObjDir())

	mixed := &Target{Name: "m", Kind: KindExecutable, Sources: []string{"a.c", "b.cpp", "c.h", "d.c"}}
	assert.Equal(t, []string{"a.c", "b.cpp", "d.c"}, mixed.CompiledSources())
	assert.Equal(t, "cpp", string(mixed.LinkLanguage()))
	assert.Equal(t, "c", string(exe("x").LinkLanguage()))
}
