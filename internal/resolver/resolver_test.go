package resolver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/buildgrid/internal/fsutil"
)

const testMarker = "project.build"

// countingProber wraps the OS prober and records marker probes.
type countingProber struct {
	*fsutil.Prober
	markerProbes int
}

func (p *countingProber) IsFile(path string) bool {
	p.markerProbes++
	return p.Prober.IsFile(path)
}

func newCountingProber() *countingProber {
	return &countingProber{Prober: fsutil.NewOSProber()}
}

// makeDirs creates two sibling directories and drops the marker into the
// ones requested.
func makeDirs(t *testing.T, markerInA, markerInB bool) (string, string) {
	t.Helper()
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	require.NoError(t, os.Mkdir(a, 0o755))
	require.NoError(t, os.Mkdir(b, 0o755))
	if markerInA {
		require.NoError(t, os.WriteFile(filepath.Join(a, testMarker), []byte("project \"x\" {}\n"), 0o644))
	}
	if markerInB {
		require.NoError(t, os.WriteFile(filepath.Join(b, testMarker), []byte("project \"x\" {}\n"), 0o644))
	}
	return a, b
}

func TestDecide_TruthTable(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		inA, inB  bool
		wantRole  Role
		wantError any
	}{
		{name: "marker in first", inA: true, inB: false, wantRole: AIsSource},
		{name: "marker in second", inA: false, inB: true, wantRole: BIsSource},
		{name: "marker in both", inA: true, inB: true, wantError: &AmbiguousMarkerError{}},
		{name: "marker in neither", inA: false, inB: false, wantError: &MissingMarkerError{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			role, err := Decide(testMarker, tc.inA, tc.inB)
			switch want := tc.wantError.(type) {
			case *AmbiguousMarkerError:
				require.True(t, errors.As(err, &want))
				assert.Equal(t, testMarker, want.Marker)
			case *MissingMarkerError:
				require.True(t, errors.As(err, &want))
				assert.Equal(t, testMarker, want.Marker)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.wantRole, role)
			}
		})
	}
}

func TestResolve_SwapSymmetry(t *testing.T) {
	t.Parallel()

	src, out := makeDirs(t, true, false)
	r := New(fsutil.NewOSProber(), testMarker)

	forward, err := r.Resolve(src, out)
	require.NoError(t, err)
	backward, err := r.Resolve(out, src)
	require.NoError(t, err)

	want := Dirs{Source: src, Build: out}
	assert.Equal(t, want, forward)
	assert.Equal(t, want, backward)
}

func TestResolve_Ambiguous(t *testing.T) {
	t.Parallel()

	a, b := makeDirs(t, true, true)
	_, err := New(fsutil.NewOSProber(), testMarker).Resolve(a, b)

	var target *AmbiguousMarkerError
	require.ErrorAs(t, err, &target)
}

func TestResolve_Missing(t *testing.T) {
	t.Parallel()

	a, b := makeDirs(t, false, false)
	_, err := New(fsutil.NewOSProber(), testMarker).Resolve(a, b)

	var target *MissingMarkerError
	require.ErrorAs(t, err, &target)
	assert.Contains(t, err.Error(), testMarker)
}

func TestResolve_MarkerMustBeFile(t *testing.T) {
	t.Parallel()

	a, b := makeDirs(t, false, true)
	require.NoError(t, os.Mkdir(filepath.Join(a, testMarker), 0o755))

	dirs, err := New(fsutil.NewOSProber(), testMarker).Resolve(a, b)
	require.NoError(t, err)
	assert.Equal(t, b, dirs.Source)
}

func TestResolve_SameDirectory(t *testing.T) {
	t.Parallel()

	a, _ := makeDirs(t, true, false)
	link := filepath.Join(filepath.Dir(a), "link")
	require.NoError(t, os.Symlink(a, link))

	p := newCountingProber()
	r := New(p, testMarker)

	for _, second := range []string{a, link, a + "/.", filepath.Join(a, "..", "a")} {
		_, err := r.Resolve(a, second)
		var target *SameDirectoryError
		require.ErrorAs(t, err, &target, second)
	}
	assert.Zero(t, p.markerProbes, "marker must not be probed for the same directory")
}

func TestResolve_RelativeInputs(t *testing.T) {
	// Not parallel: changes the working directory.
	src, out := makeDirs(t, true, false)
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(out))

	dirs, err := New(fsutil.NewOSProber(), testMarker).Resolve("../a", ".")
	require.NoError(t, err)
	assert.Equal(t, Dirs{Source: src, Build: out}, dirs)
}

func TestResolve_NotADirectory(t *testing.T) {
	t.Parallel()

	a, b := makeDirs(t, true, false)
	file := filepath.Join(a, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	missing := filepath.Join(a, "does-not-exist")

	testCases := []struct {
		name    string
		dirA    string
		dirB    string
		badPath string
	}{
		{name: "regular file first", dirA: file, dirB: b, badPath: file},
		{name: "regular file second", dirA: a, dirB: file, badPath: file},
		{name: "missing first", dirA: missing, dirB: b, badPath: missing},
		{name: "missing second", dirA: b, dirB: missing, badPath: missing},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := newCountingProber()
			_, err := New(p, testMarker).Resolve(tc.dirA, tc.dirB)

			var target *NotADirectoryError
			require.ErrorAs(t, err, &target)
			assert.Equal(t, tc.badPath, target.Path)
			assert.Zero(t, p.markerProbes)
		})
	}
}

func TestResolve_MissingPathKeepsCause(t *testing.T) {
	t.Parallel()

	a, _ := makeDirs(t, true, false)
	_, err := New(fsutil.NewOSProber(), testMarker).Resolve(a, filepath.Join(a, "nope"))

	require.ErrorIs(t, err, fs.ErrNotExist)
	var target *NotADirectoryError
	require.ErrorAs(t, err, &target)
}
