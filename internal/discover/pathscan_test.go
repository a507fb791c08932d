package discover

import (
	"context"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/py/internal/core"
)

// fakeProber serves canned probe results keyed by path
type fakeProber struct {
	versions map[string]core.Version
	archs    map[string]core.Architecture
	calls    []string
}

func (p *fakeProber) Probe(_ context.Context, path string) (core.Version, core.Architecture, error) {
	p.calls = append(p.calls, path)
	v, ok := p.versions[path]
	if !ok {
		return core.Version{}, core.ArchUnknown, fmt.Errorf("probe failed for %s", path)
	}
	arch := core.Arch64
	if a, ok := p.archs[path]; ok {
		arch = a
	}
	return v, arch, nil
}

func mapEnv(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func writeExecutable(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte("fake interpreter"), 0o755))
}

func newTestScanner(fs afero.Fs, prober core.Prober, env map[string]string) *PathScanner {
	s := NewPathScanner(fs, prober, mapEnv(env), nopLogger())
	s.resolve = func(p string) string { return p }
	return s
}

func TestPathScannerFindsVersionedInterpreters(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeExecutable(t, fs, "/usr/bin/python3.9")
	writeExecutable(t, fs, "/usr/bin/python3.11")
	writeExecutable(t, fs, "/usr/bin/perl")

	prober := &fakeProber{}
	scanner := newTestScanner(fs, prober, map[string]string{"PATH": "/usr/bin"})

	candidates, err := scanner.Candidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "/usr/bin/python3.11", candidates[0].Path)
	assert.Equal(t, core.Version{Major: 3, Minor: 11, Patch: -1}, candidates[0].Version)
	assert.Equal(t, core.TierPath, candidates[0].Tier)
	assert.Equal(t, "/usr/bin/python3.9", candidates[1].Path)

	assert.Empty(t, prober.calls, "fully-versioned file names need no spawn")
}

func TestPathScannerProbesUndeterminedNames(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeExecutable(t, fs, "/usr/bin/python3")

	prober := &fakeProber{versions: map[string]core.Version{
		"/usr/bin/python3": {Major: 3, Minor: 12, Patch: 1},
	}}
	scanner := newTestScanner(fs, prober, map[string]string{"PATH": "/usr/bin"})

	candidates, err := scanner.Candidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, core.Version{Major: 3, Minor: 12, Patch: 1}, candidates[0].Version)
	assert.Equal(t, []string{"/usr/bin/python3"}, prober.calls)
}

func TestPathScannerSkipsFailedProbes(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeExecutable(t, fs, "/usr/bin/python")
	writeExecutable(t, fs, "/usr/bin/python3.9")

	prober := &fakeProber{} // every spawn fails
	scanner := newTestScanner(fs, prober, map[string]string{"PATH": "/usr/bin"})

	candidates, err := scanner.Candidates(context.Background())
	require.NoError(t, err, "probe failure is swallowed, never fatal")
	require.Len(t, candidates, 1)
	assert.Equal(t, "/usr/bin/python3.9", candidates[0].Path)
}

func TestPathScannerDirectoryOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeExecutable(t, fs, "/opt/bin/python3.10")
	writeExecutable(t, fs, "/usr/bin/python3.10")

	scanner := newTestScanner(fs, &fakeProber{}, map[string]string{"PATH": "/opt/bin:/usr/bin"})

	candidates, err := scanner.Candidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "/opt/bin/python3.10", candidates[0].Path, "PATH order preserved")
}

func TestPathScannerDeduplicatesByRealPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeExecutable(t, fs, "/usr/bin/python3.11")
	writeExecutable(t, fs, "/usr/local/bin/python3.11")

	scanner := NewPathScanner(fs, &fakeProber{}, mapEnv(map[string]string{
		"PATH": "/usr/bin:/usr/local/bin",
	}), nopLogger())
	// Both entries resolve to the same binary, as a symlink alias would.
	scanner.resolve = func(string) string { return "/usr/bin/python3.11" }

	candidates, err := scanner.Candidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, 1, "symlink aliases count once")
}

func TestPathScannerUnreadableDirSkipped(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeExecutable(t, fs, "/usr/bin/python3.9")

	scanner := newTestScanner(fs, &fakeProber{}, map[string]string{
		"PATH": "/does/not/exist:/usr/bin",
	})

	candidates, err := scanner.Candidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestPathScannerSkipsNonExecutables(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/usr/bin/python3.9", []byte("x"), 0o644))

	scanner := newTestScanner(fs, &fakeProber{}, map[string]string{"PATH": "/usr/bin"})

	candidates, err := scanner.Candidates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestPathScannerEmptyPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	scanner := newTestScanner(fs, &fakeProber{}, map[string]string{})

	candidates, err := scanner.Candidates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
