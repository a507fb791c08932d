package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/py/internal/core"
)

func mustSpec(t *testing.T, s string) core.VersionSpec {
	t.Helper()
	spec, err := core.ParseSpec(s)
	require.NoError(t, err)
	return spec
}

func pathInterp(path string, major, minor int) core.Interpreter {
	return core.Interpreter{
		Path:    path,
		Version: core.Version{Major: major, Minor: minor, Patch: -1},
		Arch:    core.Arch64,
		Tier:    core.TierPath,
	}
}

func setOf(interps ...core.Interpreter) *core.CandidateSet {
	set := &core.CandidateSet{}
	for _, i := range interps {
		set.Add(i)
	}
	return set
}

func TestSelectHighestVersionWhenUnconstrained(t *testing.T) {
	set := setOf(
		pathInterp("/usr/bin/python3.9", 3, 9),
		pathInterp("/usr/bin/python3.11", 3, 11),
	)

	chosen, err := Select(core.AnySpec, set)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/python3.11", chosen.Path)
}

func TestSelectNumericNotLexicalOrdering(t *testing.T) {
	set := setOf(
		pathInterp("/usr/bin/python3.9", 3, 9),
		pathInterp("/usr/bin/python3.10", 3, 10),
		pathInterp("/usr/bin/python3.2", 3, 2),
	)

	chosen, err := Select(core.AnySpec, set)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/python3.10", chosen.Path, "3.10 is greater than 3.9")
}

func TestSelectExactConstraint(t *testing.T) {
	set := setOf(
		pathInterp("/usr/bin/python3.9", 3, 9),
		pathInterp("/usr/bin/python3.11", 3, 11),
	)

	chosen, err := Select(mustSpec(t, "3.9"), set)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/python3.9", chosen.Path)
}

func TestSelectMajorOnlyConstraint(t *testing.T) {
	set := setOf(
		pathInterp("/usr/bin/python2.7", 2, 7),
		pathInterp("/usr/bin/python3.9", 3, 9),
		pathInterp("/usr/bin/python3.11", 3, 11),
	)

	chosen, err := Select(mustSpec(t, "3"), set)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/python3.11", chosen.Path, "major-only takes the highest minor")
}

func TestSelectNoVersionMatch(t *testing.T) {
	set := setOf(
		pathInterp("/usr/bin/python3.9", 3, 9),
		pathInterp("/usr/bin/python3.11", 3, 11),
	)

	_, err := Select(mustSpec(t, "3.12"), set)
	var matchErr *core.NoVersionMatchError
	require.True(t, errors.As(err, &matchErr))
	assert.Len(t, matchErr.Available, 2, "the failure lists what is available")
}

func TestSelectNoInterpreterFound(t *testing.T) {
	_, err := Select(core.AnySpec, &core.CandidateSet{})
	assert.ErrorIs(t, err, core.ErrNoInterpreter)
}

func TestSelectPrefers64BitWhenUnspecified(t *testing.T) {
	i32 := pathInterp("/usr/bin/python3.11-32", 3, 11)
	i32.Arch = core.Arch32
	i64 := pathInterp("/usr/bin/python3.11", 3, 11)

	chosen, err := Select(core.AnySpec, setOf(i32, i64))
	require.NoError(t, err)
	assert.Equal(t, core.Arch64, chosen.Arch)
}

func TestSelectRespectsArchConstraint(t *testing.T) {
	i32 := pathInterp("/usr/bin/python3.11-32", 3, 11)
	i32.Arch = core.Arch32
	i64 := pathInterp("/usr/bin/python3.11", 3, 11)

	chosen, err := Select(mustSpec(t, "3.11-32"), setOf(i32, i64))
	require.NoError(t, err)
	assert.Equal(t, core.Arch32, chosen.Arch)
}

func TestSelectTierBreaksVersionTies(t *testing.T) {
	fromPath := pathInterp("/usr/bin/python3.10", 3, 10)
	fromVenv := core.Interpreter{
		Path:    "/env/bin/python",
		Version: core.Version{Major: 3, Minor: 10, Patch: -1},
		Arch:    core.Arch64,
		Tier:    core.TierVirtualEnv,
	}

	chosen, err := Select(core.AnySpec, setOf(fromPath, fromVenv))
	require.NoError(t, err)
	assert.Equal(t, "/env/bin/python", chosen.Path, "curated tiers outrank plain PATH at equal version")
}

func TestSelectStableForEqualCandidates(t *testing.T) {
	first := pathInterp("/opt/bin/python3.10", 3, 10)
	second := pathInterp("/usr/bin/python3.10", 3, 10)

	chosen, err := Select(core.AnySpec, setOf(first, second))
	require.NoError(t, err)
	assert.Equal(t, "/opt/bin/python3.10", chosen.Path, "discovery order decides full ties")
}
