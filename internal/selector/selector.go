// Package selector ranks discovered interpreters against a version request
// and picks exactly one.
package selector

import (
	"sort"

	"github.com/quantmind-br/py/internal/core"
)

// Select applies spec to the candidate pool and returns the single best
// interpreter. Matching and ranking are deliberately separate: a partial
// spec is a predicate, never part of the order.
//
// Ranking among matches: version descending (numeric tuple compare, so
// 3.10 beats 3.9), then 64-bit over 32-bit when the request does not pin
// an architecture, then origin-tier priority (curated tiers beat plain
// PATH hits at equal version).
func Select(spec core.VersionSpec, candidates *core.CandidateSet) (core.Interpreter, error) {
	all := candidates.All()
	if len(all) == 0 {
		return core.Interpreter{}, core.ErrNoInterpreter
	}

	var matched []core.Interpreter
	for _, interp := range all {
		if spec.Matches(interp.Version, interp.Arch) {
			matched = append(matched, interp)
		}
	}

	if len(matched) == 0 {
		return core.Interpreter{}, &core.NoVersionMatchError{
			Spec:      spec,
			Available: candidates.Versions(),
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return rank(matched[i], matched[j])
	})

	return matched[0], nil
}

// rank reports whether a should come before b in the final ordering
func rank(a, b core.Interpreter) bool {
	if cmp := a.Version.Compare(b.Version); cmp != 0 {
		return cmp > 0
	}

	if a.Arch != b.Arch {
		return archRank(a.Arch) < archRank(b.Arch)
	}

	return a.Tier.Priority() < b.Tier.Priority()
}

// archRank prefers 64-bit builds, then 32-bit, then unknown
func archRank(arch core.Architecture) int {
	switch arch {
	case core.Arch64:
		return 0
	case core.Arch32:
		return 1
	default:
		return 2
	}
}
