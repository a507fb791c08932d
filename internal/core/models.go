package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Architecture is the pointer width of an interpreter binary
type Architecture string

const (
	Arch32      Architecture = "32"
	Arch64      Architecture = "64"
	ArchUnknown Architecture = "unknown"
)

// OriginTier identifies the discovery source that produced a candidate
type OriginTier string

const (
	TierShebang     OriginTier = "shebang"
	TierVirtualEnv  OriginTier = "venv"
	TierVersionFile OriginTier = "version-file"
	TierPath        OriginTier = "path"
)

// tierPriority orders tiers for selection tie-breaks; lower wins.
// Curated sources (shebang, venv, version-file) outrank plain PATH hits.
var tierPriority = map[OriginTier]int{
	TierShebang:     0,
	TierVirtualEnv:  1,
	TierVersionFile: 2,
	TierPath:        3,
}

// Priority returns the tie-break rank of the tier (lower wins)
func (t OriginTier) Priority() int {
	if p, ok := tierPriority[t]; ok {
		return p
	}
	return len(tierPriority)
}

// Version is a concrete interpreter version. Patch is -1 when the
// discovery source could not determine it (e.g. a pythonX.Y file name).
type Version struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// Compare orders versions numerically component by component,
// so 3.10 sorts above 3.9. Returns -1, 0 or 1.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return compareInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return compareInt(v.Minor, other.Minor)
	}
	return compareInt(v.Patch, other.Patch)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String renders the version as X.Y or X.Y.Z depending on patch knowledge
func (v Version) String() string {
	if v.Patch < 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// VersionSpec is a partially-specified version constraint parsed from a
// user request. Unset fields match anything. Immutable once parsed.
type VersionSpec struct {
	Major *int
	Minor *int
	Arch  Architecture
}

// AnySpec is the fully-unconstrained request: any interpreter, highest wins.
var AnySpec = VersionSpec{Arch: ArchUnknown}

// ParseSpec parses a version request string. Accepted forms, most specific
// first: "X.Y-32"/"X.Y-64", "X-32"/"X-64", "X.Y", "X", "". Anything else
// (negative or non-numeric components, micro versions, trailing garbage)
// is a ParseError.
func ParseSpec(request string) (VersionSpec, error) {
	if request == "" {
		return AnySpec, nil
	}

	spec := VersionSpec{Arch: ArchUnknown}
	rest := request

	// Bitness suffix requires at least a major version in front of it.
	if idx := strings.LastIndex(rest, "-"); idx >= 0 {
		switch rest[idx+1:] {
		case "32":
			spec.Arch = Arch32
		case "64":
			spec.Arch = Arch64
		default:
			return VersionSpec{}, &ParseError{Input: request}
		}
		rest = rest[:idx]
		if rest == "" {
			return VersionSpec{}, &ParseError{Input: request}
		}
	}

	parts := strings.Split(rest, ".")
	if len(parts) > 2 {
		return VersionSpec{}, &ParseError{Input: request}
	}

	major, err := parseComponent(parts[0])
	if err != nil {
		return VersionSpec{}, &ParseError{Input: request}
	}
	spec.Major = &major

	if len(parts) == 2 {
		minor, err := parseComponent(parts[1])
		if err != nil {
			return VersionSpec{}, &ParseError{Input: request}
		}
		spec.Minor = &minor
	}

	return spec, nil
}

// parseComponent parses one version component. Digits only: Atoi alone
// would also admit a sign prefix ("+3").
func parseComponent(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty component")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-numeric component %q", s)
		}
	}
	return strconv.Atoi(s)
}

// ParseVersionFlag parses a leading CLI selector such as "-3" or "-3.11-64".
// Returns false when the argument is not a version selector at all, which
// lets the caller forward it untouched to the interpreter.
func ParseVersionFlag(arg string) (VersionSpec, bool) {
	if len(arg) < 2 || !strings.HasPrefix(arg, "-") {
		return VersionSpec{}, false
	}
	body := arg[1:]
	if body[0] < '0' || body[0] > '9' {
		return VersionSpec{}, false
	}
	spec, err := ParseSpec(body)
	if err != nil {
		return VersionSpec{}, false
	}
	return spec, true
}

// IsAny reports whether the spec places no constraint at all
func (s VersionSpec) IsAny() bool {
	return s.Major == nil && s.Minor == nil && (s.Arch == "" || s.Arch == ArchUnknown)
}

// Constrained reports whether any version component is set
func (s VersionSpec) Constrained() bool {
	return s.Major != nil
}

// Matches reports whether a concrete version and architecture satisfy the
// spec. Unset spec fields match anything. An architecture constraint is
// only satisfied by a candidate whose architecture is known and equal.
func (s VersionSpec) Matches(v Version, arch Architecture) bool {
	if s.Major != nil && v.Major != *s.Major {
		return false
	}
	if s.Minor != nil && v.Minor != *s.Minor {
		return false
	}
	if s.Arch == Arch32 || s.Arch == Arch64 {
		if arch != s.Arch {
			return false
		}
	}
	return true
}

// String renders the spec the way a user would have typed it
func (s VersionSpec) String() string {
	if s.Major == nil {
		return "any"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d", *s.Major)
	if s.Minor != nil {
		fmt.Fprintf(&b, ".%d", *s.Minor)
	}
	if s.Arch == Arch32 || s.Arch == Arch64 {
		fmt.Fprintf(&b, "-%s", s.Arch)
	}
	return b.String()
}

// EnvVar returns the environment variable that supplies a default for this
// spec: PY_PYTHON for an unconstrained request, PY_PYTHON{major} for a
// major-only request, nothing for an exact request.
func (s VersionSpec) EnvVar() (string, bool) {
	switch {
	case s.Major == nil:
		return "PY_PYTHON", true
	case s.Minor == nil:
		return fmt.Sprintf("PY_PYTHON%d", *s.Major), true
	default:
		return "", false
	}
}

// Interpreter is one discoverable, executable Python binary.
// Never mutated after discovery.
type Interpreter struct {
	Path    string       `json:"path"`
	Version Version      `json:"version"`
	Arch    Architecture `json:"arch"`
	Tier    OriginTier   `json:"origin"`
}

// CandidateSet is an ordered collection of interpreters grouped by origin
// tier. Insertion order within a tier follows discovery order and is not
// sorted by version.
type CandidateSet struct {
	interpreters []Interpreter
}

// Add appends a candidate, preserving discovery order
func (c *CandidateSet) Add(interp Interpreter) {
	c.interpreters = append(c.interpreters, interp)
}

// All returns the candidates in insertion order
func (c *CandidateSet) All() []Interpreter {
	return c.interpreters
}

// ByTier returns the candidates belonging to one origin tier
func (c *CandidateSet) ByTier(tier OriginTier) []Interpreter {
	var out []Interpreter
	for _, interp := range c.interpreters {
		if interp.Tier == tier {
			out = append(out, interp)
		}
	}
	return out
}

// Versions returns the concrete versions present in the set, in order
func (c *CandidateSet) Versions() []Version {
	out := make([]Version, 0, len(c.interpreters))
	for _, interp := range c.interpreters {
		out = append(out, interp.Version)
	}
	return out
}

// Len returns the number of candidates
func (c *CandidateSet) Len() int {
	return len(c.interpreters)
}
