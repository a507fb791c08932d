package discover

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/py/internal/core"
)

// Request is the parsed user invocation handed to discovery: an optional
// explicit version constraint and an optional target script.
type Request struct {
	// Spec is the version constraint from the CLI selector (e.g. -3.11)
	Spec core.VersionSpec

	// SpecSet distinguishes "no selector given" from "-0"
	SpecSet bool

	// ScriptPath is the target script, empty for a bare invocation
	ScriptPath string
}

// Outcome is the result of running every discovery tier in priority order.
type Outcome struct {
	// Chosen is non-nil when a tier short-circuited resolution: a shebang
	// naming a concrete interpreter path, or an honored virtual
	// environment. The candidate set is empty in that case.
	Chosen *core.Interpreter

	// Candidates is the flat pool the Selector ranks
	Candidates *core.CandidateSet

	// Spec is the effective version constraint after precedence rules
	Spec core.VersionSpec
}

// Coordinator runs the discovery tiers in the fixed priority order:
// shebang direct path, virtual environment, then the effective version
// request (shebang token > CLI selector > .python-version > env defaults)
// against the PATH candidate pool. The order is a closed, audited policy.
type Coordinator struct {
	fs     afero.Fs
	prober core.Prober
	log    *zerolog.Logger

	// Getenv and WorkDir are injectable for tests
	Getenv  func(string) string
	WorkDir string
}

// NewCoordinator creates a discovery coordinator over the host environment
func NewCoordinator(fs afero.Fs, prober core.Prober, log *zerolog.Logger) *Coordinator {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Coordinator{
		fs:      fs,
		prober:  prober,
		log:     log,
		Getenv:  os.Getenv,
		WorkDir: cwd,
	}
}

// Resolve runs the tiers for one launch request. It returns either a
// short-circuit choice or the candidate pool plus the effective spec.
// Only a completely empty system is an error.
func (c *Coordinator) Resolve(ctx context.Context, req Request) (*Outcome, error) {
	outcome := &Outcome{Candidates: &core.CandidateSet{}}

	spec := core.AnySpec
	if req.SpecSet {
		spec = req.Spec
	}
	specFromShebang := false

	if req.ScriptPath != "" {
		if shebang := ReadShebang(c.fs, req.ScriptPath); shebang != nil {
			if shebang.DirectPath != "" {
				interp := c.examineDirect(ctx, shebang.DirectPath)
				c.log.Debug().Str("path", interp.Path).Msg("shebang names a concrete interpreter")
				outcome.Chosen = &interp
				return outcome, nil
			}
			if shebang.Spec != nil {
				// Script intent wins over the CLI selector.
				spec = *shebang.Spec
				specFromShebang = true
				c.log.Debug().Stringer("spec", spec).Msg("version request taken from shebang")
			}
		}
	}

	// The venv tier is gated only on the explicit (shebang or CLI)
	// request. An active virtual environment outranks .python-version
	// and the PY_PYTHON defaults: those lower tiers are consulted only
	// after the venv has yielded nothing.
	venv := NewVenvSource(c.fs, c.prober, c.Getenv, c.log)
	venvCandidates, _ := venv.Candidates(ctx)
	if len(venvCandidates) == 1 {
		interp := venvCandidates[0]
		if spec.IsAny() || spec.Matches(interp.Version, interp.Arch) {
			c.log.Debug().Str("path", interp.Path).Msg("using active virtual environment")
			outcome.Spec = spec
			outcome.Chosen = &interp
			return outcome, nil
		}
		c.log.Debug().
			Stringer("spec", spec).
			Stringer("venv_version", interp.Version).
			Msg("active virtual environment does not satisfy the request")
	}

	if !specFromShebang && !req.SpecSet {
		if fileSpec, path, ok := FindVersionFile(c.fs, c.WorkDir, c.log); ok {
			spec = fileSpec
			c.log.Debug().Str("file", path).Stringer("spec", spec).Msg("version request taken from .python-version")
		}
	}

	spec = c.applyEnvDefault(spec)
	outcome.Spec = spec

	scanner := NewPathScanner(c.fs, c.prober, c.Getenv, c.log)
	pathCandidates, _ := scanner.Candidates(ctx)
	for _, interp := range pathCandidates {
		outcome.Candidates.Add(interp)
	}

	return outcome, nil
}

// Collect gathers every discoverable interpreter across all tiers without
// short-circuiting or filtering. Zero interpreters is an empty set, not an
// error; this feeds the list presentation layer.
func (c *Coordinator) Collect(ctx context.Context) (*core.CandidateSet, error) {
	set := &core.CandidateSet{}

	venv := NewVenvSource(c.fs, c.prober, c.Getenv, c.log)
	venvCandidates, _ := venv.Candidates(ctx)
	for _, interp := range venvCandidates {
		set.Add(interp)
	}

	scanner := NewPathScanner(c.fs, c.prober, c.Getenv, c.log)
	pathCandidates, _ := scanner.Candidates(ctx)
	for _, interp := range pathCandidates {
		set.Add(interp)
	}

	return set, nil
}

// applyEnvDefault refines an unconstrained or major-only request with the
// PY_PYTHON / PY_PYTHON{major} default variables. The defaults chain:
// PY_PYTHON=3 hands off to PY_PYTHON3, which may narrow it to 3.6.
// Malformed values are logged and ignored.
func (c *Coordinator) applyEnvDefault(spec core.VersionSpec) core.VersionSpec {
	// Two steps at most: any -> major -> exact.
	for i := 0; i < 2; i++ {
		name, ok := spec.EnvVar()
		if !ok {
			return spec
		}

		value := c.Getenv(name)
		if value == "" {
			return spec
		}

		parsed, err := core.ParseSpec(value)
		if err != nil {
			c.log.Debug().Str("var", name).Str("value", value).Msg("ignoring malformed default version variable")
			return spec
		}
		if parsed.String() == spec.String() {
			return spec
		}

		c.log.Debug().Str("var", name).Stringer("spec", parsed).Msg("default version taken from environment")
		spec = parsed
	}
	return spec
}

// examineDirect probes a shebang-named interpreter path. Probe failure is
// tolerated: the path is still the sole candidate and the dispatch step
// will surface a real error if the binary cannot run.
func (c *Coordinator) examineDirect(ctx context.Context, path string) core.Interpreter {
	interp := core.Interpreter{
		Path: path,
		Arch: core.ArchUnknown,
		Tier: core.TierShebang,
	}
	if version, arch, err := c.prober.Probe(ctx, path); err == nil {
		interp.Version = version
		interp.Arch = arch
	}
	return interp
}
