package discover

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/py/internal/core"
)

// VenvSource discovers the interpreter of an active virtual environment
// via the VIRTUAL_ENV environment variable.
type VenvSource struct {
	fs     afero.Fs
	prober core.Prober
	getenv func(string) string
	log    *zerolog.Logger
}

// NewVenvSource creates the virtual-environment probe
func NewVenvSource(fs afero.Fs, prober core.Prober, getenv func(string) string, log *zerolog.Logger) *VenvSource {
	return &VenvSource{fs: fs, prober: prober, getenv: getenv, log: log}
}

// Name implements core.CandidateSource
func (s *VenvSource) Name() string { return "virtual-env" }

// Tier implements core.CandidateSource
func (s *VenvSource) Tier() core.OriginTier { return core.TierVirtualEnv }

// Candidates yields the active venv's bin/python, if there is one.
// A missing or broken venv yields nothing; it never aborts resolution.
func (s *VenvSource) Candidates(ctx context.Context) ([]core.Interpreter, error) {
	venvDir := s.getenv("VIRTUAL_ENV")
	if venvDir == "" {
		return nil, nil
	}

	binary := filepath.Join(venvDir, "bin", "python")
	info, err := s.fs.Stat(binary)
	if err != nil || info.IsDir() {
		s.log.Debug().Str("venv", venvDir).Msg("VIRTUAL_ENV set but bin/python missing")
		return nil, nil
	}

	version, arch, err := s.prober.Probe(ctx, binary)
	if err != nil {
		s.log.Debug().Err(err).Str("path", binary).Msg("venv interpreter probe failed")
		return nil, nil
	}

	return []core.Interpreter{{
		Path:    binary,
		Version: version,
		Arch:    arch,
		Tier:    core.TierVirtualEnv,
	}}, nil
}
