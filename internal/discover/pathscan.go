package discover

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/py/internal/core"
	"github.com/quantmind-br/py/internal/probe"
)

// PathScanner enumerates Python interpreters on the PATH environment
// variable. It is the exhaustive fallback tier and always runs when no
// higher tier short-circuits.
type PathScanner struct {
	fs     afero.Fs
	prober core.Prober
	getenv func(string) string
	log    *zerolog.Logger

	// resolve canonicalizes a path so symlink aliases dedupe to one
	// candidate; overridable in tests
	resolve func(string) string
}

// NewPathScanner creates the PATH scanning source
func NewPathScanner(fs afero.Fs, prober core.Prober, getenv func(string) string, log *zerolog.Logger) *PathScanner {
	return &PathScanner{
		fs:      fs,
		prober:  prober,
		getenv:  getenv,
		log:     log,
		resolve: realPath,
	}
}

// realPath resolves symlinks on the host filesystem, falling back to the
// input path when resolution fails (e.g. under an in-memory test fs)
func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// Name implements core.CandidateSource
func (s *PathScanner) Name() string { return "path-scan" }

// Tier implements core.CandidateSource
func (s *PathScanner) Tier() core.OriginTier { return core.TierPath }

// Candidates scans every PATH directory in listed order for entries named
// python, pythonX or pythonX.Y. Versions come from the file name when
// fully specified and from one --version spawn otherwise. Unreadable
// directories and failed probes are skipped, never fatal.
func (s *PathScanner) Candidates(ctx context.Context) ([]core.Interpreter, error) {
	var out []core.Interpreter
	seen := make(map[string]bool)

	for _, dir := range filepath.SplitList(s.getenv("PATH")) {
		if dir == "" {
			continue
		}

		entries, err := afero.ReadDir(s.fs, dir)
		if err != nil {
			s.log.Debug().Str("dir", dir).Err(err).Msg("skipping unreadable PATH entry")
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !probe.IsInterpreterName(entry.Name()) {
				continue
			}

			full := filepath.Join(dir, entry.Name())

			mode := entry.Mode()
			if mode&os.ModeSymlink != 0 {
				// Follow the link; python3 is usually a symlink to
				// the real pythonX.Y binary.
				info, err := s.fs.Stat(full)
				if err != nil {
					continue
				}
				mode = info.Mode()
			}
			if !executable(mode) {
				continue
			}

			canonical := s.resolve(full)
			if seen[canonical] {
				continue
			}
			seen[canonical] = true

			interp, ok := s.examine(ctx, full, entry.Name())
			if !ok {
				continue
			}
			out = append(out, interp)
		}
	}

	return out, nil
}

func (s *PathScanner) examine(ctx context.Context, path, name string) (core.Interpreter, bool) {
	if version, ok := probe.VersionFromFileName(name); ok {
		return core.Interpreter{
			Path:    path,
			Version: version,
			Arch:    probe.ArchFromBinary(s.fs, path),
			Tier:    core.TierPath,
		}, true
	}

	// Bare python/pythonX: one spawn to learn the version.
	version, arch, err := s.prober.Probe(ctx, path)
	if err != nil {
		s.log.Debug().Err(err).Str("path", path).Msg("interpreter probe failed, skipping")
		return core.Interpreter{}, false
	}

	return core.Interpreter{
		Path:    path,
		Version: version,
		Arch:    arch,
		Tier:    core.TierPath,
	}, true
}

func executable(mode os.FileMode) bool {
	return mode.IsRegular() && mode.Perm()&0o111 != 0
}
