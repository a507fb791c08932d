package probe

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/py/internal/core"
)

// versionOutputRe matches the output of `python --version`,
// e.g. "Python 3.11.4" or "Python 2.7.18+"
var versionOutputRe = regexp.MustCompile(`^Python (\d+)\.(\d+)(?:\.(\d+))?`)

// fileNameRe matches fully-versioned interpreter file names (python3.11)
var fileNameRe = regexp.MustCompile(`^python(\d+)\.(\d+)$`)

// probeTimeout bounds each --version spawn; a healthy interpreter
// answers in well under a second
const probeTimeout = 5 * time.Second

// ParseVersionOutput extracts a concrete version from `--version` output.
// Python 2 printed its banner to stderr, so callers should try both streams.
func ParseVersionOutput(output string) (core.Version, error) {
	m := versionOutputRe.FindStringSubmatch(strings.TrimSpace(output))
	if m == nil {
		return core.Version{}, fmt.Errorf("unrecognized version output %q", strings.TrimSpace(output))
	}

	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch := -1
	if m[3] != "" {
		patch, _ = strconv.Atoi(m[3])
	}

	return core.Version{Major: major, Minor: minor, Patch: patch}, nil
}

// VersionFromFileName parses a pythonX.Y file name into a version.
// Bare "python" and "python3" are undetermined and return false;
// those candidates need a --version spawn.
func VersionFromFileName(name string) (core.Version, bool) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return core.Version{}, false
	}

	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return core.Version{Major: major, Minor: minor, Patch: -1}, true
}

// IsInterpreterName reports whether a file name looks like a Python
// interpreter: "python" optionally followed by a major or major.minor
func IsInterpreterName(name string) bool {
	if !strings.HasPrefix(name, "python") {
		return false
	}
	rest := name[len("python"):]
	if rest == "" {
		return true
	}
	if _, err := strconv.Atoi(rest); err == nil {
		return true
	}
	_, ok := VersionFromFileName(name)
	return ok
}

// elfMagic is the four-byte ELF identification prefix
var elfMagic = []byte{0x7F, 'E', 'L', 'F'}

// ArchFromBinary reads the ELF identification header of an executable and
// returns its pointer width. Non-ELF files (wrapper scripts, Mach-O on
// macOS) report ArchUnknown; that is not an error.
func ArchFromBinary(fs afero.Fs, path string) core.Architecture {
	f, err := fs.Open(path)
	if err != nil {
		return core.ArchUnknown
	}
	defer f.Close()

	header := make([]byte, 5)
	n, err := f.Read(header)
	if err != nil || n < 5 {
		return core.ArchUnknown
	}

	if !bytes.Equal(header[:4], elfMagic) {
		return core.ArchUnknown
	}

	// EI_CLASS: 1 = ELFCLASS32, 2 = ELFCLASS64
	switch header[4] {
	case 1:
		return core.Arch32
	case 2:
		return core.Arch64
	default:
		return core.ArchUnknown
	}
}

// BinaryProber determines the version and architecture of interpreter
// binaries, consulting a persistent store before spawning anything.
type BinaryProber struct {
	fs     afero.Fs
	runner CommandRunner
	store  core.ProbeStore // may be nil
	log    *zerolog.Logger
}

// NewBinaryProber creates a prober. store may be nil to disable caching.
func NewBinaryProber(fs afero.Fs, runner CommandRunner, store core.ProbeStore, log *zerolog.Logger) *BinaryProber {
	return &BinaryProber{fs: fs, runner: runner, store: store, log: log}
}

// Probe inspects the binary at path. The version comes from the cache or
// from one `--version` spawn; the architecture from the ELF header.
func (p *BinaryProber) Probe(ctx context.Context, path string) (core.Version, core.Architecture, error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		return core.Version{}, core.ArchUnknown, fmt.Errorf("stat %s: %w", path, err)
	}
	mtimeNs := info.ModTime().UnixNano()
	size := info.Size()

	if p.store != nil {
		if v, arch, ok := p.store.Get(ctx, path, mtimeNs, size); ok {
			p.log.Debug().Str("path", path).Stringer("version", v).Msg("probe cache hit")
			return v, arch, nil
		}
	}

	version, err := p.spawnVersion(ctx, path)
	if err != nil {
		return core.Version{}, core.ArchUnknown, err
	}
	arch := ArchFromBinary(p.fs, path)

	if p.store != nil {
		if err := p.store.Put(ctx, path, mtimeNs, size, version, arch); err != nil {
			p.log.Debug().Err(err).Str("path", path).Msg("probe cache write failed")
		}
	}

	return version, arch, nil
}

func (p *BinaryProber) spawnVersion(ctx context.Context, path string) (core.Version, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	stdout, stderr, err := p.runner.RunCommandWithOutput(ctx, path, "--version")
	if err != nil {
		return core.Version{}, fmt.Errorf("probe %s: %w", path, err)
	}

	output := stdout
	if strings.TrimSpace(output) == "" {
		output = stderr
	}

	version, err := ParseVersionOutput(output)
	if err != nil {
		return core.Version{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return version, nil
}
