package discover

import (
	"bufio"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/py/internal/core"
)

// versionFileName is the per-project pin file searched from the working
// directory upward
const versionFileName = ".python-version"

// FindVersionFile walks from startDir to the filesystem root looking for a
// .python-version file. The closest directory wins. Its trimmed first line
// is parsed as a version request. Absence at every level, unreadable files
// and malformed contents all yield ok=false, silently.
func FindVersionFile(fs afero.Fs, startDir string, log *zerolog.Logger) (core.VersionSpec, string, bool) {
	dir := filepath.Clean(startDir)

	for {
		candidate := filepath.Join(dir, versionFileName)
		if spec, ok := readVersionFile(fs, candidate, log); ok {
			return spec, candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return core.VersionSpec{}, "", false
		}
		dir = parent
	}
}

func readVersionFile(fs afero.Fs, path string, log *zerolog.Logger) (core.VersionSpec, bool) {
	f, err := fs.Open(path)
	if err != nil {
		return core.VersionSpec{}, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return core.VersionSpec{}, false
	}

	token := strings.TrimSpace(scanner.Text())
	if token == "" {
		return core.VersionSpec{}, false
	}

	spec, err := core.ParseSpec(token)
	if err != nil {
		log.Debug().Str("file", path).Str("token", token).Msg("ignoring malformed .python-version")
		return core.VersionSpec{}, false
	}
	if !spec.Constrained() {
		return core.VersionSpec{}, false
	}

	return spec, true
}
