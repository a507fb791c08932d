package discover

import (
	"bufio"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/quantmind-br/py/internal/core"
	"github.com/quantmind-br/py/internal/probe"
)

// launcherName is the executable name this launcher answers to in shebangs
const launcherName = "py"

// maxShebangLen bounds the first-line read; the kernel itself refuses
// longer shebang lines
const maxShebangLen = 512

// ShebangResult is what a script's first line asks for. Exactly one of
// DirectPath and Spec is set; both empty means the shebang says nothing
// the launcher can use.
type ShebangResult struct {
	// DirectPath is a concrete interpreter path named outright by the
	// shebang. It is the sole candidate and short-circuits all other tiers.
	DirectPath string

	// Spec is a version constraint embedded in a launcher-style shebang
	// (e.g. "#!/usr/bin/env py -3.9"). It overrides the CLI version flag.
	Spec *core.VersionSpec
}

// ReadShebang inspects the first line of a script. Any failure to open or
// parse the file is non-fatal and reported as "no shebang": downstream
// tiers proceed as if no script were given.
func ReadShebang(fs afero.Fs, scriptPath string) *ShebangResult {
	f, err := fs.Open(scriptPath)
	if err != nil {
		return nil
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, maxShebangLen)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil
	}
	line = strings.TrimRight(line, "\r\n")

	if !strings.HasPrefix(line, "#!") {
		return nil
	}

	fields := strings.Fields(line[2:])
	if len(fields) == 0 {
		return nil
	}

	command := fields[0]
	args := fields[1:]

	// `#!/usr/bin/env NAME` defers to PATH; look at NAME instead.
	if filepath.Base(command) == "env" {
		if len(args) == 0 {
			return nil
		}
		command = args[0]
		args = args[1:]
	}

	base := filepath.Base(command)

	switch {
	case base == launcherName:
		// Launcher shebang: an optional version selector follows.
		if len(args) > 0 {
			if spec, ok := core.ParseVersionFlag(args[0]); ok {
				return &ShebangResult{Spec: &spec}
			}
		}
		return &ShebangResult{}

	case probe.IsInterpreterName(base):
		if strings.HasPrefix(command, "/") {
			// A concrete interpreter path: script intent at its most
			// explicit, never second-guessed.
			return &ShebangResult{DirectPath: command}
		}
		// `env pythonX.Y` or `env pythonX` carries a version but no
		// path; treat the file name as the constraint.
		if spec, err := core.ParseSpec(base[len("python"):]); err == nil && spec.Constrained() {
			return &ShebangResult{Spec: &spec}
		}
		return &ShebangResult{}

	default:
		return nil
	}
}
