package cmd

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/py/internal/cache"
	"github.com/quantmind-br/py/internal/config"
	"github.com/quantmind-br/py/internal/core"
	"github.com/quantmind-br/py/internal/discover"
	"github.com/quantmind-br/py/internal/probe"
)

// engine bundles the discovery pipeline over the host filesystem
type engine struct {
	fs     afero.Fs
	runner probe.CommandRunner
	store  *cache.Store // nil when caching is disabled or unavailable
	coord  *discover.Coordinator
}

// newEngine wires prober, cache and coordinator for one invocation.
// A cache that fails to open is a debug-level event, never an error:
// the launcher still works, just slower.
func newEngine(ctx context.Context, cfg *config.Config, log *zerolog.Logger) *engine {
	fs := afero.NewOsFs()
	runner := probe.NewOSCommandRunner()

	var store *cache.Store
	var probeStore core.ProbeStore
	if cfg.Cache.Enabled {
		s, err := cache.Open(ctx, cfg.Paths.CacheFile)
		if err != nil {
			log.Debug().Err(err).Str("path", cfg.Paths.CacheFile).Msg("probe cache unavailable")
		} else {
			store = s
			probeStore = s
		}
	}

	prober := probe.NewBinaryProber(fs, runner, probeStore, log)
	coord := discover.NewCoordinator(fs, prober, log)
	coord.Getenv = lookupEnv(cfg)

	return &engine{
		fs:     fs,
		runner: runner,
		store:  store,
		coord:  coord,
	}
}

// Close releases the probe cache; safe to call more than once
func (e *engine) Close() {
	if e.store != nil {
		e.store.Close()
		e.store = nil
	}
}

// lookupEnv routes the launcher's default-version variables through the
// config layer (so config-file values and PY_* env agree on precedence)
// and everything else straight to the environment
func lookupEnv(cfg *config.Config) func(string) string {
	return func(key string) string {
		switch {
		case key == "PY_PYTHON":
			return cfg.Python
		case strings.HasPrefix(key, "PY_PYTHON"):
			if major, err := strconv.Atoi(key[len("PY_PYTHON"):]); err == nil {
				return config.MajorDefault(major)
			}
		}
		return os.Getenv(key)
	}
}
