package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/py/internal/config"
	"github.com/quantmind-br/py/internal/core"
	"github.com/quantmind-br/py/internal/discover"
	"github.com/quantmind-br/py/internal/dispatch"
	"github.com/quantmind-br/py/internal/probe"
	"github.com/quantmind-br/py/internal/selector"
)

// NewRootCmd creates the root command. Flag parsing is disabled on the
// root: the leading version selector (-3, -3.11, -3.9-64) is not a flag
// cobra can own, and everything after the script path belongs to the
// interpreter untouched.
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "py [-X[.Y][-32|-64]] [script] [args...]",
		Short: "Launch the best-matching Python interpreter",
		Long: `py locates the best-matching installed Python interpreter and hands
the process over to it, preserving arguments, environment, stdio and
exit status.

Resolution order: a script's shebang, an active virtual environment,
the version selector, a .python-version file, PY_PYTHON defaults, and
finally the highest version found on PATH.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
				return cmd.Help()
			}
			return runLaunch(cmd.Context(), cfg, log, args)
		},
	}

	cmd.AddCommand(NewListCmd(cfg, log))
	cmd.AddCommand(NewDefaultCmd(cfg, log))
	cmd.AddCommand(NewDoctorCmd(cfg, log))
	cmd.AddCommand(NewCompletionCmd())
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}

// parseLaunchArgs splits the raw argument vector into a discovery request
// and the tail to forward to the interpreter. A consumed version selector
// is removed from the tail; everything else passes through untouched.
func parseLaunchArgs(args []string) (discover.Request, []string) {
	req := discover.Request{}
	tail := args

	if len(tail) > 0 {
		if spec, ok := core.ParseVersionFlag(tail[0]); ok {
			req.Spec = spec
			req.SpecSet = true
			tail = tail[1:]
		}
	}

	// Only the first forwarded argument can be the target script.
	// Anything dash-prefixed (-c, -m, -W error, bare "-") belongs to
	// the interpreter; guessing past an option's value is not possible
	// without enumerating every interpreter flag.
	if len(tail) > 0 && !strings.HasPrefix(tail[0], "-") {
		req.ScriptPath = tail[0]
	}

	return req, tail
}

// runLaunch resolves and dispatches one launch request. In exec mode a
// successful dispatch never returns; in spawn mode the launcher exits
// with the child's exact status.
func runLaunch(ctx context.Context, cfg *config.Config, log *zerolog.Logger, args []string) error {
	req, tail := parseLaunchArgs(args)

	runner := probe.NewOSCommandRunner()
	dispatcher := dispatch.New(dispatch.Mode(cfg.Dispatch.Mode), runner, log)

	// PY_INTERPRETER bypasses discovery entirely.
	if cfg.Interpreter != "" {
		log.Debug().Str("path", cfg.Interpreter).Msg("forced interpreter, skipping discovery")
		interp := core.Interpreter{Path: cfg.Interpreter, Arch: core.ArchUnknown}
		code, err := dispatcher.Dispatch(ctx, interp, tail)
		if err != nil {
			return err
		}
		os.Exit(code)
	}

	eng := newEngine(ctx, cfg, log)
	defer eng.Close()

	outcome, err := eng.coord.Resolve(ctx, req)
	if err != nil {
		return err
	}

	chosen := outcome.Chosen
	if chosen == nil {
		interp, err := selector.Select(outcome.Spec, outcome.Candidates)
		if err != nil {
			return err
		}
		chosen = &interp
	}

	// Release the cache handle now; exec never runs deferred calls.
	eng.Close()

	code, err := dispatcher.Dispatch(ctx, *chosen, tail)
	if err != nil {
		return err
	}
	os.Exit(code)
	return nil
}
