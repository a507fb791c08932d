package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/py/internal/config"
	"github.com/quantmind-br/py/internal/core"
	"github.com/quantmind-br/py/internal/ui"
)

// NewDefaultCmd creates the default command, which shows or sets the
// default version request used for unconstrained launches
func NewDefaultCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "default [X[.Y]]",
		Short: "Show or set the default Python version",
		Long: `Without arguments, pick the default interpreter version interactively
from the discovered candidates. With a version argument, set it directly.

The default is written to ` + config.FilePath() + ` and can always be
overridden per-invocation with a version selector or PY_PYTHON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 1 {
				spec, err := core.ParseSpec(args[0])
				if err != nil {
					return err
				}
				if !spec.Constrained() {
					return fmt.Errorf("default version must name at least a major version")
				}

				eng := newEngine(ctx, cfg, log)
				defer eng.Close()

				if set, err := eng.coord.Collect(ctx); err == nil && !anySatisfies(spec, set) {
					ok, err := ui.ConfirmPrompt(fmt.Sprintf("No installed interpreter matches %s; set it anyway", spec))
					if err != nil {
						return err
					}
					if !ok {
						return nil
					}
				}

				return setDefault(spec)
			}

			if cfg.Python != "" {
				ui.PrintKeyValue("Current default", cfg.Python)
			} else {
				ui.PrintInfo("No default set; the highest version on PATH wins")
			}

			eng := newEngine(ctx, cfg, log)
			defer eng.Close()

			set, err := eng.coord.Collect(ctx)
			if err != nil {
				return fmt.Errorf("collect interpreters: %w", err)
			}
			if set.Len() == 0 {
				ui.PrintWarning("No Python interpreters found to choose from")
				return nil
			}

			idx, err := ui.SelectInterpreter("Default Python version", set.All())
			if err != nil {
				return err
			}

			chosen := set.All()[idx]
			spec, err := core.ParseSpec(fmt.Sprintf("%d.%d", chosen.Version.Major, chosen.Version.Minor))
			if err != nil {
				return err
			}
			return setDefault(spec)
		},
	}

	return cmd
}

func anySatisfies(spec core.VersionSpec, set *core.CandidateSet) bool {
	for _, interp := range set.All() {
		if spec.Matches(interp.Version, interp.Arch) {
			return true
		}
	}
	return false
}

func setDefault(spec core.VersionSpec) error {
	if err := config.SetDefaultVersion(spec.String()); err != nil {
		return err
	}

	ui.PrintSuccess("Default Python version set to %s", spec)
	return nil
}
