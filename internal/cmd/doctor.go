package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/py/internal/config"
	"github.com/quantmind-br/py/internal/core"
	"github.com/quantmind-br/py/internal/ui"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check launcher environment and configuration",
		Long:  `Check PATH health, virtual environment state, default-version variables, the probe cache and the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.PrintHeader("Launcher Diagnostics")

			var issues []string
			var warnings []string

			// 1. PATH entries
			ui.PrintSubheader("PATH")
			pathValue := os.Getenv("PATH")
			if pathValue == "" {
				ui.PrintError("PATH is empty")
				issues = append(issues, "PATH is empty; no interpreters can be discovered")
			} else {
				for _, dir := range filepath.SplitList(pathValue) {
					if dir == "" {
						continue
					}
					if info, err := os.Stat(dir); err != nil {
						ui.PrintWarning("%s: not accessible", dir)
						warnings = append(warnings, fmt.Sprintf("PATH entry not accessible: %s", dir))
					} else if !info.IsDir() {
						ui.PrintWarning("%s: not a directory", dir)
						warnings = append(warnings, fmt.Sprintf("PATH entry is not a directory: %s", dir))
					} else {
						ui.PrintSuccess("%s", dir)
					}
				}
			}

			// 2. Discovered interpreters
			ui.PrintSubheader("Interpreters")
			ctx := cmd.Context()
			eng := newEngine(ctx, cfg, log)
			defer eng.Close()

			set, err := eng.coord.Collect(ctx)
			if err != nil {
				return fmt.Errorf("collect interpreters: %w", err)
			}
			if set.Len() == 0 {
				ui.PrintError("no Python interpreters found")
				issues = append(issues, "no Python interpreters discoverable; install Python or adjust PATH")
			} else {
				ui.PrintSuccess("%d interpreter(s) discoverable", set.Len())
				ui.RenderInterpretersDetailed(cmd.OutOrStdout(), set.All())
			}

			// 3. Virtual environment
			ui.PrintSubheader("Virtual Environment")
			if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
				binary := filepath.Join(venv, "bin", "python")
				if _, err := os.Stat(binary); err != nil {
					ui.PrintWarning("VIRTUAL_ENV set but %s is missing", binary)
					warnings = append(warnings, "active VIRTUAL_ENV has no bin/python")
				} else {
					ui.PrintSuccess("active: %s", venv)
				}
			} else {
				ui.PrintInfo("none active")
			}

			// 4. Default-version variables
			ui.PrintSubheader("Defaults")
			checkDefaultVar := func(name, value string) {
				if value == "" {
					return
				}
				if _, err := core.ParseSpec(value); err != nil {
					ui.PrintWarning("%s=%q is not a valid version request", name, value)
					warnings = append(warnings, fmt.Sprintf("%s holds a malformed version request", name))
				} else {
					ui.PrintSuccess("%s=%s", name, value)
				}
			}
			checkDefaultVar("PY_PYTHON", cfg.Python)
			for major := 2; major <= 3; major++ {
				checkDefaultVar(fmt.Sprintf("PY_PYTHON%d", major), config.MajorDefault(major))
			}
			if forced := cfg.Interpreter; forced != "" {
				if _, err := os.Stat(forced); err != nil {
					ui.PrintError("PY_INTERPRETER=%s does not exist", forced)
					issues = append(issues, "PY_INTERPRETER points at a missing binary")
				} else {
					ui.PrintSuccess("PY_INTERPRETER=%s", forced)
				}
			}

			// 5. Probe cache
			ui.PrintSubheader("Probe Cache")
			if !cfg.Cache.Enabled {
				ui.PrintInfo("disabled")
			} else if eng.store == nil {
				ui.PrintWarning("enabled but unavailable at %s", cfg.Paths.CacheFile)
				warnings = append(warnings, "probe cache could not be opened")
			} else {
				count, err := eng.store.Count(ctx)
				if err != nil {
					ui.PrintWarning("cache unreadable: %v", err)
					warnings = append(warnings, "probe cache unreadable")
				} else {
					pruned, _ := eng.store.Prune(ctx)
					ui.PrintSuccess("%d cached probe(s), %d stale pruned", count, pruned)
				}
			}

			// 6. Configuration file
			ui.PrintSubheader("Configuration")
			if path := config.FilePath(); path != "" {
				if _, err := os.Stat(path); err == nil {
					ui.PrintSuccess("config file: %s", path)
				} else {
					ui.PrintInfo("no config file (defaults in effect): %s", path)
				}
			}

			// Summary
			fmt.Fprintln(cmd.OutOrStdout())
			switch {
			case len(issues) > 0:
				ui.PrintError("%d issue(s) found", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", ui.CrossMark, issue)
				}
				return fmt.Errorf("doctor found %d issue(s)", len(issues))
			case len(warnings) > 0:
				ui.PrintWarning("%d warning(s)", len(warnings))
			default:
				ui.PrintSuccess("everything looks healthy")
			}

			return nil
		},
	}

	return cmd
}
