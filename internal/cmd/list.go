package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/py/internal/config"
	"github.com/quantmind-br/py/internal/core"
	"github.com/quantmind-br/py/internal/ui"
)

// NewListCmd creates the list command: the discovery pipeline minus
// selection and dispatch, handed to the table formatter
func NewListCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		jsonOutput  bool
		filter      string
		refresh     bool
		showDetails bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed Python interpreters",
		Long:  `List every Python interpreter discoverable on this system, with version, architecture, origin and path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng := newEngine(ctx, cfg, log)
			defer eng.Close()

			if refresh && eng.store != nil {
				if err := eng.store.Clear(ctx); err != nil {
					log.Warn().Err(err).Msg("could not clear probe cache")
				}
			}

			var spinnerDone chan struct{}
			if refresh && !jsonOutput {
				spinner := ui.NewSpinner("probing interpreters")
				spinnerDone = make(chan struct{})
				go func() {
					ticker := time.NewTicker(100 * time.Millisecond)
					defer ticker.Stop()
					for {
						select {
						case <-ticker.C:
							spinner.Add(1)
						case <-spinnerDone:
							spinner.Clear()
							return
						}
					}
				}()
			}

			set, err := eng.coord.Collect(ctx)
			if spinnerDone != nil {
				close(spinnerDone)
			}
			if err != nil {
				return fmt.Errorf("collect interpreters: %w", err)
			}

			filtered := ui.FuzzyFilter(filter, set.All())

			if jsonOutput {
				if filtered == nil {
					// An empty candidate set is [], not null.
					filtered = []core.Interpreter{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(filtered)
			}

			// Zero interpreters is an empty listing, not an error.
			if len(filtered) == 0 {
				if filter != "" {
					ui.PrintWarning("No interpreters match filter %q", filter)
				} else {
					ui.PrintInfo("No Python interpreters found")
				}
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Found %d interpreter(s)", set.Len())
			if len(filtered) != set.Len() {
				fmt.Fprintf(cmd.OutOrStdout(), " (showing %d filtered)", len(filtered))
			}
			fmt.Fprintln(cmd.OutOrStdout())

			if showDetails {
				ui.RenderInterpretersDetailed(cmd.OutOrStdout(), filtered)
			} else {
				ui.RenderInterpreters(cmd.OutOrStdout(), filtered)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&filter, "filter", "", "fuzzy-filter by version or path")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "discard cached probe results and re-probe")
	cmd.Flags().BoolVarP(&showDetails, "details", "d", false, "show bordered table")

	return cmd
}
