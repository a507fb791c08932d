package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/quantmind-br/py/internal/cmd"
	"github.com/quantmind-br/py/internal/config"
	"github.com/quantmind-br/py/internal/core"
	"github.com/quantmind-br/py/internal/logging"
	"github.com/quantmind-br/py/internal/ui"
)

var version = "dev"

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(core.ExitGeneral)
	}

	// Initialize logger
	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		NoColor: cfg.Logging.Color == "never",
	})

	ui.InitColors()
	if cfg.Logging.Color == "never" {
		color.NoColor = true
	}

	// Execute root command
	rootCmd := cmd.NewRootCmd(cfg, log, version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "py: %v\n", err)
		log.Debug().Err(err).Msg("command failed")
		os.Exit(core.ExitCode(err))
	}
}
