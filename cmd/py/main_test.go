package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/py/internal/cmd"
	"github.com/quantmind-br/py/internal/config"
	"github.com/quantmind-br/py/internal/logging"
)

const colorNever = "never"

func TestConfigLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err, "Configuration should load without error")
	assert.NotNil(t, cfg, "Configuration should not be nil")
}

func TestLoggerInitialization(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err, "Configuration should load without error")

	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		NoColor: cfg.Logging.Color == colorNever,
	})
	assert.NotNil(t, log, "Logger should not be nil")
}

func TestCommandExecution(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err, "Configuration should load without error")

	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		NoColor: cfg.Logging.Color == colorNever,
	})

	// A bare invocation would resolve and exec a real interpreter, so the
	// harmless version subcommand stands in for end-to-end wiring.
	rootCmd := cmd.NewRootCmd(cfg, log, version)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"version"})

	err = rootCmd.ExecuteContext(context.Background())
	assert.NoError(t, err, "Command execution should not return an error")
	assert.Contains(t, buf.String(), "py version")
}
