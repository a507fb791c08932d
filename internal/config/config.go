package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/quantmind-br/py/internal/paths"
)

// Config represents the launcher configuration. The PY env prefix makes
// the launcher's historical variables fall out of viper naturally:
// PY_PYTHON is the `python` key, PY_INTERPRETER the `interpreter` key.
type Config struct {
	// Python is the default version request for unconstrained launches,
	// e.g. "3" or "3.11" (PY_PYTHON)
	Python string `mapstructure:"python"`

	// Interpreter forces a concrete interpreter path and bypasses
	// discovery entirely (PY_INTERPRETER)
	Interpreter string `mapstructure:"interpreter"`

	Cache    CacheConfig    `mapstructure:"cache"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CacheConfig controls the persistent probe-result cache
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DispatchConfig controls how control is handed to the interpreter
type DispatchConfig struct {
	// Mode is "exec" (process-image replacement) or "spawn"
	Mode string `mapstructure:"mode"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	CacheFile string `mapstructure:"cache_file"`
	LogFile   string `mapstructure:"log_file"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath(paths.NewResolver().ConfigDir())

	setDefaults()

	viper.SetEnvPrefix("PY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.CacheFile = expandPath(cfg.Paths.CacheFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)
	cfg.Interpreter = expandPath(cfg.Interpreter)

	return &cfg, nil
}

// MajorDefault returns the default version request scoped to one major
// version (PY_PYTHON3 and friends, or the matching config key)
func MajorDefault(major int) string {
	return viper.GetString(fmt.Sprintf("python%d", major))
}

// SetDefaultVersion persists a default version request to the config file
func SetDefaultVersion(version string) error {
	resolver := paths.NewResolver()
	if err := os.MkdirAll(resolver.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	viper.Set("python", version)
	if err := viper.WriteConfigAs(resolver.ConfigFile()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// FilePath returns the path the config file is read from (it may not
// exist yet)
func FilePath() string {
	return paths.NewResolver().ConfigFile()
}

// setDefaults sets default configuration values
func setDefaults() {
	resolver := paths.NewResolver()

	viper.SetDefault("python", "")
	viper.SetDefault("interpreter", "")

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("dispatch.mode", "exec")

	viper.SetDefault("paths.cache_file", resolver.CacheFile())
	viper.SetDefault("paths.log_file", resolver.LogFile())

	// A launcher must stay silent on the happy path.
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.color", "auto")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}
