package paths

import (
	"os"
	"path/filepath"
)

// Resolver centralizes the launcher's standard file locations,
// derived from HOME with XDG-style layout.
type Resolver struct {
	homeDir string
}

// NewResolver creates a Resolver using the current user's HOME
func NewResolver() *Resolver {
	homeDir, _ := os.UserHomeDir()
	return &Resolver{homeDir: homeDir}
}

// NewResolverWithHome creates a Resolver with an explicit homeDir (for tests)
func NewResolverWithHome(homeDir string) *Resolver {
	return &Resolver{homeDir: homeDir}
}

// HomeDir returns the resolved HOME directory
func (r *Resolver) HomeDir() string {
	return r.homeDir
}

// ConfigDir returns ~/.config/py
func (r *Resolver) ConfigDir() string {
	return filepath.Join(r.homeDir, ".config", "py")
}

// ConfigFile returns ~/.config/py/config.toml
func (r *Resolver) ConfigFile() string {
	return filepath.Join(r.ConfigDir(), "config.toml")
}

// CacheDir returns ~/.cache/py
func (r *Resolver) CacheDir() string {
	return filepath.Join(r.homeDir, ".cache", "py")
}

// CacheFile returns the probe cache database location
func (r *Resolver) CacheFile() string {
	return filepath.Join(r.CacheDir(), "probes.db")
}

// LogFile returns the launcher log location
func (r *Resolver) LogFile() string {
	return filepath.Join(r.CacheDir(), "py.log")
}
