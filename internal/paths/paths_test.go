package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverLayout(t *testing.T) {
	r := NewResolverWithHome("/home/dev")

	assert.Equal(t, "/home/dev", r.HomeDir())
	assert.Equal(t, "/home/dev/.config/py", r.ConfigDir())
	assert.Equal(t, "/home/dev/.config/py/config.toml", r.ConfigFile())
	assert.Equal(t, "/home/dev/.cache/py", r.CacheDir())
	assert.Equal(t, "/home/dev/.cache/py/probes.db", r.CacheFile())
	assert.Equal(t, "/home/dev/.cache/py/py.log", r.LogFile())
}

func TestNewResolverUsesHome(t *testing.T) {
	r := NewResolver()
	if r.HomeDir() == "" {
		t.Skip("no HOME in test environment")
	}
	assert.Equal(t, filepath.Join(r.HomeDir(), ".cache", "py"), r.CacheDir())
}
