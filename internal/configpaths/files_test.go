package configpaths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecinput/cecinput/internal/configpaths"
)

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := configpaths.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/xdg/cecinput", dir)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tv")
	dir, err = configpaths.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/tv/.config/cecinput", dir)

	p, err := configpaths.DefaultConfigPath("yml")
	require.NoError(t, err)
	assert.Equal(t, "/home/tv/.config/cecinput/config.yaml", p)
}

func TestDefaultSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, "/run/user/1000/cecinput.sock", configpaths.DefaultSocketPath())
}

func TestConfigCandidatePaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	tests := []struct {
		name     string
		user     string
		wantJSON string
		wantYAML string
		wantTOML string
	}{
		{name: "yaml", user: "/tmp/c.yml", wantYAML: "/tmp/c.yml"},
		{name: "toml", user: "/tmp/c.toml", wantTOML: "/tmp/c.toml"},
		{name: "unknown extension goes to json", user: "/tmp/c.conf", wantJSON: "/tmp/c.conf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, y, tm := configpaths.ConfigCandidatePaths(tt.user)
			if tt.wantJSON != "" {
				assert.Equal(t, tt.wantJSON, j[0])
			}
			if tt.wantYAML != "" {
				assert.Equal(t, tt.wantYAML, y[0])
			}
			if tt.wantTOML != "" {
				assert.Equal(t, tt.wantTOML, tm[0])
			}
		})
	}

	j, y, tm := configpaths.ConfigCandidatePaths("")
	assert.Contains(t, j, "/xdg/cecinput/config.json")
	assert.Contains(t, y, filepath.Join(configpaths.SystemConfigDir, "config.yml"))
	assert.Equal(t, filepath.Join(configpaths.SystemConfigDir, "config.toml"), tm[len(tm)-1])
}
