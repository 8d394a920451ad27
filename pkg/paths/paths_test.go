package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{EnvConfigDir, EnvCacheDir, EnvTargetDir, EnvWorkingDir} {
		t.Setenv(key, "")
	}
}

func TestNew_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigDir, "/custom/config")
	t.Setenv(EnvCacheDir, "/custom/cache")
	t.Setenv(EnvTargetDir, "/custom/opencode")
	t.Setenv(EnvWorkingDir, "/custom/work")
	t.Setenv(EnvStateHome, "/custom/state")

	p, err := New("")
	require.NoError(t, err)

	assert.Equal(t, "/custom/config", p.ConfigDir())
	assert.Equal(t, "/custom/config/config.json", p.RegistryPath())
	assert.Equal(t, "/custom/config/ocp.toml", p.UserConfigPath())
	assert.Equal(t, "/custom/config/backups", p.BackupsDir())
	assert.Equal(t, "/custom/cache/repositories/team", p.RepositoryPath("team"))
	assert.Equal(t, "/custom/cache/resolved-profiles", p.ResolvedProfilesDir())
	assert.Equal(t, "/custom/opencode", p.TargetDir())
	assert.Equal(t, "/custom/work", p.WorkingDir())
	assert.Equal(t, "/custom/state/ocp/ocp.log", p.LogFilePath())
}

func TestNew_ExplicitTargetWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTargetDir, "/from/env")

	p, err := New("/from/config")
	require.NoError(t, err)
	assert.Equal(t, "/from/config", p.TargetDir())
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)

	p, err := New("")
	require.NoError(t, err)

	assert.Equal(t, AppDirName, filepath.Base(p.ConfigDir()))
	assert.Equal(t, AppDirName, filepath.Base(p.CacheDir()))
	assert.Equal(t, TargetDirName, filepath.Base(p.TargetDir()))
	assert.True(t, filepath.IsAbs(p.WorkingDir()))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, p.WorkingDir())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"~", home},
		{"~/profiles", filepath.Join(home, "profiles")},
		{"~other/x", "~other/x"},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.in))
		})
	}
}
