package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/ocp/pkg/errors"
)

// Environment variable names
const (
	EnvConfigDir  = "OCP_CONFIG_DIR"
	EnvCacheDir   = "OCP_CACHE_DIR"
	EnvTargetDir  = "OCP_TARGET_DIR"
	EnvWorkingDir = "OCP_WORKING_DIR"
	EnvStateHome  = "XDG_STATE_HOME"
	EnvHome       = "HOME"
)

// Fixed layout below the base directories. These are not user-configurable.
const (
	AppDirName          = "ocp"
	TargetDirName       = "opencode"
	RegistryFile        = "config.json"
	UserConfigFile      = "ocp.toml"
	BackupsDir          = "backups"
	RepositoriesDir     = "repositories"
	ResolvedProfilesDir = "resolved-profiles"
	RepositoryMetadata  = "repository.json"
	LogFileName         = "ocp.log"
)

// Paths resolves every location ocp reads or writes.
type Paths interface {
	ConfigDir() string
	CacheDir() string
	StateDir() string
	TargetDir() string
	WorkingDir() string
	RegistryPath() string
	UserConfigPath() string
	BackupsDir() string
	RepositoriesDir() string
	RepositoryPath(name string) string
	ResolvedProfilesDir() string
	LogFilePath() string
}

type paths struct {
	configDir  string
	cacheDir   string
	stateDir   string
	targetDir  string
	workingDir string
}

// New resolves paths from the environment. targetDir, when not empty,
// takes precedence over OCP_TARGET_DIR and the default.
func New(targetDir string) (Paths, error) {
	p := &paths{
		configDir: fromEnv(EnvConfigDir, filepath.Join(xdg.ConfigHome, AppDirName)),
		cacheDir:  fromEnv(EnvCacheDir, filepath.Join(xdg.CacheHome, AppDirName)),
		targetDir: fromEnv(EnvTargetDir, filepath.Join(xdg.ConfigHome, TargetDirName)),
	}
	if targetDir != "" {
		p.targetDir = ExpandHome(targetDir)
	}

	// xdg.StateHome is resolved at init; re-read so tests can move it.
	if stateHome := os.Getenv(EnvStateHome); stateHome != "" {
		p.stateDir = filepath.Join(stateHome, AppDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.stateDir = filepath.Join(homeDir, ".local", "state", AppDirName)
	}

	if wd := os.Getenv(EnvWorkingDir); wd != "" {
		p.workingDir = ExpandHome(wd)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to get current directory")
		}
		p.workingDir = cwd
	}

	for _, dir := range []*string{&p.configDir, &p.cacheDir, &p.targetDir, &p.workingDir} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", *dir)
		}
		*dir = abs
	}
	return p, nil
}

func fromEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return ExpandHome(v)
	}
	return fallback
}

// ExpandHome expands a leading ~ to the home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is not expanded
	return path
}

func (p *paths) ConfigDir() string  { return p.configDir }
func (p *paths) CacheDir() string   { return p.cacheDir }
func (p *paths) StateDir() string   { return p.stateDir }
func (p *paths) TargetDir() string  { return p.targetDir }
func (p *paths) WorkingDir() string { return p.workingDir }

// RegistryPath is the JSON file listing repositories and the active profile.
func (p *paths) RegistryPath() string {
	return filepath.Join(p.configDir, RegistryFile)
}

// UserConfigPath is the optional TOML file with user settings.
func (p *paths) UserConfigPath() string {
	return filepath.Join(p.configDir, UserConfigFile)
}

func (p *paths) BackupsDir() string {
	return filepath.Join(p.configDir, BackupsDir)
}

func (p *paths) RepositoriesDir() string {
	return filepath.Join(p.cacheDir, RepositoriesDir)
}

// RepositoryPath is where the named repository is cloned.
func (p *paths) RepositoryPath(name string) string {
	return filepath.Join(p.RepositoriesDir(), name)
}

func (p *paths) ResolvedProfilesDir() string {
	return filepath.Join(p.cacheDir, ResolvedProfilesDir)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}
