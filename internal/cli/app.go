package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/ocp/pkg/activation"
	"github.com/arthur-debert/ocp/pkg/config"
	"github.com/arthur-debert/ocp/pkg/filesystem"
	"github.com/arthur-debert/ocp/pkg/git"
	"github.com/arthur-debert/ocp/pkg/paths"
	"github.com/arthur-debert/ocp/pkg/profiles"
	"github.com/arthur-debert/ocp/pkg/registry"
	"github.com/arthur-debert/ocp/pkg/repository"
	"github.com/arthur-debert/ocp/pkg/ui"
	"github.com/rs/zerolog/log"
)

// globalFlags holds the persistent flags of the root command.
type globalFlags struct {
	verbosity int
	format    string
	targetDir string
}

// deps are the process-level collaborators. Tests replace them.
type deps struct {
	runner git.Runner
	stdin  io.Reader
	now    func() time.Time
}

func defaultDeps() deps {
	return deps{runner: git.ExecRunner{}, stdin: os.Stdin, now: time.Now}
}

// app wires the configured components for one command invocation.
type app struct {
	paths     paths.Paths
	config    *config.Config
	format    ui.Format
	targetDir string
	fs        filesystem.FS
	git       *git.Client
	registry  *registry.Store
	profiles  *profiles.Service
}

// loadSettings resolves paths and configuration without touching git.
func loadSettings(flags *globalFlags) (paths.Paths, *config.Config, error) {
	p, err := paths.New(flags.targetDir)
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	overrides := map[string]interface{}{}
	if flags.format != "" {
		overrides["output.format"] = flags.format
	}
	cfg, err := config.Load(p.UserConfigPath(), overrides)
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return p, cfg, nil
}

// newApp builds the full component graph. The git binary must be available.
func newApp(flags *globalFlags, d deps) (*app, error) {
	p, cfg, err := loadSettings(flags)
	if err != nil {
		return nil, err
	}
	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	// --target-dir wins, then activation.target_dir, then OCP_TARGET_DIR.
	targetDir := p.TargetDir()
	if flags.targetDir == "" && cfg.Activation.TargetDir != "" {
		if targetDir, err = filepath.Abs(paths.ExpandHome(cfg.Activation.TargetDir)); err != nil {
			return nil, fmt.Errorf(MsgErrInitPaths, err)
		}
	}

	client := git.NewClient(d.runner)
	if err := client.Verify(); err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	store := registry.NewStore(fsys, p.RegistryPath(), p.RepositoriesDir(), client)
	engine := activation.NewEngine(fsys, p.BackupsDir(),
		activation.WithClock(d.now),
		activation.WithTimestampFormat(cfg.Activation.BackupTimestampFormat))

	service := profiles.New(profiles.Options{
		Registry:     store,
		Git:          client,
		Engine:       engine,
		TargetDir:    targetDir,
		CacheDir:     p.CacheDir(),
		WorkingDir:   p.WorkingDir(),
		Indent:       string(cfg.Materialize.Indent),
		VersionCheck: cfg.Profiles.VersionCheck,
		FileSystem:   fsys,
		Now:          d.now,
	})

	log.Debug().
		Str("config_dir", p.ConfigDir()).
		Str("cache_dir", p.CacheDir()).
		Str("target_dir", targetDir).
		Str("format", format.String()).
		Msg("Application initialized")

	return &app{
		paths:     p,
		config:    cfg,
		format:    format,
		targetDir: targetDir,
		fs:        fsys,
		git:       client,
		registry:  store,
		profiles:  service,
	}, nil
}

// repositoryProfiles maps every configured repository to the profile
// names its metadata declares.
func (a *app) repositoryProfiles(entries []registry.Entry) (map[string][]string, error) {
	out := make(map[string][]string, len(entries))
	for _, e := range entries {
		meta, err := repository.Read(a.fs, e.LocalPath)
		if err != nil {
			return nil, err
		}
		out[e.Name] = meta.Names()
	}
	return out, nil
}
