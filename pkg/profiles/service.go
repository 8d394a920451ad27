package profiles

import (
	"strings"
	"time"

	"github.com/arthur-debert/ocp/pkg/activation"
	"github.com/arthur-debert/ocp/pkg/effective"
	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/filesystem"
	"github.com/arthur-debert/ocp/pkg/git"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/arthur-debert/ocp/pkg/logging"
	"github.com/arthur-debert/ocp/pkg/registry"
	"github.com/arthur-debert/ocp/pkg/repository"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Registry is the part of the registry store the service reads and writes.
type Registry interface {
	Load() ([]registry.Entry, error)
	Sources() ([]repository.Source, error)
	ActiveProfile() (string, error)
	SetActiveProfile(name string) error
	VersionCheck() (bool, error)
}

// VersionControl is the set of git operations the service needs.
type VersionControl interface {
	Pull(localPath string) error
	HasLocalChanges(localPath string) (bool, error)
	LocalDiff(localPath string) (string, error)
	LatestCommit(localPath string) (git.Commit, error)
	DiffersFromUpstream(localPath string) (bool, error)
	CommitsBehindRemote(localPath string) (int, error)
	DiscardLocalChanges(localPath string) error
	CommitLocalChangesAndForcePush(localPath string) error
}

// Options configures a Service.
type Options struct {
	// Registry lists repositories and records the active profile (required)
	Registry Registry

	// Git runs version control operations (required)
	Git VersionControl

	// Engine switches the target directory (required)
	Engine *activation.Engine

	// TargetDir is the directory profiles are linked into (required)
	TargetDir string

	// CacheDir is the cache root; merged files are materialised below it (required)
	CacheDir string

	// WorkingDir is the repository Create adds profiles to
	WorkingDir string

	// Indent is used for materialised JSON files
	Indent string

	// VersionCheck enables remote update checks in List and UpdateHints.
	// The registry can still turn them off.
	VersionCheck bool

	// FileSystem to use (defaults to OS filesystem)
	FileSystem filesystem.FS

	// SourceFS reads profile directories and writes the cache (defaults to afero.NewOsFs)
	SourceFS afero.Fs

	// Now returns the current time (defaults to time.Now)
	Now func() time.Time
}

// Service performs profile operations.
type Service struct {
	registry     Registry
	git          VersionControl
	engine       *activation.Engine
	fs           filesystem.FS
	builder      *effective.Builder
	dryBuilder   *effective.Builder
	targetDir    string
	workingDir   string
	versionCheck bool
	now          func() time.Time
	logger       zerolog.Logger
}

// New returns a Service for opts.
func New(opts Options) *Service {
	if opts.FileSystem == nil {
		opts.FileSystem = filesystem.NewOS()
	}
	if opts.SourceFS == nil {
		opts.SourceFS = afero.NewOsFs()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Indent == "" {
		opts.Indent = effective.DefaultIndent
	}

	return &Service{
		registry:     opts.Registry,
		git:          opts.Git,
		engine:       opts.Engine,
		fs:           opts.FileSystem,
		builder:      effective.NewBuilder(opts.SourceFS, opts.CacheDir, effective.WithIndent(opts.Indent)),
		dryBuilder:   effective.NewBuilder(opts.SourceFS, opts.CacheDir, effective.WithoutMaterialize()),
		targetDir:    opts.TargetDir,
		workingDir:   opts.WorkingDir,
		versionCheck: opts.VersionCheck,
		now:          opts.Now,
		logger:       logging.GetLogger("profiles"),
	}
}

// TargetDir returns the directory profiles are linked into.
func (s *Service) TargetDir() string {
	return s.targetDir
}

func (s *Service) discover() (*repository.Discovery, error) {
	sources, err := s.registry.Sources()
	if err != nil {
		return nil, err
	}
	return repository.Discover(s.fs, sources)
}

func (s *Service) activeName() (string, error) {
	name, err := s.registry.ActiveProfile()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

// versionChecksEnabled combines the configuration switch with the
// registry's profileVersionCheck flag.
func (s *Service) versionChecksEnabled() (bool, error) {
	if !s.versionCheck {
		return false, nil
	}
	return s.registry.VersionCheck()
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New(errors.ErrInvalidInput, "profile name is required")
	}
	return name, nil
}

func unknownProfile(name string) error {
	return errors.Newf(errors.ErrUnknownProfile, "profile `%s` was not found", name).
		WithDetail("profile", name)
}

func (s *Service) resolve(name string, d *repository.Discovery) (lineage.Lineage, error) {
	if _, ok := d.Graph[name]; !ok {
		return nil, unknownProfile(name)
	}
	return lineage.Resolve(name, d.Graph)
}
