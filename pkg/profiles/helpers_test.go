package profiles_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/ocp/pkg/activation"
	"github.com/arthur-debert/ocp/pkg/filesystem"
	"github.com/arthur-debert/ocp/pkg/git"
	"github.com/arthur-debert/ocp/pkg/profiles"
	"github.com/arthur-debert/ocp/pkg/registry"
	"github.com/arthur-debert/ocp/pkg/repository"
	"github.com/arthur-debert/ocp/pkg/testutil"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeRegistry keeps the registry in memory.
type fakeRegistry struct {
	entries      []registry.Entry
	active       string
	versionCheck bool
	setCalls     int
	setErr       error
}

func (r *fakeRegistry) Load() ([]registry.Entry, error) {
	return r.entries, nil
}

func (r *fakeRegistry) Sources() ([]repository.Source, error) {
	sources := make([]repository.Source, len(r.entries))
	for i, e := range r.entries {
		sources[i] = e.Source()
	}
	return sources, nil
}

func (r *fakeRegistry) ActiveProfile() (string, error) {
	return r.active, nil
}

func (r *fakeRegistry) SetActiveProfile(name string) error {
	r.setCalls++
	if r.setErr != nil {
		return r.setErr
	}
	r.active = name
	return nil
}

func (r *fakeRegistry) VersionCheck() (bool, error) {
	return r.versionCheck, nil
}

type mockGit struct {
	mock.Mock
}

func (m *mockGit) Pull(localPath string) error {
	return m.Called(localPath).Error(0)
}

func (m *mockGit) HasLocalChanges(localPath string) (bool, error) {
	args := m.Called(localPath)
	return args.Bool(0), args.Error(1)
}

func (m *mockGit) LocalDiff(localPath string) (string, error) {
	args := m.Called(localPath)
	return args.String(0), args.Error(1)
}

func (m *mockGit) LatestCommit(localPath string) (git.Commit, error) {
	args := m.Called(localPath)
	return args.Get(0).(git.Commit), args.Error(1)
}

func (m *mockGit) DiffersFromUpstream(localPath string) (bool, error) {
	args := m.Called(localPath)
	return args.Bool(0), args.Error(1)
}

func (m *mockGit) CommitsBehindRemote(localPath string) (int, error) {
	args := m.Called(localPath)
	return args.Int(0), args.Error(1)
}

func (m *mockGit) DiscardLocalChanges(localPath string) error {
	return m.Called(localPath).Error(0)
}

func (m *mockGit) CommitLocalChangesAndForcePush(localPath string) error {
	return m.Called(localPath).Error(0)
}

type env struct {
	root     string
	target   string
	cache    string
	backups  string
	work     string
	registry *fakeRegistry
	git      *mockGit
	service  *profiles.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	e := &env{
		root:     root,
		target:   filepath.Join(root, "opencode"),
		cache:    filepath.Join(root, "cache"),
		backups:  filepath.Join(root, "config", "backups"),
		work:     filepath.Join(root, "work"),
		registry: &fakeRegistry{versionCheck: true},
		git:      &mockGit{},
	}
	e.service = profiles.New(profiles.Options{
		Registry:     e.registry,
		Git:          e.git,
		Engine:       activation.NewEngine(filesystem.NewOS(), e.backups, activation.WithClock(func() time.Time { return fixedNow })),
		TargetDir:    e.target,
		CacheDir:     e.cache,
		WorkingDir:   e.work,
		VersionCheck: true,
		Now:          func() time.Time { return fixedNow },
	})
	return e
}

// addRepo registers a repository and returns a builder for its content.
func (e *env) addRepo(t *testing.T, name string) *testutil.RepoBuilder {
	t.Helper()
	path := filepath.Join(e.root, "repositories", name)
	e.registry.entries = append(e.registry.entries, registry.Entry{
		Name:      name,
		URI:       "https://example.com/" + name + ".git",
		LocalPath: path,
	})
	return testutil.NewRepo(t, path)
}

func (e *env) repoPath(name string) string {
	return filepath.Join(e.root, "repositories", name)
}
