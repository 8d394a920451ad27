package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/filesystem"
	"github.com/arthur-debert/ocp/pkg/registry"
	"github.com/arthur-debert/ocp/pkg/repository"
	"github.com/arthur-debert/ocp/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type storeEnv struct {
	dir      string
	path     string
	reposDir string
	git      *mockGit
	store    *registry.Store
}

func newStoreEnv(t *testing.T) storeEnv {
	t.Helper()
	dir := t.TempDir()
	env := storeEnv{
		dir:      dir,
		path:     filepath.Join(dir, "config", "config.json"),
		reposDir: filepath.Join(dir, "cache", "repositories"),
		git:      &mockGit{},
	}
	env.store = registry.NewStore(filesystem.NewOS(), env.path, env.reposDir, env.git)
	return env
}

func (e storeEnv) writeRegistry(t *testing.T, content string) {
	t.Helper()
	testutil.CreateFile(t, filepath.Dir(e.path), filepath.Base(e.path), content)
}

func (e storeEnv) registry(t *testing.T) string {
	t.Helper()
	return testutil.ReadFile(t, e.path)
}

func TestStore_LoadMissingFile(t *testing.T) {
	env := newStoreEnv(t)

	entries, err := env.store.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)

	active, err := env.store.ActiveProfile()
	require.NoError(t, err)
	assert.Equal(t, "", active)

	check, err := env.store.VersionCheck()
	require.NoError(t, err)
	assert.True(t, check)
}

func TestStore_LoadNormalizesEntries(t *testing.T) {
	env := newStoreEnv(t)
	env.writeRegistry(t, `{
  "repositories": [
    {"name": "", "uri": "git@github.com:acme/profiles.git", "localPath": "/elsewhere"},
    {"name": "mine", "uri": "https://example.com/me/stuff.git"},
    {"name": "blank", "uri": "   "}
  ]
}`)

	entries, err := env.store.Load()
	require.NoError(t, err)
	assert.Equal(t, []registry.Entry{
		{Name: "acme-profiles", URI: "git@github.com:acme/profiles.git", LocalPath: filepath.Join(env.reposDir, "acme-profiles")},
		{Name: "mine", URI: "https://example.com/me/stuff.git", LocalPath: filepath.Join(env.reposDir, "mine")},
	}, entries)

	sources, err := env.store.Sources()
	require.NoError(t, err)
	assert.Equal(t, repository.Source{Name: "mine", Path: filepath.Join(env.reposDir, "mine")}, sources[1])
}

func TestStore_LoadInvalidJSON(t *testing.T) {
	env := newStoreEnv(t)
	env.writeRegistry(t, `{"repositories": [`)

	_, err := env.store.Load()
	assert.True(t, errors.IsErrorCode(err, errors.ErrRegistryRead))
}

func TestStore_ActiveProfile(t *testing.T) {
	env := newStoreEnv(t)
	env.writeRegistry(t, `{"config":{"profileVersionCheck":false,"theme":"dark"},"repositories":[],"extra":1}`)

	require.NoError(t, env.store.SetActiveProfile("work"))
	active, err := env.store.ActiveProfile()
	require.NoError(t, err)
	assert.Equal(t, "work", active)

	content := env.registry(t)
	assert.Equal(t, "dark", gjson.Get(content, "config.theme").String(), "unknown keys survive")
	assert.Equal(t, int64(1), gjson.Get(content, "extra").Int())

	check, err := env.store.VersionCheck()
	require.NoError(t, err)
	assert.False(t, check)

	require.NoError(t, env.store.SetActiveProfile(""))
	active, err = env.store.ActiveProfile()
	require.NoError(t, err)
	assert.Equal(t, "", active)
	assert.False(t, gjson.Get(env.registry(t), "config.activeProfile").Exists())
}

func TestStore_Add(t *testing.T) {
	env := newStoreEnv(t)
	uri := "https://github.com/acme/profiles.git"
	localPath := filepath.Join(env.reposDir, "acme-profiles")
	env.git.On("Clone", uri, localPath).Return(nil).Once()

	entry, err := env.store.Add(uri)
	require.NoError(t, err)
	assert.Equal(t, registry.Entry{Name: "acme-profiles", URI: uri, LocalPath: localPath}, entry)
	env.git.AssertExpectations(t)

	content := env.registry(t)
	assert.Equal(t, "acme-profiles", gjson.Get(content, "repositories.0.name").String())
	assert.Equal(t, uri, gjson.Get(content, "repositories.0.uri").String())
	testutil.AssertNoFile(t, env.path+".tmp")
}

func TestStore_AddClearsStaleClone(t *testing.T) {
	env := newStoreEnv(t)
	uri := "https://github.com/acme/profiles.git"
	localPath := filepath.Join(env.reposDir, "acme-profiles")
	testutil.CreateFile(t, localPath, "stale.txt", "old")
	env.git.On("Clone", uri, localPath).Return(nil).Once()

	_, err := env.store.Add(uri)
	require.NoError(t, err)
	testutil.AssertNoFile(t, filepath.Join(localPath, "stale.txt"))
}

func TestStore_AddRejectsDuplicates(t *testing.T) {
	env := newStoreEnv(t)
	env.writeRegistry(t, `{"repositories":[{"name":"acme-profiles","uri":"https://github.com/acme/profiles.git"}]}`)

	tests := []struct {
		name string
		uri  string
	}{
		{name: "same_uri", uri: "https://github.com/acme/profiles.git"},
		{name: "same_name", uri: "git@gitlab.com:acme/profiles.git"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.store.Add(tt.uri)
			assert.True(t, errors.IsErrorCode(err, errors.ErrRepositoryExists))
		})
	}
	env.git.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything)
}

func TestStore_AddInvalidInput(t *testing.T) {
	env := newStoreEnv(t)

	for _, uri := range []string{"", "  ", "https://github.com"} {
		_, err := env.store.Add(uri)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), uri)
	}
}

func TestStore_AddCloneFailureDoesNotPersist(t *testing.T) {
	env := newStoreEnv(t)
	uri := "https://github.com/acme/profiles.git"
	env.git.On("Clone", uri, mock.Anything).Return(errors.New(errors.ErrGit, "boom")).Once()

	_, err := env.store.Add(uri)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGit))
	testutil.AssertNoFile(t, env.path)
}

func TestStore_Delete(t *testing.T) {
	env := newStoreEnv(t)
	env.writeRegistry(t, `{"config":{"activeProfile":"work"},"repositories":[
		{"name":"one","uri":"https://example.com/one.git"},
		{"name":"two","uri":"https://example.com/two.git"}]}`)
	clone := filepath.Join(env.reposDir, "one")
	testutil.CreateFile(t, clone, "repository.json", `{"profiles":[]}`)

	deleted, err := env.store.Delete("one")
	require.NoError(t, err)
	assert.Equal(t, "one", deleted.Name)
	testutil.AssertNoFile(t, clone)

	entries, err := env.store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "two", entries[0].Name)

	active, err := env.store.ActiveProfile()
	require.NoError(t, err)
	assert.Equal(t, "work", active)
}

func TestStore_DeleteUnknown(t *testing.T) {
	env := newStoreEnv(t)

	_, err := env.store.Delete("ghost")
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepositoryNotFound))
	assert.Equal(t, "ghost", errors.GetErrorDetails(err)["repository"])
}

func TestStore_Create(t *testing.T) {
	env := newStoreEnv(t)
	work := filepath.Join(env.dir, "work")
	require.NoError(t, os.MkdirAll(work, 0755))
	repoPath := filepath.Join(work, "my-profiles")
	env.git.On("Init", repoPath).Return(nil).Once()

	got, err := env.store.Create(work, "my-profiles", "default")
	require.NoError(t, err)
	assert.Equal(t, repoPath, got)
	env.git.AssertExpectations(t)

	assert.True(t, testutil.DirExists(t, filepath.Join(repoPath, "default")))
	meta, err := repository.Read(filesystem.NewOS(), repoPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, meta.Names())
}

func TestStore_CreateWithoutProfile(t *testing.T) {
	env := newStoreEnv(t)
	work := t.TempDir()
	repoPath := filepath.Join(work, "bare")
	env.git.On("Init", repoPath).Return(nil).Once()

	_, err := env.store.Create(work, "bare", "")
	require.NoError(t, err)
	testutil.AssertFileContent(t, filepath.Join(repoPath, repository.MetadataFile), "{\n  \"profiles\": []\n}\n")
}

func TestStore_CreateExistingDirectory(t *testing.T) {
	env := newStoreEnv(t)
	work := t.TempDir()
	testutil.CreateDir(t, work, "taken")

	_, err := env.store.Create(work, "taken", "default")
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepositoryExists))
	env.git.AssertNotCalled(t, "Init", mock.Anything)
}
