package activation_test

import (
	"io/fs"
	"path/filepath"
	"sort"
	"syscall"
	"testing"
	"time"

	stderrors "errors"

	"github.com/arthur-debert/ocp/pkg/activation"
	"github.com/arthur-debert/ocp/pkg/effective"
	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/filesystem"
	"github.com/arthur-debert/ocp/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

type env struct {
	root       string
	target     string
	backupRoot string
}

func newEnv(t *testing.T) env {
	root := t.TempDir()
	return env{
		root:       root,
		target:     filepath.Join(root, "opencode"),
		backupRoot: filepath.Join(root, "backups"),
	}
}

func (e env) engine(fsys filesystem.FS) *activation.Engine {
	return activation.NewEngine(fsys, e.backupRoot, activation.WithClock(func() time.Time { return fixedNow }))
}

// profile writes files under <root>/sources/<name> and returns a linked
// effective profile for them.
func (e env) profile(t *testing.T, name string, files map[string]string) *effective.Profile {
	t.Helper()
	dir := filepath.Join(e.root, "sources", name)
	p := &effective.Profile{Name: name}
	for rel, content := range files {
		src := testutil.CreateFile(t, dir, rel, content)
		p.Files = append(p.Files, effective.File{
			RelativePath: rel,
			LogicalPath:  effective.LogicalPath(rel),
			Source:       src,
		})
	}
	sort.Slice(p.Files, func(i, j int) bool { return p.Files[i].LogicalPath < p.Files[j].LogicalPath })
	return p
}

func TestActivate_LinksIntoEmptyTarget(t *testing.T) {
	e := newEnv(t)
	p := e.profile(t, "base", map[string]string{
		"opencode.json":    `{"a":1}`,
		"agents/review.md": "review",
	})

	res, err := e.engine(filesystem.NewOS()).Activate(p, nil, e.target)
	require.NoError(t, err)

	assert.Equal(t, []string{"agents/review.md", "opencode.json"}, res.Linked)
	assert.Empty(t, res.BackupDir)
	testutil.AssertSymlink(t, filepath.Join(e.target, "opencode.json"), p.Files[1].Source)
	testutil.AssertSymlink(t, filepath.Join(e.target, "agents", "review.md"), p.Files[0].Source)
	testutil.AssertNoFile(t, e.backupRoot)
}

func TestActivate_ReplacesExistingLinksAndBacksUpFiles(t *testing.T) {
	e := newEnv(t)
	old := e.profile(t, "old", map[string]string{"opencode.json": `{"old":true}`})
	next := e.profile(t, "new", map[string]string{
		"opencode.json": `{"new":true}`,
		"AGENTS.md":     "agents",
	})

	_, err := e.engine(filesystem.NewOS()).Activate(old, nil, e.target)
	require.NoError(t, err)
	testutil.CreateFile(t, e.target, "AGENTS.md", "hand written")

	res, err := e.engine(filesystem.NewOS()).Activate(next, old, e.target)
	require.NoError(t, err)

	testutil.AssertSymlink(t, filepath.Join(e.target, "opencode.json"), next.Files[1].Source)
	testutil.AssertSymlink(t, filepath.Join(e.target, "AGENTS.md"), next.Files[0].Source)

	backupDir := filepath.Join(e.backupRoot, "20240102030405")
	assert.Equal(t, backupDir, res.BackupDir)
	assert.Equal(t, []string{"AGENTS.md"}, res.BackedUp)
	testutil.AssertFileContent(t, filepath.Join(backupDir, "AGENTS.md"), "hand written")
}

func TestActivate_RemovesAlternateVariant(t *testing.T) {
	e := newEnv(t)
	old := e.profile(t, "old", map[string]string{"opencode.jsonc": `{}`})
	next := e.profile(t, "new", map[string]string{"opencode.json": `{}`})

	engine := e.engine(filesystem.NewOS())
	_, err := engine.Activate(old, nil, e.target)
	require.NoError(t, err)

	_, err = engine.Activate(next, old, e.target)
	require.NoError(t, err)

	testutil.AssertNoFile(t, filepath.Join(e.target, "opencode.jsonc"))
	testutil.AssertSymlink(t, filepath.Join(e.target, "opencode.json"), next.Files[0].Source)
}

func TestActivate_OrphanCleanup(t *testing.T) {
	tests := []struct {
		name    string
		tamper  func(t *testing.T, e env)
		present bool
		content string
	}{
		{
			name:    "own_link_removed",
			tamper:  func(t *testing.T, e env) {},
			present: false,
		},
		{
			name: "user_file_untouched",
			tamper: func(t *testing.T, e env) {
				path := filepath.Join(e.target, "legacy.json")
				require.NoError(t, filesystem.NewOS().Remove(path))
				testutil.CreateFile(t, e.target, "legacy.json", "user owned")
			},
			present: true,
			content: "user owned",
		},
		{
			name: "relinked_elsewhere_untouched",
			tamper: func(t *testing.T, e env) {
				path := filepath.Join(e.target, "legacy.json")
				require.NoError(t, filesystem.NewOS().Remove(path))
				other := testutil.CreateFile(t, e.root, "elsewhere.json", "elsewhere")
				testutil.CreateSymlink(t, other, path)
			},
			present: true,
			content: "elsewhere",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			old := e.profile(t, "old", map[string]string{
				"legacy.json":   `{"legacy":true}`,
				"opencode.json": `{}`,
			})
			next := e.profile(t, "new", map[string]string{"opencode.json": `{}`})

			engine := e.engine(filesystem.NewOS())
			_, err := engine.Activate(old, nil, e.target)
			require.NoError(t, err)
			tt.tamper(t, e)

			res, err := engine.Activate(next, old, e.target)
			require.NoError(t, err)

			legacy := filepath.Join(e.target, "legacy.json")
			if tt.present {
				testutil.AssertFileContent(t, legacy, tt.content)
				assert.Empty(t, res.Removed)
			} else {
				testutil.AssertNoFile(t, legacy)
				assert.Equal(t, []string{"legacy.json"}, res.Removed)
			}
		})
	}
}

func TestActivate_RollbackRestoresTarget(t *testing.T) {
	e := newEnv(t)
	old := e.profile(t, "old", map[string]string{
		"a.json": `{"a":1}`,
		"b.json": `{"b":1}`,
		"c.json": `{"c":1}`,
		"d.json": `{"d":1}`,
		"e.json": `{"e":1}`,
	})
	_, err := e.engine(filesystem.NewOS()).Activate(old, nil, e.target)
	require.NoError(t, err)
	testutil.CreateFile(t, e.target, "aa.md", "mine")

	next := e.profile(t, "new", map[string]string{
		"a.json":      `{"a":2}`,
		"aa.md":       "theirs",
		"agents/x.md": "x",
		"b.md":        "b",
	})

	before := testutil.TakeSnapshot(t, e.target)
	require.Len(t, before, 6)

	faulty := testutil.NewFaultyFS(filesystem.NewOS()).FailNth(testutil.OpSymlink, 3, syscall.EACCES)
	res, err := e.engine(faulty).Activate(next, old, e.target)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.IsErrorCode(err, errors.ErrActivationFailed))
	assert.True(t, stderrors.Is(err, syscall.EACCES))
	assert.Empty(t, activation.RollbackErrors(err))

	after := testutil.TakeSnapshot(t, e.target)
	assert.Equal(t, before, after, "before:\n%s\nafter:\n%s", before, after)
	testutil.AssertNoFile(t, filepath.Join(e.backupRoot, "20240102030405", "aa.md"))
}

func TestActivate_RollbackOfFreshTargetRemovesCreatedDirs(t *testing.T) {
	e := newEnv(t)
	next := e.profile(t, "new", map[string]string{
		"one.md":          "1",
		"nested/two.md":   "2",
		"nested/three.md": "3",
	})

	faulty := testutil.NewFaultyFS(filesystem.NewOS()).FailNth(testutil.OpSymlink, 2, syscall.EIO)
	_, err := e.engine(faulty).Activate(next, nil, e.target)
	require.Error(t, err)

	testutil.AssertNoFile(t, e.target)
}

func TestActivate_RollbackRestoresLinkReplacedByDirectory(t *testing.T) {
	e := newEnv(t)
	old := e.profile(t, "old", map[string]string{"agents": "old agents"})
	_, err := e.engine(filesystem.NewOS()).Activate(old, nil, e.target)
	require.NoError(t, err)
	before := testutil.TakeSnapshot(t, e.target)
	require.Equal(t, "symlink", before["agents"].Type)

	next := e.profile(t, "new", map[string]string{
		"agents/x.md": "x",
		"b.md":        "b",
	})

	faulty := testutil.NewFaultyFS(filesystem.NewOS()).FailNth(testutil.OpSymlink, 2, syscall.EACCES)
	_, err = e.engine(faulty).Activate(next, old, e.target)
	require.Error(t, err)
	assert.Empty(t, activation.RollbackErrors(err))

	after := testutil.TakeSnapshot(t, e.target)
	assert.Equal(t, before, after, "before:\n%s\nafter:\n%s", before, after)
}

func TestActivate_RollbackRemovesDirsOfPartialMkdir(t *testing.T) {
	e := newEnv(t)
	next := e.profile(t, "new", map[string]string{"deep/er/x.md": "x"})

	// target, deep, then er
	faulty := testutil.NewFaultyFS(filesystem.NewOS()).FailNth(testutil.OpMkdir, 3, syscall.EIO)
	_, err := e.engine(faulty).Activate(next, nil, e.target)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, syscall.EIO))
	assert.Empty(t, activation.RollbackErrors(err))

	testutil.AssertNoFile(t, e.target)
}

func TestActivate_MissingBackupIsARollbackFailure(t *testing.T) {
	e := newEnv(t)
	testutil.CreateFile(t, e.target, "a.md", "original")
	next := e.profile(t, "new", map[string]string{"a.md": "a", "b.md": "b"})

	backup := filepath.Join(e.backupRoot, "20240102030405", "a.md")
	faulty := testutil.NewFaultyFS(filesystem.NewOS()).
		FailNth(testutil.OpSymlink, 2, syscall.EACCES).
		FailPath(testutil.OpLstat, backup, fs.ErrNotExist)

	_, err := e.engine(faulty).Activate(next, nil, e.target)
	require.Error(t, err)

	rollbackErrs := activation.RollbackErrors(err)
	require.Len(t, rollbackErrs, 1)
	assert.Contains(t, rollbackErrs[0].Error(), "restore backup")
	assert.Contains(t, rollbackErrs[0].Error(), "is missing")
	assert.True(t, errors.IsErrorCode(rollbackErrs[0], errors.ErrFileAccess))
	testutil.AssertFileContent(t, backup, "original")
}

func TestActivate_RollbackFailuresAreCollected(t *testing.T) {
	e := newEnv(t)
	testutil.CreateFile(t, e.target, "a.md", "original")
	next := e.profile(t, "new", map[string]string{"a.md": "a", "b.md": "b"})

	backup := filepath.Join(e.backupRoot, "20240102030405", "a.md")
	faulty := testutil.NewFaultyFS(filesystem.NewOS()).
		FailNth(testutil.OpSymlink, 2, syscall.EACCES).
		FailPath(testutil.OpRename, backup, syscall.EIO)

	_, err := e.engine(faulty).Activate(next, nil, e.target)
	require.Error(t, err)

	rollbackErrs := activation.RollbackErrors(err)
	require.Len(t, rollbackErrs, 1)
	assert.True(t, stderrors.Is(rollbackErrs[0], syscall.EIO))
	assert.Contains(t, rollbackErrs[0].Error(), "restore backup")
	assert.Contains(t, err.Error(), "1 additional failure(s)")

	// The original content is still safe in the backup directory.
	testutil.AssertFileContent(t, backup, "original")
}

func TestActivate_RejectsConflictingVariants(t *testing.T) {
	e := newEnv(t)
	next := e.profile(t, "new", map[string]string{
		"opencode.json":  `{}`,
		"opencode.jsonc": `{}`,
	})

	faulty := testutil.NewFaultyFS(filesystem.NewOS())
	_, err := e.engine(faulty).Activate(next, nil, e.target)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConflictingVariant))
	assert.Zero(t, faulty.Calls(testutil.OpLstat))
	testutil.AssertNoFile(t, e.target)
}

func TestActivate_NilProfile(t *testing.T) {
	e := newEnv(t)
	_, err := e.engine(filesystem.NewOS()).Activate(nil, nil, e.target)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestActivate_Reactivation(t *testing.T) {
	e := newEnv(t)
	p := e.profile(t, "base", map[string]string{"opencode.json": `{}`})
	engine := e.engine(filesystem.NewOS())

	_, err := engine.Activate(p, nil, e.target)
	require.NoError(t, err)
	before := testutil.TakeSnapshot(t, e.target)

	res, err := engine.Activate(p, p, e.target)
	require.NoError(t, err)
	assert.Empty(t, res.BackedUp)
	assert.Equal(t, before, testutil.TakeSnapshot(t, e.target))
}

func TestJournalRollbackOrder(t *testing.T) {
	var j activation.Journal
	j.Record(activation.SwitchState{Target: "/t/a"})
	j.Record(activation.SwitchState{Target: "/t/agents", CreatedDir: true})
	j.Record(activation.SwitchState{Target: "/t/agents/x.md", Backup: "/b/agents/x.md"})
	j.Record(activation.SwitchState{Target: "/t/b", PreviousLink: "/src/b"})
	j.Record(activation.SwitchState{Target: "/t/b", CreatedDir: true})

	var order []string
	for _, s := range j.RollbackOrder() {
		order = append(order, s.Target+" "+s.Restores())
	}
	assert.Equal(t, []string{
		"/t/b remove directory",
		"/t/b restore symlink",
		"/t/agents/x.md restore backup",
		"/t/agents remove directory",
		"/t/a delete",
	}, order)
	assert.Equal(t, "/t/a", j[0].Target, "journal itself is not reordered")
}
