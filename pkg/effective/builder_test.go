package effective_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ocp/pkg/effective"
	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/jsonvalue"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	repoRoot  = "/repos/team"
	cacheRoot = "/cache"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
}

func chain(names ...string) lineage.Lineage {
	l := make(lineage.Lineage, len(names))
	for i, n := range names {
		l[i] = lineage.Definition{Name: n}
		if i > 0 {
			l[i].Parent = names[i-1]
		}
	}
	return l
}

func rootsFor(names ...string) effective.Roots {
	roots := effective.Roots{}
	for _, n := range names {
		roots[n] = filepath.Join(repoRoot, n)
	}
	return roots
}

func mustParse(t *testing.T, src string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(src))
	require.NoError(t, err)
	return v
}

func TestLogicalPath(t *testing.T) {
	tests := []struct {
		in, want, alt string
	}{
		{"opencode.json", "opencode.json", "opencode.jsonc"},
		{"opencode.jsonc", "opencode.json", "opencode.json"},
		{"agents/review.jsonc", "agents/review.json", "agents/review.json"},
		{"AGENTS.md", "AGENTS.md", ""},
		{"./nested//x.jsonc", "nested/x.json", "./nested//x.json"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, effective.LogicalPath(tt.in))
			assert.Equal(t, tt.alt, effective.AlternateVariant(tt.in))
		})
	}
}

func TestBuild_MergesAlongLineage(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		repoRoot + "/base/opencode.json":  `{"theme":"dark","plugin":["x"]}`,
		repoRoot + "/child/opencode.json": `{"plugin":["x","y"]}`,
	})

	b := effective.NewBuilder(fs, cacheRoot)
	p, err := b.Build(chain("base", "child"), rootsFor("base", "child"))
	require.NoError(t, err)

	require.Len(t, p.Files, 1)
	f := p.Files[0]
	assert.Equal(t, "child", p.Name)
	assert.True(t, f.Merged)
	assert.Equal(t, "opencode.json", f.LogicalPath)
	assert.Equal(t, filepath.Join(cacheRoot, "resolved-profiles", "child", "opencode.json"), f.Source)

	want := mustParse(t, `{"theme":"dark","plugin":["x","y"]}`)
	assert.True(t, jsonvalue.Equal(want, f.Value))

	data, err := afero.ReadFile(fs, f.Source)
	require.NoError(t, err)
	onDisk := mustParse(t, string(data))
	assert.True(t, jsonvalue.Equal(want, onDisk), "materialised: %s", data)
	assert.Equal(t, []string{"theme", "plugin"}, onDisk.Map().Keys())
}

func TestBuild_JSONCMergeStripsComments(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		repoRoot + "/base/opencode.jsonc": "{\n  // shared\n  \"url\": \"http://example.com\",\n  \"a\": {\"b\": 1}\n}",
		repoRoot + "/mid/opencode.jsonc":  `{"a": {"c": 2}} /* mid */`,
		repoRoot + "/leaf/opencode.jsonc": `{"a": {"b": 3}}`,
	})

	p, err := effective.NewBuilder(fs, cacheRoot).
		Build(chain("base", "mid", "leaf"), rootsFor("base", "mid", "leaf"))
	require.NoError(t, err)

	f, ok := p.Lookup("opencode.json")
	require.True(t, ok)
	assert.Equal(t, "opencode.jsonc", f.RelativePath)
	assert.Equal(t, filepath.Join(cacheRoot, "resolved-profiles", "leaf", "opencode.jsonc"), f.Source)
	assert.True(t, jsonvalue.Equal(
		mustParse(t, `{"url":"http://example.com","a":{"b":3,"c":2}}`), f.Value))
}

func TestBuild_SingleOccurrenceIsLinked(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		repoRoot + "/base/opencode.json":    `{"theme":"dark"}`,
		repoRoot + "/base/AGENTS.md":        "base agents",
		repoRoot + "/child/AGENTS.md":       "child agents",
		repoRoot + "/child/prompts/x.jsonc": `{"p": 1}`,
	})

	p, err := effective.NewBuilder(fs, cacheRoot).
		Build(chain("base", "child"), rootsFor("base", "child"))
	require.NoError(t, err)

	assert.Equal(t, []string{"AGENTS.md", "opencode.json", "prompts/x.jsonc"}, p.Paths())
	for _, f := range p.Files {
		assert.False(t, f.Merged, f.RelativePath)
	}

	agents, _ := p.Lookup("AGENTS.md")
	assert.Equal(t, filepath.Join(repoRoot, "child", "AGENTS.md"), agents.Source)
	config, _ := p.Lookup("opencode.json")
	assert.Equal(t, filepath.Join(repoRoot, "base", "opencode.json"), config.Source)

	// Nothing merged, nothing materialised.
	exists, err := afero.Exists(fs, filepath.Join(cacheRoot, "resolved-profiles", "child", "opencode.json"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBuild_JSONReplacesNonJSONAndViceVersa(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		repoRoot + "/base/notes":  "plain",
		repoRoot + "/child/notes": "override",
	})

	p, err := effective.NewBuilder(fs, cacheRoot).
		Build(chain("base", "child"), rootsFor("base", "child"))
	require.NoError(t, err)

	f, ok := p.Lookup("notes")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(repoRoot, "child", "notes"), f.Source)
	assert.False(t, f.Merged)
}

func TestBuild_WithoutMaterialize(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		repoRoot + "/base/opencode.json":                  `{"a":1}`,
		repoRoot + "/child/opencode.json":                 `{"b":2}`,
		cacheRoot + "/resolved-profiles/child/stale.json": `{}`,
	})

	b := effective.NewBuilder(fs, cacheRoot, effective.WithoutMaterialize())
	p, err := b.Build(chain("base", "child"), rootsFor("base", "child"))
	require.NoError(t, err)

	f, _ := p.Lookup("opencode.json")
	assert.True(t, f.Merged)
	assert.Equal(t, filepath.Join(b.ResolvedDir("child"), "opencode.json"), f.Source)

	exists, _ := afero.Exists(fs, f.Source)
	assert.False(t, exists)
	stale, _ := afero.Exists(fs, cacheRoot+"/resolved-profiles/child/stale.json")
	assert.True(t, stale, "cache must not be touched")
}

func TestBuild_MaterializeClearsStaleFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		repoRoot + "/base/opencode.json":                  `{"a":1}`,
		repoRoot + "/child/opencode.json":                 `{"b":2}`,
		cacheRoot + "/resolved-profiles/child/stale.json": `{}`,
	})

	_, err := effective.NewBuilder(fs, cacheRoot, effective.WithIndent("\t")).
		Build(chain("base", "child"), rootsFor("base", "child"))
	require.NoError(t, err)

	stale, _ := afero.Exists(fs, cacheRoot+"/resolved-profiles/child/stale.json")
	assert.False(t, stale)

	data, err := afero.ReadFile(fs, cacheRoot+"/resolved-profiles/child/opencode.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), "\t\"a\": 1")
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  errors.ErrorCode
		msg   string
	}{
		{
			name: "extension_mismatch",
			files: map[string]string{
				repoRoot + "/base/opencode.jsonc": `{"a":1}`,
				repoRoot + "/child/opencode.json": `{"b":2}`,
			},
			code: errors.ErrExtensionMismatch,
			msg:  "found `opencode.json` but parent defines `opencode.jsonc`",
		},
		{
			name: "conflicting_variant",
			files: map[string]string{
				repoRoot + "/base/opencode.json":   `{}`,
				repoRoot + "/child/opencode.json":  `{}`,
				repoRoot + "/child/opencode.jsonc": `{}`,
			},
			code: errors.ErrConflictingVariant,
			msg:  "profile `child` contains conflicting config file variants for `opencode.json`",
		},
		{
			name: "malformed_child",
			files: map[string]string{
				repoRoot + "/base/opencode.json":  `{"a":1}`,
				repoRoot + "/child/opencode.json": `{"a":`,
			},
			code: errors.ErrMalformedConfigFile,
			msg:  "child/opencode.json",
		},
		{
			name: "missing_directory",
			files: map[string]string{
				repoRoot + "/base/opencode.json": `{}`,
			},
			code: errors.ErrProfileDirectoryMissing,
			msg:  "profile directory does not exist: " + filepath.Join(repoRoot, "child"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFiles(t, fs, tt.files)

			p, err := effective.NewBuilder(fs, cacheRoot).
				Build(chain("base", "child"), rootsFor("base", "child"))
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestBuild_ExtensionMismatchDetails(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		repoRoot + "/base/opencode.jsonc": `{}`,
		repoRoot + "/child/opencode.json": `{}`,
	})

	_, err := effective.NewBuilder(fs, cacheRoot).
		Build(chain("base", "child"), rootsFor("base", "child"))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, "child", details["profile"])
	assert.Equal(t, "opencode.json", details["path"])
	assert.Equal(t, ".jsonc", details["expected"])
	assert.Equal(t, ".json", details["found"])
}

func TestBuild_EmptyLineage(t *testing.T) {
	_, err := effective.NewBuilder(afero.NewMemMapFs(), cacheRoot).Build(nil, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestBuild_SkipsSymlinksOnDisk(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base")
	require.NoError(t, os.MkdirAll(base, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "real.md"), []byte("real"), 0644))
	require.NoError(t, os.Symlink(filepath.Join(base, "real.md"), filepath.Join(base, "link.md")))

	b := effective.NewBuilder(afero.NewOsFs(), filepath.Join(dir, "cache"))
	p, err := b.Build(chain("base"), effective.Roots{"base": base})
	require.NoError(t, err)
	assert.Equal(t, []string{"real.md"}, p.Paths())
}
