// Package effective computes the file set a profile activates.
//
// Files are collected along the lineage from root to leaf. Non-JSON files
// are replaced by descendants; JSON and JSONC files sharing a logical path
// are deep merged and the result is materialised in the cache so that it
// can be linked like any other file.
package effective

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/jsonc"
	"github.com/arthur-debert/ocp/pkg/jsonvalue"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/arthur-debert/ocp/pkg/logging"
	"github.com/spf13/afero"
)

// ResolvedDirName is the cache subdirectory holding materialised profiles.
const ResolvedDirName = "resolved-profiles"

// DefaultIndent is used for materialised files when no indent is configured.
const DefaultIndent = "  "

// File is one entry of an effective profile. A linked file points at its
// source inside a profile directory; a merged file carries the merged value
// and Source points at its materialised copy.
type File struct {
	RelativePath string
	LogicalPath  string
	Source       string
	Merged       bool
	Value        jsonvalue.Value
}

// Profile is the effective file set of a profile, ordered by logical path.
type Profile struct {
	Name  string
	Files []File
}

// Lookup finds a file by logical path.
func (p *Profile) Lookup(logicalPath string) (File, bool) {
	if p == nil {
		return File{}, false
	}
	i := sort.Search(len(p.Files), func(i int) bool {
		return p.Files[i].LogicalPath >= logicalPath
	})
	if i < len(p.Files) && p.Files[i].LogicalPath == logicalPath {
		return p.Files[i], true
	}
	return File{}, false
}

// Roots maps profile names to their directories.
type Roots map[string]string

// Builder computes effective profiles.
type Builder struct {
	fs          afero.Fs
	cacheRoot   string
	indent      string
	materialize bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithIndent sets the indent used for materialised JSON.
func WithIndent(indent string) Option {
	return func(b *Builder) {
		b.indent = indent
	}
}

// WithoutMaterialize disables writing merged files to the cache. Merged
// entries still report the cache path they would have.
func WithoutMaterialize() Option {
	return func(b *Builder) {
		b.materialize = false
	}
}

// NewBuilder returns a Builder reading profiles from fs and materialising
// merged files below cacheRoot.
func NewBuilder(fs afero.Fs, cacheRoot string, opts ...Option) *Builder {
	b := &Builder{
		fs:          fs,
		cacheRoot:   cacheRoot,
		indent:      DefaultIndent,
		materialize: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ResolvedDir returns the cache directory for the named profile.
func (b *Builder) ResolvedDir(profile string) string {
	return filepath.Join(b.cacheRoot, ResolvedDirName, profile)
}

type entry struct {
	relativePath string
	source       string
	mergeable    bool
	merged       bool
	value        jsonvalue.Value
}

// Build computes the effective profile of the last member of l. roots must
// hold a directory for every lineage member.
func (b *Builder) Build(l lineage.Lineage, roots Roots) (*Profile, error) {
	if len(l) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "lineage is empty")
	}

	logger := logging.GetLogger("effective")
	name := l.Leaf().Name
	done := logging.LogOperationStart(logger, "build effective profile "+name)
	defer done()

	table := make(map[string]*entry)

	for _, def := range l {
		root := roots[def.Name]
		isDir, err := afero.DirExists(b.fs, root)
		if err != nil || root == "" || !isDir {
			return nil, errors.Newf(errors.ErrProfileDirectoryMissing,
				"profile directory does not exist: %s", root).
				WithDetail("profile", def.Name).
				WithDetail("path", root)
		}

		files, err := b.profileFiles(root)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to list profile files from %s", root).
				WithDetail("profile", def.Name)
		}

		seen := make(map[string]bool, len(files))
		for _, rel := range files {
			logical := LogicalPath(rel)
			if seen[logical] {
				return nil, errors.Newf(errors.ErrConflictingVariant,
					"profile `%s` contains conflicting config file variants for `%s`", def.Name, logical).
					WithDetail("profile", def.Name).
					WithDetail("path", logical)
			}
			seen[logical] = true

			source := filepath.Join(root, filepath.FromSlash(rel))
			mergeable := IsMergeable(rel)
			existing, ok := table[logical]

			if !ok || !existing.mergeable || !mergeable {
				logger.Trace().
					Str("profile", def.Name).
					Str("file", rel).
					Msg("Taking file")
				table[logical] = &entry{relativePath: rel, source: source, mergeable: mergeable}
				continue
			}

			expected, found := extensionOf(existing.relativePath), extensionOf(rel)
			if expected != found {
				return nil, errors.Newf(errors.ErrExtensionMismatch,
					"profile `%s` must use the same extension as its parent for `%s`: found `%s` but parent defines `%s`",
					def.Name, logical, filepath.Base(rel), filepath.Base(existing.relativePath)).
					WithDetails(map[string]interface{}{
						"profile":  def.Name,
						"path":     logical,
						"expected": expected,
						"found":    found,
					})
			}

			parent := existing.value
			if !existing.merged {
				parent, err = jsonc.DecodeFile(b.fs, existing.source)
				if err != nil {
					return nil, err
				}
			}
			child, err := jsonc.DecodeFile(b.fs, source)
			if err != nil {
				return nil, err
			}

			logger.Trace().
				Str("profile", def.Name).
				Str("file", rel).
				Msg("Merging file over parent")
			table[logical] = &entry{
				relativePath: rel,
				source:       source,
				mergeable:    true,
				merged:       true,
				value:        jsonvalue.Merge(parent, child),
			}
		}
	}

	profile := &Profile{Name: name, Files: make([]File, 0, len(table))}
	resolvedDir := b.ResolvedDir(name)

	if b.materialize {
		if err := b.fs.RemoveAll(resolvedDir); err != nil {
			return nil, errors.Wrapf(err, errors.ErrMaterialize,
				"failed to clear resolved profile directory %s", resolvedDir).
				WithDetail("profile", name)
		}
	}

	for logical, e := range table {
		f := File{
			RelativePath: e.relativePath,
			LogicalPath:  logical,
			Source:       e.source,
		}
		if e.merged {
			f.Merged = true
			f.Value = e.value
			f.Source = filepath.Join(resolvedDir, filepath.FromSlash(e.relativePath))
			if b.materialize {
				if err := b.writeMerged(f); err != nil {
					return nil, err
				}
			}
		}
		profile.Files = append(profile.Files, f)
	}

	sort.Slice(profile.Files, func(i, j int) bool {
		return profile.Files[i].LogicalPath < profile.Files[j].LogicalPath
	})

	logger.Debug().
		Str("profile", name).
		Int("files", len(profile.Files)).
		Msg("Effective profile built")
	return profile, nil
}

func (b *Builder) writeMerged(f File) error {
	if err := b.fs.MkdirAll(filepath.Dir(f.Source), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrMaterialize,
			"failed to materialize merged profile file %s", f.RelativePath).
			WithDetail("path", f.Source)
	}
	data := jsonvalue.MarshalIndent(f.Value, b.indent)
	if err := afero.WriteFile(b.fs, f.Source, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrMaterialize,
			"failed to materialize merged profile file %s", f.RelativePath).
			WithDetail("path", f.Source)
	}
	return nil
}

// profileFiles lists the regular files below root as sorted slash paths
// relative to root. Symlinks are skipped.
func (b *Builder) profileFiles(root string) ([]string, error) {
	var files []string
	err := afero.Walk(b.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Paths returns the relative paths of the profile's files.
func (p *Profile) Paths() []string {
	out := make([]string, len(p.Files))
	for i, f := range p.Files {
		out[i] = f.RelativePath
	}
	return out
}

// String renders the file list, one relative path per line.
func (p *Profile) String() string {
	return strings.Join(p.Paths(), "\n")
}
