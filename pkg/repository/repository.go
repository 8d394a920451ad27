// Package repository reads and writes profile repository metadata.
//
// A profile repository is a directory holding a repository.json that lists
// its profiles, and one directory per profile with the files it provides.
package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/filesystem"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/arthur-debert/ocp/pkg/logging"
)

// MetadataFile is the name of the metadata file at the repository root.
const MetadataFile = "repository.json"

// Metadata is the content of repository.json.
type Metadata struct {
	Profiles []lineage.Definition `json:"profiles"`
}

// Names returns the profile names in declaration order.
func (m Metadata) Names() []string {
	names := make([]string, len(m.Profiles))
	for i, p := range m.Profiles {
		names[i] = p.Name
	}
	return names
}

// Has reports whether a profile is declared.
func (m Metadata) Has(name string) bool {
	for _, p := range m.Profiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Source locates a repository on disk.
type Source struct {
	Name string
	Path string
}

// Read loads the metadata of the repository at repoPath. A missing
// repository.json yields empty metadata. Profiles with a blank name are
// dropped and names are trimmed.
func Read(fsys filesystem.FS, repoPath string) (Metadata, error) {
	path := filepath.Join(repoPath, MetadataFile)
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Metadata{}, nil
		}
		return Metadata{}, errors.Wrapf(err, errors.ErrMetadataRead,
			"failed to read profile metadata from %s", path).
			WithDetail("path", path)
	}

	var raw Metadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return Metadata{}, errors.Wrapf(err, errors.ErrMetadataRead,
			"failed to read profile metadata from %s", path).
			WithDetail("path", path)
	}

	var meta Metadata
	for _, p := range raw.Profiles {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		p.Parent = strings.TrimSpace(p.Parent)
		meta.Profiles = append(meta.Profiles, p)
	}
	return meta, nil
}

// Write stores meta as the repository.json of repoPath.
func Write(fsys filesystem.FS, repoPath string, meta Metadata) error {
	if meta.Profiles == nil {
		meta.Profiles = []lineage.Definition{}
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrMetadataWrite, "failed to encode profile metadata")
	}

	path := filepath.Join(repoPath, MetadataFile)
	if err := fsys.MkdirAll(repoPath, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrMetadataWrite, "failed to write profile metadata to %s", path)
	}
	if err := fsys.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrMetadataWrite, "failed to write profile metadata to %s", path)
	}
	return nil
}

// ProfileDir returns the directory of a profile inside a repository.
func ProfileDir(repoPath, profile string) string {
	return filepath.Join(repoPath, profile)
}

// Discovery is the result of scanning every configured repository.
type Discovery struct {
	Graph lineage.Graph
	// Paths maps repository names to their local paths.
	Paths map[string]string
}

// Root returns the directory of the named profile.
func (d *Discovery) Root(profile string) string {
	entry, ok := d.Graph[profile]
	if !ok {
		return ""
	}
	return ProfileDir(d.Paths[entry.Repository], profile)
}

// Roots returns the directories of every profile in the graph.
func (d *Discovery) Roots() map[string]string {
	roots := make(map[string]string, len(d.Graph))
	for name := range d.Graph {
		roots[name] = d.Root(name)
	}
	return roots
}

// Names returns the profile names sorted.
func (d *Discovery) Names() []string {
	names := make([]string, 0, len(d.Graph))
	for name := range d.Graph {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Discover reads the metadata of every source and builds the profile graph.
// A profile name declared by more than one repository is an error listing
// every duplicated name.
func Discover(fsys filesystem.FS, sources []Source) (*Discovery, error) {
	logger := logging.GetLogger("repository")

	d := &Discovery{
		Graph: lineage.Graph{},
		Paths: make(map[string]string, len(sources)),
	}
	duplicates := map[string]bool{}

	for _, src := range sources {
		d.Paths[src.Name] = src.Path
		meta, err := Read(fsys, src.Path)
		if err != nil {
			return nil, err
		}
		for _, def := range meta.Profiles {
			if _, exists := d.Graph[def.Name]; exists {
				duplicates[def.Name] = true
				continue
			}
			d.Graph[def.Name] = lineage.Entry{Definition: def, Repository: src.Name}
		}
		logger.Debug().
			Str("repository", src.Name).
			Int("profiles", len(meta.Profiles)).
			Msg("Discovered profiles")
	}

	if len(duplicates) > 0 {
		names := make([]string, 0, len(duplicates))
		for name := range duplicates {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, errors.Newf(errors.ErrDuplicateProfiles,
			"duplicate profile names found across repositories: %s", strings.Join(names, ", ")).
			WithDetail("profiles", names)
	}
	return d, nil
}
