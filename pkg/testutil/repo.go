package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// ProfileSpec declares one profile of a test repository.
type ProfileSpec struct {
	Name        string
	Description string
	Parent      string
	Files       map[string]string
}

// RepoBuilder lays out a profile repository on disk: a repository.json
// listing the profiles and one directory per profile.
type RepoBuilder struct {
	t        *testing.T
	root     string
	profiles []ProfileSpec
}

// NewRepo starts a repository rooted at root.
func NewRepo(t *testing.T, root string) *RepoBuilder {
	t.Helper()
	return &RepoBuilder{t: t, root: root}
}

// Profile adds a profile with the given files (relative path -> content).
func (r *RepoBuilder) Profile(name, parent string, files map[string]string) *RepoBuilder {
	r.profiles = append(r.profiles, ProfileSpec{Name: name, Parent: parent, Files: files})
	return r
}

// Build writes the repository and returns its root.
func (r *RepoBuilder) Build() string {
	r.t.Helper()

	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		ExtendsFrom string `json:"extends_from,omitempty"`
	}
	doc := struct {
		Profiles []entry `json:"profiles"`
	}{Profiles: []entry{}}

	for _, p := range r.profiles {
		doc.Profiles = append(doc.Profiles, entry{Name: p.Name, Description: p.Description, ExtendsFrom: p.Parent})
		CreateDir(r.t, r.root, p.Name)
		for rel, content := range p.Files {
			CreateFile(r.t, filepath.Join(r.root, p.Name), rel, content)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		r.t.Fatalf("Failed to encode repository.json: %v", err)
	}
	if err := os.MkdirAll(r.root, 0755); err != nil {
		r.t.Fatalf("Failed to create repository %s: %v", r.root, err)
	}
	if err := os.WriteFile(filepath.Join(r.root, "repository.json"), data, 0644); err != nil {
		r.t.Fatalf("Failed to write repository.json: %v", err)
	}
	return r.root
}
