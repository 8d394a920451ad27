// Package views defines the values commands hand to the renderers. They
// carry json and yaml tags so machine formats can encode them directly.
package views

import (
	"sort"
	"strings"

	"github.com/arthur-debert/ocp/pkg/activation"
	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/jsonvalue"
	"github.com/arthur-debert/ocp/pkg/profiles"
	"github.com/arthur-debert/ocp/pkg/registry"
)

// File kinds.
const (
	KindLinked = "linked"
	KindMerged = "merged"
)

// ProfileList is the output of `ocp profile list`.
type ProfileList struct {
	Profiles []profiles.Profile `json:"profiles" yaml:"profiles"`
}

// HasUpdates reports whether any profile's repository moved upstream.
func (l ProfileList) HasUpdates() bool {
	for _, p := range l.Profiles {
		if p.UpdateAvailable {
			return true
		}
	}
	return false
}

// FailedChecks returns the sorted names of repositories whose version
// check failed.
func (l ProfileList) FailedChecks() []string {
	seen := map[string]bool{}
	var names []string
	for _, p := range l.Profiles {
		if p.VersionCheckFailed && !seen[p.Repository] {
			seen[p.Repository] = true
			names = append(names, p.Repository)
		}
	}
	sort.Strings(names)
	return names
}

// File is one entry of an effective profile.
type File struct {
	Path    string `json:"path" yaml:"path"`
	Kind    string `json:"kind" yaml:"kind"`
	Source  string `json:"source" yaml:"source"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// ProfileDetails is the output of `ocp profile show`.
type ProfileDetails struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Parent      string   `json:"extends_from,omitempty" yaml:"extends_from,omitempty"`
	Repository  string   `json:"repository" yaml:"repository"`
	Active      bool     `json:"active" yaml:"active"`
	Lineage     []string `json:"lineage" yaml:"lineage"`
	TargetDir   string   `json:"target_dir" yaml:"target_dir"`
	Files       []File   `json:"files" yaml:"files"`
}

// NewProfileDetails converts a dry resolution. Merged files carry their
// merged content.
func NewProfileDetails(d *profiles.Details) ProfileDetails {
	v := ProfileDetails{
		Name:        d.Definition.Name,
		Description: d.Definition.Description,
		Parent:      d.Definition.Parent,
		Repository:  d.Repository,
		Active:      d.Active,
		Lineage:     d.Lineage.Names(),
		TargetDir:   d.TargetDir,
		Files:       make([]File, 0, len(d.Profile.Files)),
	}
	for _, f := range d.Profile.Files {
		file := File{Path: f.RelativePath, Kind: KindLinked, Source: f.Source}
		if f.Merged {
			file.Kind = KindMerged
			file.Content = strings.TrimRight(string(jsonvalue.MarshalIndent(f.Value, "  ")), "\n")
		}
		v.Files = append(v.Files, file)
	}
	return v
}

// Activation is the output of `ocp profile use`.
type Activation struct {
	Profile   string   `json:"profile" yaml:"profile"`
	Previous  string   `json:"previous,omitempty" yaml:"previous,omitempty"`
	Lineage   []string `json:"lineage" yaml:"lineage"`
	TargetDir string   `json:"target_dir" yaml:"target_dir"`
	Linked    []string `json:"linked" yaml:"linked"`
	Removed   []string `json:"removed,omitempty" yaml:"removed,omitempty"`
	BackedUp  []string `json:"backed_up,omitempty" yaml:"backed_up,omitempty"`
	BackupDir string   `json:"backup_dir,omitempty" yaml:"backup_dir,omitempty"`
}

// NewActivation converts the result of a profile switch.
func NewActivation(r *profiles.UseResult, targetDir string) Activation {
	res := r.Activation
	if res == nil {
		res = &activation.Result{}
	}
	return Activation{
		Profile:   r.Profile.Name,
		Previous:  r.Previous,
		Lineage:   r.Lineage.Names(),
		TargetDir: targetDir,
		Linked:    res.Linked,
		Removed:   res.Removed,
		BackedUp:  res.BackedUp,
		BackupDir: res.BackupDir,
	}
}

// Repository is one configured repository.
type Repository struct {
	Name      string   `json:"name" yaml:"name"`
	URI       string   `json:"uri" yaml:"uri"`
	LocalPath string   `json:"local_path" yaml:"local_path"`
	Profiles  []string `json:"profiles" yaml:"profiles"`
}

// RepositoryList is the output of `ocp repository list`.
type RepositoryList struct {
	Repositories []Repository `json:"repositories" yaml:"repositories"`
}

// NewRepositoryList pairs registry entries with the profiles each declares.
func NewRepositoryList(entries []registry.Entry, profilesByRepo map[string][]string) RepositoryList {
	l := RepositoryList{Repositories: make([]Repository, 0, len(entries))}
	for _, e := range entries {
		names := profilesByRepo[e.Name]
		if names == nil {
			names = []string{}
		}
		l.Repositories = append(l.Repositories, Repository{
			Name:      e.Name,
			URI:       e.URI,
			LocalPath: e.LocalPath,
			Profiles:  names,
		})
	}
	return l
}

// Message is a single status line.
type Message struct {
	Text string `json:"message" yaml:"message"`
}

// Error is a failed command in machine formats. Code and Details are
// only set for coded errors.
type Error struct {
	Message string                 `json:"error" yaml:"error"`
	Code    string                 `json:"code,omitempty" yaml:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// NewError converts err.
func NewError(err error) Error {
	v := Error{Message: err.Error()}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		v.Code = string(code)
		if details := errors.GetErrorDetails(err); len(details) > 0 {
			v.Details = details
		}
	}
	return v
}
