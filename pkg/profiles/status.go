package profiles

import (
	"fmt"
	"time"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/arthur-debert/ocp/pkg/registry"
)

// Profile is a discovered profile together with the state of its
// repository.
type Profile struct {
	Name               string `json:"name" yaml:"name"`
	Description        string `json:"description,omitempty" yaml:"description,omitempty"`
	Parent             string `json:"extends_from,omitempty" yaml:"extends_from,omitempty"`
	Repository         string `json:"repository" yaml:"repository"`
	RepositoryURI      string `json:"repository_uri" yaml:"repository_uri"`
	Version            string `json:"version" yaml:"version"`
	LastUpdated        string `json:"last_updated" yaml:"last_updated"`
	Message            string `json:"message" yaml:"message"`
	UpdateAvailable    bool   `json:"update_available" yaml:"update_available"`
	Active             bool   `json:"active" yaml:"active"`
	VersionCheckFailed bool   `json:"version_check_failed" yaml:"version_check_failed"`
}

// RepositoryStatus describes the latest local commit of a repository and
// whether its upstream moved.
type RepositoryStatus struct {
	ShortSHA           string
	CommitTime         time.Time
	Message            string
	UpdateAvailable    bool
	VersionCheckFailed bool
}

const (
	noVersion      = "-"
	noCommits      = "No local commits"
	unknownAge     = "unknown"
	justNow        = "just now"
	daysPerMonth   = 30
	monthsPerYear  = 12
	secondsPerHour = 60 * 60
)

// List returns every discovered profile sorted by name.
func (s *Service) List() ([]Profile, error) {
	d, err := s.discover()
	if err != nil {
		return nil, err
	}
	entries, err := s.registry.Load()
	if err != nil {
		return nil, err
	}
	active, err := s.activeName()
	if err != nil {
		return nil, err
	}
	check, err := s.versionChecksEnabled()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]registry.Entry, len(entries))
	statuses := make(map[string]RepositoryStatus, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
		statuses[e.Name] = s.repositoryStatus(e, check)
	}

	profiles := make([]Profile, 0, len(d.Graph))
	for _, name := range d.Names() {
		entry := d.Graph[name]
		repo, ok := byName[entry.Repository]
		if !ok {
			continue
		}
		profiles = append(profiles, s.toProfile(entry.Definition, repo, statuses[repo.Name], name == active))
	}
	return profiles, nil
}

// Active returns the active profile.
func (s *Service) Active() (Profile, error) {
	name, err := s.activeName()
	if err != nil {
		return Profile{}, err
	}
	if name == "" {
		return Profile{}, errors.New(errors.ErrNoActiveProfile, "no active profile selected yet")
	}

	d, err := s.discover()
	if err != nil {
		return Profile{}, err
	}
	entry, ok := d.Graph[name]
	if !ok {
		return Profile{}, errors.Newf(errors.ErrUnknownProfile,
			"active profile `%s` is not available in configured repositories", name).
			WithDetail("profile", name)
	}

	entries, err := s.registry.Load()
	if err != nil {
		return Profile{}, err
	}
	check, err := s.versionChecksEnabled()
	if err != nil {
		return Profile{}, err
	}
	for _, e := range entries {
		if e.Name == entry.Repository {
			return s.toProfile(entry.Definition, e, s.repositoryStatus(e, check), true), nil
		}
	}
	return Profile{}, errors.Newf(errors.ErrRepositoryNotFound, "repository `%s` is not configured", entry.Repository)
}

// repositoryStatus never fails: a repository without commits or without a
// reachable upstream is reported as such.
func (s *Service) repositoryStatus(e registry.Entry, check bool) RepositoryStatus {
	status := RepositoryStatus{ShortSHA: noVersion, Message: noCommits}

	if commit, err := s.git.LatestCommit(e.LocalPath); err == nil {
		status.ShortSHA = commit.ShortSHA
		status.CommitTime = commit.Time
		status.Message = commit.Message
	} else {
		s.logger.Debug().Err(err).Str("repository", e.Name).Msg("No commit information")
	}

	if !check {
		return status
	}
	differs, err := s.git.DiffersFromUpstream(e.LocalPath)
	if err != nil {
		s.logger.Debug().Err(err).Str("repository", e.Name).Msg("Version check failed")
		status.VersionCheckFailed = true
		return status
	}
	status.UpdateAvailable = differs
	return status
}

func (s *Service) toProfile(def lineage.Definition, repo registry.Entry, status RepositoryStatus, active bool) Profile {
	return Profile{
		Name:               def.Name,
		Description:        def.Description,
		Parent:             def.Parent,
		Repository:         repo.Name,
		RepositoryURI:      repo.URI,
		Version:            status.ShortSHA,
		LastUpdated:        Humanize(status.CommitTime, s.now()),
		Message:            status.Message,
		UpdateAvailable:    status.UpdateAvailable,
		Active:             active,
		VersionCheckFailed: status.VersionCheckFailed,
	}
}

// Humanize renders the age of t relative to now, e.g. "3 days ago".
// Months are 30 days and years 12 months.
func Humanize(t, now time.Time) string {
	if t.IsZero() || t.Unix() <= 0 {
		return unknownAge
	}
	if now.Before(t) {
		return justNow
	}

	seconds := int64(now.Sub(t) / time.Second)
	if seconds < 60 {
		return ago(seconds, "second")
	}
	minutes := seconds / 60
	if minutes < 60 {
		return ago(minutes, "minute")
	}
	hours := seconds / secondsPerHour
	if hours < 24 {
		return ago(hours, "hour")
	}
	days := hours / 24
	if days < daysPerMonth {
		return ago(days, "day")
	}
	months := days / daysPerMonth
	if months < monthsPerYear {
		return ago(months, "month")
	}
	return ago(months/monthsPerYear, "year")
}

func ago(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
