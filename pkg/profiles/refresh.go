package profiles

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/arthur-debert/ocp/pkg/logging"
)

// Resolution is the action taken on a refresh conflict.
type Resolution int

const (
	// ResolveNothing leaves the repository untouched.
	ResolveNothing Resolution = iota
	// ResolveDiscard drops local changes and pulls.
	ResolveDiscard
	// ResolveCommitAndForcePush commits local changes and force pushes them.
	ResolveCommitAndForcePush
)

var resolutionNames = map[Resolution]string{
	ResolveNothing:            "nothing",
	ResolveDiscard:            "discard",
	ResolveCommitAndForcePush: "commit",
}

func (r Resolution) String() string {
	if name, ok := resolutionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("resolution(%d)", int(r))
}

// ParseResolution maps "discard", "commit" and "nothing" to a Resolution.
func ParseResolution(s string) (Resolution, error) {
	for r, name := range resolutionNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return r, nil
		}
	}
	return ResolveNothing, errors.Newf(errors.ErrInvalidInput,
		"unknown conflict resolution %q (expected discard, commit or nothing)", s)
}

// Conflict describes local changes that block a refresh.
type Conflict struct {
	Repository string
	Path       string
	Diff       string
}

// AsConflict extracts the conflict carried by a refresh error.
func AsConflict(err error) (Conflict, bool) {
	if !errors.IsErrorCode(err, errors.ErrRefreshConflict) {
		return Conflict{}, false
	}
	details := errors.GetErrorDetails(err)
	c := Conflict{}
	c.Repository, _ = details["repository"].(string)
	c.Path, _ = details["path"].(string)
	c.Diff, _ = details["diff"].(string)
	return c, true
}

// RefreshResult lists the refreshed repositories and the profile that was
// re-activated, if any.
type RefreshResult struct {
	Repositories []string
	Reactivated  string
}

// Refresh pulls the repository holding the named profile. When the active
// profile inherits from it, the active profile is re-activated.
func (s *Service) Refresh(name string) (*RefreshResult, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	done := logging.LogOperationStart(s.logger, "refresh profile "+name)
	defer done()

	d, err := s.discover()
	if err != nil {
		return nil, err
	}
	entry, ok := d.Graph[name]
	if !ok {
		return nil, unknownProfile(name)
	}
	if err := s.refreshRepository(entry.Repository, d.Paths[entry.Repository]); err != nil {
		return nil, err
	}

	result := &RefreshResult{Repositories: []string{entry.Repository}}
	result.Reactivated, err = s.reactivate(func(active string, graph lineage.Graph) (bool, error) {
		return lineage.InLineage(active, name, graph)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RefreshAll pulls every repository and re-activates the active profile.
func (s *Service) RefreshAll() (*RefreshResult, error) {
	done := logging.LogOperationStart(s.logger, "refresh all repositories")
	defer done()

	entries, err := s.registry.Load()
	if err != nil {
		return nil, err
	}
	result := &RefreshResult{}
	for _, e := range entries {
		if err := s.refreshRepository(e.Name, e.LocalPath); err != nil {
			return nil, err
		}
		result.Repositories = append(result.Repositories, e.Name)
	}

	result.Reactivated, err = s.reactivate(func(string, lineage.Graph) (bool, error) {
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) refreshRepository(name, localPath string) error {
	changed, err := s.git.HasLocalChanges(localPath)
	if err != nil {
		return err
	}
	if changed {
		diff, err := s.git.LocalDiff(localPath)
		if err != nil {
			return err
		}
		return errors.Newf(errors.ErrRefreshConflict, "local changes detected in repository `%s`", name).
			WithDetails(map[string]interface{}{
				"repository": name,
				"path":       localPath,
				"diff":       diff,
			})
	}
	if err := s.git.Pull(localPath); err != nil {
		return err
	}
	s.logger.Info().Str("repository", name).Msg("Repository refreshed")
	return nil
}

// reactivate re-runs Use for the active profile when affected says so.
// It returns the re-activated profile name or "".
func (s *Service) reactivate(affected func(active string, graph lineage.Graph) (bool, error)) (string, error) {
	active, err := s.activeName()
	if err != nil || active == "" {
		return "", err
	}
	d, err := s.discover()
	if err != nil {
		return "", err
	}
	if _, ok := d.Graph[active]; !ok {
		return "", nil
	}
	ok, err := affected(active, d.Graph)
	if err != nil || !ok {
		return "", err
	}
	if _, err := s.Use(active); err != nil {
		return "", err
	}
	return active, nil
}

// ResolveConflict applies r to the repository of c. It reports whether
// anything was done.
func (s *Service) ResolveConflict(c Conflict, r Resolution) (bool, error) {
	switch r {
	case ResolveDiscard:
		if err := s.git.DiscardLocalChanges(c.Path); err != nil {
			return false, err
		}
	case ResolveCommitAndForcePush:
		if err := s.git.CommitLocalChangesAndForcePush(c.Path); err != nil {
			return false, err
		}
	default:
		return false, nil
	}
	s.logger.Info().Str("repository", c.Repository).Stringer("resolution", r).Msg("Refresh conflict resolved")
	return true, nil
}
