package profiles

import (
	"github.com/arthur-debert/ocp/pkg/activation"
	"github.com/arthur-debert/ocp/pkg/effective"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/arthur-debert/ocp/pkg/logging"
	"github.com/arthur-debert/ocp/pkg/repository"
)

// UseResult describes a completed profile switch.
type UseResult struct {
	Profile    *effective.Profile
	Lineage    lineage.Lineage
	Previous   string
	Activation *activation.Result
}

// Use activates the named profile. The active-profile pointer is only
// updated once the target directory has been switched.
func (s *Service) Use(name string) (*UseResult, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	done := logging.LogOperationStart(s.logger, "use profile "+name)
	defer done()

	d, err := s.discover()
	if err != nil {
		return nil, err
	}
	l, err := s.resolve(name, d)
	if err != nil {
		return nil, err
	}
	roots := effective.Roots(d.Roots())
	next, err := s.builder.Build(l, roots)
	if err != nil {
		return nil, err
	}

	previousName, err := s.activeName()
	if err != nil {
		return nil, err
	}
	previous := s.previousProfile(previousName, name, d, roots)

	result, err := s.engine.Activate(next, previous, s.targetDir)
	if err != nil {
		return nil, err
	}
	if err := s.registry.SetActiveProfile(name); err != nil {
		return nil, err
	}

	return &UseResult{Profile: next, Lineage: l, Previous: previousName, Activation: result}, nil
}

// previousProfile computes the effective set of the profile being replaced
// so its links can be cleaned up. It is nil when the previous profile is
// the one being activated, is gone, or can no longer be resolved.
func (s *Service) previousProfile(previousName, nextName string, d *repository.Discovery, roots effective.Roots) *effective.Profile {
	if previousName == "" || previousName == nextName {
		return nil
	}
	if _, ok := d.Graph[previousName]; !ok {
		return nil
	}
	l, err := lineage.Resolve(previousName, d.Graph)
	if err == nil {
		var p *effective.Profile
		if p, err = s.dryBuilder.Build(l, roots); err == nil {
			return p
		}
	}
	s.logger.Warn().Err(err).
		Str("profile", previousName).
		Msg("Cannot resolve previous profile, skipping orphan cleanup")
	return nil
}

// Details is the dry resolution of a profile.
type Details struct {
	Definition lineage.Definition
	Repository string
	Lineage    lineage.Lineage
	Profile    *effective.Profile
	Active     bool
	TargetDir  string
}

// Show resolves the named profile without touching the target directory
// or the cache.
func (s *Service) Show(name string) (*Details, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	d, err := s.discover()
	if err != nil {
		return nil, err
	}
	l, err := s.resolve(name, d)
	if err != nil {
		return nil, err
	}
	p, err := s.dryBuilder.Build(l, effective.Roots(d.Roots()))
	if err != nil {
		return nil, err
	}
	active, err := s.activeName()
	if err != nil {
		return nil, err
	}

	entry := d.Graph[name]
	return &Details{
		Definition: entry.Definition,
		Repository: entry.Repository,
		Lineage:    l,
		Profile:    p,
		Active:     active == name,
		TargetDir:  s.targetDir,
	}, nil
}
