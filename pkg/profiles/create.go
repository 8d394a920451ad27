package profiles

import (
	"strings"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/arthur-debert/ocp/pkg/repository"
)

// Create adds a profile to the repository in the working directory and
// creates its directory. It returns the profile directory.
func (s *Service) Create(def lineage.Definition) (string, error) {
	name, err := normalizeName(def.Name)
	if err != nil {
		return "", err
	}
	def.Name = name
	def.Description = strings.TrimSpace(def.Description)
	def.Parent = strings.TrimSpace(def.Parent)
	if def.Parent == name {
		return "", errors.Newf(errors.ErrSelfExtendingProfile, "profile `%s` cannot extend itself", name).
			WithDetail("profile", name)
	}

	meta, err := repository.Read(s.fs, s.workingDir)
	if err != nil {
		return "", err
	}
	if meta.Has(name) {
		return "", errors.Newf(errors.ErrProfileExists, "profile `%s` already exists", name).
			WithDetail("profile", name).
			WithDetail("repository", s.workingDir)
	}

	dir := repository.ProfileDir(s.workingDir, name)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to create profile `%s` in %s", name, s.workingDir)
	}
	meta.Profiles = append(meta.Profiles, def)
	if err := repository.Write(s.fs, s.workingDir, meta); err != nil {
		return "", err
	}

	s.logger.Info().Str("profile", name).Str("repository", s.workingDir).Msg("Profile created")
	return dir, nil
}
