package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/filesystem"
	"github.com/arthur-debert/ocp/pkg/lineage"
	"github.com/arthur-debert/ocp/pkg/logging"
	"github.com/arthur-debert/ocp/pkg/repository"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// JSON paths inside config.json.
const (
	keyActiveProfile = "config.activeProfile"
	keyVersionCheck  = "config.profileVersionCheck"
	keyRepositories  = "repositories"
)

const emptyDocument = `{"config":{},"repositories":[]}`

// Entry is a configured repository.
type Entry struct {
	Name      string `json:"name"`
	URI       string `json:"uri"`
	LocalPath string `json:"localPath"`
}

// Source returns the on-disk location of the repository.
func (e Entry) Source() repository.Source {
	return repository.Source{Name: e.Name, Path: e.LocalPath}
}

// GitClient is the subset of git operations the registry needs.
type GitClient interface {
	Clone(uri, localPath string) error
	Init(localPath string) error
}

// Store reads and writes config.json.
type Store struct {
	fs              filesystem.FS
	path            string
	repositoriesDir string
	git             GitClient
	logger          zerolog.Logger
}

// NewStore returns a Store for the registry file at path. Repositories are
// cloned below repositoriesDir.
func NewStore(fsys filesystem.FS, path, repositoriesDir string, git GitClient) *Store {
	return &Store{
		fs:              fsys,
		path:            path,
		repositoriesDir: repositoriesDir,
		git:             git,
		logger:          logging.GetLogger("registry"),
	}
}

// Path returns the location of config.json.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) read() ([]byte, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []byte(emptyDocument), nil
		}
		return nil, errors.Wrap(err, errors.ErrRegistryRead, "failed to read repository registry").
			WithDetail("path", s.path)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrRegistryRead, "failed to read repository registry: invalid JSON").
			WithDetail("path", s.path)
	}
	return data, nil
}

func (s *Store) write(data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrRegistryWrite, "failed to write repository registry")
	}
	tmp := s.path + ".tmp"
	if err := s.fs.WriteFile(tmp, pretty.Pretty(data), 0644); err != nil {
		return errors.Wrap(err, errors.ErrRegistryWrite, "failed to write repository registry")
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, errors.ErrRegistryWrite, "failed to write repository registry")
	}
	return nil
}

// Load returns the configured repositories. Entries with a blank URI are
// dropped, a blank name is derived from the URI and the local path is
// always recomputed from the name.
func (s *Store) Load() ([]Entry, error) {
	data, err := s.read()
	if err != nil {
		return nil, err
	}
	return s.normalize(gjson.GetBytes(data, keyRepositories)), nil
}

func (s *Store) normalize(repos gjson.Result) []Entry {
	var entries []Entry
	repos.ForEach(func(_, value gjson.Result) bool {
		uri := strings.TrimSpace(value.Get("uri").String())
		if uri == "" {
			return true
		}
		name := strings.TrimSpace(value.Get("name").String())
		if name == "" {
			name = NameFromURI(uri)
		}
		if name == "" {
			return true
		}
		entries = append(entries, Entry{
			Name:      name,
			URI:       uri,
			LocalPath: filepath.Join(s.repositoriesDir, name),
		})
		return true
	})
	return entries
}

// Sources returns the on-disk location of every repository.
func (s *Store) Sources() ([]repository.Source, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	sources := make([]repository.Source, len(entries))
	for i, e := range entries {
		sources[i] = e.Source()
	}
	return sources, nil
}

// ActiveProfile returns the active profile name, or "" when none is set.
func (s *Store) ActiveProfile() (string, error) {
	data, err := s.read()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(gjson.GetBytes(data, keyActiveProfile).String()), nil
}

// SetActiveProfile records name as the active profile. An empty name
// clears it.
func (s *Store) SetActiveProfile(name string) error {
	data, err := s.read()
	if err != nil {
		return err
	}
	if name == "" {
		data, err = sjson.DeleteBytes(data, keyActiveProfile)
	} else {
		data, err = sjson.SetBytes(data, keyActiveProfile, name)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistryWrite, "failed to update active profile")
	}
	s.logger.Debug().Str("profile", name).Msg("Active profile recorded")
	return s.write(data)
}

// VersionCheck reports whether update checks are enabled. It defaults to
// true when the key is absent.
func (s *Store) VersionCheck() (bool, error) {
	data, err := s.read()
	if err != nil {
		return false, err
	}
	v := gjson.GetBytes(data, keyVersionCheck)
	if !v.Exists() {
		return true, nil
	}
	return v.Bool(), nil
}

func (s *Store) saveRepositories(entries []Entry) error {
	data, err := s.read()
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistryWrite, "failed to encode repositories")
	}
	data, err = sjson.SetRawBytes(data, keyRepositories, raw)
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistryWrite, "failed to update repositories")
	}
	return s.write(data)
}

// Add registers the repository at uri and clones it.
func (s *Store) Add(uri string) (Entry, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return Entry{}, errors.New(errors.ErrInvalidInput, "repository URI is required")
	}
	name := NameFromURI(uri)
	if name == "" {
		return Entry{}, errors.Newf(errors.ErrInvalidInput, "unable to derive repository name from URI: %s", uri)
	}

	entries, err := s.Load()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.URI == uri {
			return Entry{}, errors.Newf(errors.ErrRepositoryExists, "repository URI `%s` is already configured", uri).
				WithDetail("uri", uri)
		}
		if e.Name == name {
			return Entry{}, errors.Newf(errors.ErrRepositoryExists, "repository `%s` is already configured", name).
				WithDetail("repository", name)
		}
	}

	added := Entry{Name: name, URI: uri, LocalPath: filepath.Join(s.repositoriesDir, name)}
	if err := s.fs.RemoveAll(added.LocalPath); err != nil {
		return Entry{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to clear %s", added.LocalPath)
	}
	if err := s.git.Clone(uri, added.LocalPath); err != nil {
		return Entry{}, err
	}

	if err := s.saveRepositories(append(entries, added)); err != nil {
		return Entry{}, err
	}
	s.logger.Info().Str("repository", name).Str("uri", uri).Msg("Repository added")
	return added, nil
}

// Delete unregisters the named repository and removes its clone.
func (s *Store) Delete(name string) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, errors.New(errors.ErrInvalidInput, "repository name is required")
	}

	entries, err := s.Load()
	if err != nil {
		return Entry{}, err
	}

	var deleted *Entry
	remaining := make([]Entry, 0, len(entries))
	for i := range entries {
		if entries[i].Name == name {
			deleted = &entries[i]
			continue
		}
		remaining = append(remaining, entries[i])
	}
	if deleted == nil {
		return Entry{}, errors.Newf(errors.ErrRepositoryNotFound, "repository `%s` is not configured", name).
			WithDetail("repository", name)
	}

	if err := s.saveRepositories(remaining); err != nil {
		return Entry{}, err
	}
	if err := s.fs.RemoveAll(deleted.LocalPath); err != nil {
		return Entry{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to delete repository at %s", deleted.LocalPath)
	}
	s.logger.Info().Str("repository", name).Msg("Repository deleted")
	return *deleted, nil
}

// Create scaffolds a new repository directory below workingDir with a
// repository.json, an optional first profile, and an initialised git
// repository. It returns the repository path.
func (s *Store) Create(workingDir, name, profile string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New(errors.ErrInvalidInput, "repository name is required")
	}

	repoPath, err := filepath.Abs(filepath.Join(workingDir, name))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "invalid repository path %s", name)
	}
	exists, err := filesystem.Exists(s.fs, repoPath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to check %s", repoPath)
	}
	if exists {
		return "", errors.Newf(errors.ErrRepositoryExists, "directory already exists: %s", repoPath).
			WithDetail("path", repoPath)
	}

	var meta repository.Metadata
	if profile = strings.TrimSpace(profile); profile != "" {
		meta.Profiles = append(meta.Profiles, lineage.Definition{Name: profile})
		if err := s.fs.MkdirAll(repository.ProfileDir(repoPath, profile), 0755); err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to create repository at %s", repoPath)
		}
	}
	if err := repository.Write(s.fs, repoPath, meta); err != nil {
		return "", err
	}
	if err := s.git.Init(repoPath); err != nil {
		return "", err
	}

	s.logger.Info().Str("path", repoPath).Msg("Repository created")
	return repoPath, nil
}
