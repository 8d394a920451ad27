package profiles

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/ocp/pkg/filesystem"
)

// UpdateHints writes a hint for every repository that is behind its remote.
// It never fails: problems are reported as hints too. Nothing is written
// when version checks are disabled.
func (s *Service) UpdateHints(w io.Writer) {
	for _, hint := range s.updateHints() {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

func (s *Service) updateHints() []string {
	check, err := s.versionChecksEnabled()
	if err != nil {
		return []string{"skipped version checks: " + err.Error()}
	}
	if !check {
		return nil
	}
	entries, err := s.registry.Load()
	if err != nil {
		return []string{"skipped version checks: " + err.Error()}
	}

	var hints, failed []string
	for _, e := range entries {
		if ok, _ := filesystem.Exists(s.fs, filepath.Join(e.LocalPath, ".git")); !ok {
			continue
		}
		behind, err := s.git.CommitsBehindRemote(e.LocalPath)
		if err != nil {
			s.logger.Debug().Err(err).Str("repository", e.Name).Msg("Version check failed")
			failed = append(failed, e.Name)
			continue
		}
		if behind > 0 {
			hints = append(hints, fmt.Sprintf(
				"repository `%s` is behind remote by %d commit(s). Run `ocp profile refresh <profile>` to update.",
				e.Name, behind))
		}
	}
	if len(failed) > 0 {
		hints = append(hints, "skipped version checks for repositories: "+strings.Join(failed, ", "))
	}
	return hints
}
