package activation

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/ocp/pkg/effective"
	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/filesystem"
	"github.com/arthur-debert/ocp/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultTimestampFormat names backup directories (yyyyMMddHHmmss).
const DefaultTimestampFormat = "20060102150405"

// Engine switches the contents of a target directory between profiles.
type Engine struct {
	fs              filesystem.FS
	backupRoot      string
	timestampFormat string
	now             func() time.Time
	logger          zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the clock used to name backup directories.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithTimestampFormat sets the time layout of backup directory names.
func WithTimestampFormat(layout string) Option {
	return func(e *Engine) {
		if layout != "" {
			e.timestampFormat = layout
		}
	}
}

// NewEngine returns an Engine operating on fsys that moves displaced files
// below backupRoot.
func NewEngine(fsys filesystem.FS, backupRoot string, opts ...Option) *Engine {
	e := &Engine{
		fs:              fsys,
		backupRoot:      backupRoot,
		timestampFormat: DefaultTimestampFormat,
		now:             time.Now,
		logger:          logging.GetLogger("activation"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result summarises a successful activation.
type Result struct {
	Linked    []string
	Removed   []string
	BackedUp  []string
	BackupDir string
}

// run holds the state of a single Activate call.
type run struct {
	*Engine
	targetDir string
	backupDir string
	journal   Journal
	result    *Result
}

// Activate links next into targetDir. previous, when not nil, is the
// effective profile that is currently active; its links are cleaned up as
// orphans. On failure every change is undone and the returned error has
// code ErrActivationFailed, with rollback failures attached as auxiliary
// errors.
func (e *Engine) Activate(next, previous *effective.Profile, targetDir string) (*Result, error) {
	if next == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no profile to activate")
	}
	if err := checkVariants(next); err != nil {
		return nil, err
	}

	absTarget, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "invalid target directory %s", targetDir)
	}

	done := logging.LogOperationStart(e.logger, "activate profile "+next.Name)
	defer done()

	r := &run{
		Engine:    e,
		targetDir: absTarget,
		backupDir: filepath.Join(e.backupRoot, e.now().Format(e.timestampFormat)),
		result:    &Result{},
	}

	if err := r.switchFiles(next, previous); err != nil {
		e.logger.Error().Err(err).
			Str("profile", next.Name).
			Int("states", len(r.journal)).
			Msg("Activation failed, rolling back")

		rollbackErrs := r.rollback()
		return nil, errors.Wrap(err, errors.ErrActivationFailed, "failed to switch active profile files").
			WithDetail("profile", next.Name).
			WithDetail("target", absTarget).
			WithAuxiliary(rollbackErrs...)
	}

	if len(r.result.BackedUp) > 0 {
		r.result.BackupDir = r.backupDir
	}
	e.logger.Info().
		Str("profile", next.Name).
		Int("linked", len(r.result.Linked)).
		Int("removed", len(r.result.Removed)).
		Int("backed_up", len(r.result.BackedUp)).
		Msg("Profile activated")
	return r.result, nil
}

// RollbackErrors returns the failures recorded while undoing a failed
// activation.
func RollbackErrors(err error) []error {
	return errors.GetAuxiliary(err)
}

func checkVariants(p *effective.Profile) error {
	seen := make(map[string]bool, len(p.Files))
	for _, f := range p.Files {
		logical := effective.LogicalPath(f.RelativePath)
		if seen[logical] {
			return errors.Newf(errors.ErrConflictingVariant,
				"profile `%s` contains conflicting config file variants for `%s`", p.Name, logical).
				WithDetail("profile", p.Name).
				WithDetail("path", logical)
		}
		seen[logical] = true
	}
	return nil
}

func (r *run) switchFiles(next, previous *effective.Profile) error {
	relPaths := make(map[string]bool, len(next.Files))
	logical := make(map[string]bool, len(next.Files))
	for _, f := range next.Files {
		relPaths[f.RelativePath] = true
		logical[effective.LogicalPath(f.RelativePath)] = true
	}

	if previous != nil {
		for _, f := range previous.Files {
			if relPaths[f.RelativePath] || logical[effective.LogicalPath(f.RelativePath)] {
				continue
			}
			if err := r.removeOrphan(f); err != nil {
				return err
			}
		}
	}

	for _, f := range next.Files {
		if err := r.link(f); err != nil {
			return err
		}
	}
	return nil
}

// removeOrphan deletes the target of a previous-profile file if it is still
// the link the previous activation created.
func (r *run) removeOrphan(f effective.File) error {
	target := r.targetPath(f.RelativePath)

	isLink, err := filesystem.IsSymlink(r.fs, target)
	if err != nil {
		return err
	}
	if !isLink {
		return nil
	}

	current, err := r.fs.Readlink(target)
	if err != nil {
		return err
	}
	source, err := filepath.Abs(f.Source)
	if err != nil {
		return err
	}
	if current != source {
		r.logger.Debug().
			Str("target", target).
			Str("points_to", current).
			Msg("Leaving orphan that no longer points at the previous profile")
		return nil
	}

	r.journal.Record(SwitchState{Target: target, PreviousLink: current})
	if err := r.fs.Remove(target); err != nil {
		return err
	}
	r.result.Removed = append(r.result.Removed, f.RelativePath)
	r.logger.Debug().Str("target", target).Msg("Removed orphan link")
	return nil
}

func (r *run) link(f effective.File) error {
	target := r.targetPath(f.RelativePath)

	if err := r.ensureDir(filepath.Dir(target)); err != nil {
		return err
	}

	occupied := []string{target}
	if alt := effective.AlternateVariant(f.RelativePath); alt != "" {
		occupied = append(occupied, r.targetPath(alt))
	}

	targetHadState := false
	for _, path := range occupied {
		exists, err := filesystem.Exists(r.fs, path)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		if err := r.displace(path); err != nil {
			return err
		}
		if path == target {
			targetHadState = true
		}
	}

	if !targetHadState {
		r.journal.Record(SwitchState{Target: target})
	}

	source, err := filepath.Abs(f.Source)
	if err != nil {
		return err
	}
	if err := r.fs.Symlink(source, target); err != nil {
		return err
	}
	r.result.Linked = append(r.result.Linked, f.RelativePath)
	r.logger.Trace().Str("target", target).Str("source", source).Msg("Linked")
	return nil
}

// displace clears path, recording how to put it back.
func (r *run) displace(path string) error {
	isLink, err := filesystem.IsSymlink(r.fs, path)
	if err != nil {
		return err
	}

	if isLink {
		previous, err := r.fs.Readlink(path)
		if err != nil {
			return err
		}
		if err := r.fs.Remove(path); err != nil {
			return err
		}
		r.journal.Record(SwitchState{Target: path, PreviousLink: previous})
		return nil
	}

	rel, err := filepath.Rel(r.targetDir, path)
	if err != nil {
		return err
	}
	backup := filepath.Join(r.backupDir, rel)
	if err := r.fs.MkdirAll(filepath.Dir(backup), 0755); err != nil {
		return err
	}
	if err := r.fs.Rename(path, backup); err != nil {
		return err
	}
	r.journal.Record(SwitchState{Target: path, Backup: backup})
	r.result.BackedUp = append(r.result.BackedUp, filepath.ToSlash(rel))
	r.logger.Info().Str("file", path).Str("backup", backup).Msg("Backed up existing file")
	return nil
}

// ensureDir creates dir and journals every directory it had to create.
func (r *run) ensureDir(dir string) error {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		exists, err := filesystem.Exists(r.fs, d)
		if err != nil {
			return err
		}
		if exists {
			break
		}
		missing = append(missing, d)
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}

	for i := len(missing) - 1; i >= 0; i-- {
		if err := r.fs.Mkdir(missing[i], 0755); err != nil {
			return err
		}
		r.journal.Record(SwitchState{Target: missing[i], CreatedDir: true})
	}
	return nil
}

func (r *run) rollback() []error {
	var failures []error
	for _, state := range r.journal.RollbackOrder() {
		if err := r.restore(state); err != nil {
			r.logger.Error().Err(err).Str("target", state.Target).Msg("Rollback step failed")
			failures = append(failures, fmt.Errorf("%s %s: %w", state.Restores(), state.Target, err))
		}
	}
	return failures
}

func (r *run) restore(state SwitchState) error {
	if state.CreatedDir {
		return r.removeCreatedDir(state.Target)
	}

	exists, err := filesystem.Exists(r.fs, state.Target)
	if err != nil {
		return err
	}
	if exists {
		if err := r.fs.Remove(state.Target); err != nil {
			return err
		}
	}

	switch {
	case state.PreviousLink != "":
		return r.fs.Symlink(state.PreviousLink, state.Target)
	case state.Backup != "":
		backupExists, err := filesystem.Exists(r.fs, state.Backup)
		if err != nil {
			return err
		}
		if !backupExists {
			return errors.Newf(errors.ErrFileAccess, "backup %s is missing", state.Backup).
				WithDetail("backup", state.Backup)
		}
		if err := r.fs.MkdirAll(filepath.Dir(state.Target), 0755); err != nil {
			return err
		}
		return r.fs.Rename(state.Backup, state.Target)
	}
	return nil
}

// removeCreatedDir removes a directory the activation created, leaving the
// path alone when it no longer holds a directory.
func (r *run) removeCreatedDir(dir string) error {
	info, err := r.fs.Lstat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}
	return r.fs.Remove(dir)
}

func (r *run) targetPath(rel string) string {
	return filepath.Join(r.targetDir, filepath.FromSlash(rel))
}
