// Package git wraps the git binary for profile repositories.
//
// Every operation shells out through a Runner so the service layer can be
// tested against a mock.
package git

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/logging"
	"github.com/rs/zerolog"
)

// CommitMessage is used when local changes are committed before a force push.
const CommitMessage = "ocp: commit local changes"

// Runner executes git with args. dir, when not empty, is passed as -C.
type Runner interface {
	Run(dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary found in PATH.
type ExecRunner struct {
	Binary string
}

// Run implements Runner.
func (r ExecRunner) Run(dir string, args ...string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "git"
	}
	full := args
	if dir != "" {
		full = append([]string{"-C", dir}, args...)
	}

	cmd := exec.Command(binary, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Never prompt for credentials.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return stdout.String(), errors.Wrapf(err, errors.ErrGit, "git %s failed: %s", args[0], msg).
			WithDetail("args", full)
	}
	return stdout.String(), nil
}

// Commit describes the latest commit of a repository.
type Commit struct {
	ShortSHA string
	Time     time.Time
	Message  string
}

// Client performs the git operations ocp needs.
type Client struct {
	runner Runner
	logger zerolog.Logger
}

// NewClient returns a Client using runner.
func NewClient(runner Runner) *Client {
	return &Client{runner: runner, logger: logging.GetLogger("git")}
}

func (c *Client) run(dir string, args ...string) (string, error) {
	c.logger.Debug().Str("dir", dir).Strs("args", args).Msg("Running git")
	return c.runner.Run(dir, args...)
}

// Verify fails when the git binary cannot be run.
func (c *Client) Verify() error {
	if _, err := c.run("", "--version"); err != nil {
		return errors.Wrap(err, errors.ErrGit,
			"missing required dependency `git`. Install Git and ensure it is available in PATH")
	}
	return nil
}

// Clone clones uri into localPath, creating its parent directory.
func (c *Client) Clone(uri, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to create %s", filepath.Dir(localPath))
	}
	if _, err := c.run("", "clone", "--quiet", uri, localPath); err != nil {
		return errors.Wrapf(err, errors.ErrGit, "git clone failed for %s", uri).
			WithDetail("uri", uri)
	}
	return nil
}

// Pull fast-forwards the repository.
func (c *Client) Pull(localPath string) error {
	_, err := c.run(localPath, "pull", "--ff-only", "--quiet")
	return err
}

// Init creates an empty repository.
func (c *Client) Init(localPath string) error {
	_, err := c.run(localPath, "init", "--quiet")
	return err
}

// HasLocalChanges reports uncommitted changes, untracked files included.
func (c *Client) HasLocalChanges(localPath string) (bool, error) {
	out, err := c.run(localPath, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// LocalDiff returns the working tree diff against HEAD followed by the
// short status, which lists untracked files the diff does not show.
func (c *Client) LocalDiff(localPath string) (string, error) {
	diff, err := c.run(localPath, "diff", "HEAD")
	if err != nil {
		return "", err
	}
	status, err := c.run(localPath, "status", "--short")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(diff, "\n") + "\n" + strings.TrimRight(status, "\n"), nil
}

// LatestCommit describes HEAD.
func (c *Client) LatestCommit(localPath string) (Commit, error) {
	out, err := c.run(localPath, "log", "-1", "--format=%h%x1f%ct%x1f%s")
	if err != nil {
		return Commit{}, err
	}
	return parseCommit(out)
}

func parseCommit(out string) (Commit, error) {
	parts := strings.SplitN(strings.TrimSpace(out), "\x1f", 3)
	if len(parts) != 3 {
		return Commit{}, errors.Newf(errors.ErrGit, "unexpected git log output %q", out)
	}
	epoch, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Commit{}, errors.Wrapf(err, errors.ErrGit, "unexpected commit time %q", parts[1])
	}
	return Commit{ShortSHA: parts[0], Time: time.Unix(epoch, 0), Message: parts[2]}, nil
}

func (c *Client) fetch(localPath string) error {
	_, err := c.run(localPath, "fetch", "--quiet")
	return err
}

// DiffersFromUpstream fetches and reports whether HEAD and its upstream
// point at different commits.
func (c *Client) DiffersFromUpstream(localPath string) (bool, error) {
	if err := c.fetch(localPath); err != nil {
		return false, err
	}
	head, err := c.run(localPath, "rev-parse", "HEAD")
	if err != nil {
		return false, err
	}
	upstream, err := c.run(localPath, "rev-parse", "@{upstream}")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(head) != strings.TrimSpace(upstream), nil
}

// CommitsBehindRemote fetches and counts upstream commits missing locally.
func (c *Client) CommitsBehindRemote(localPath string) (int, error) {
	if err := c.fetch(localPath); err != nil {
		return 0, err
	}
	out, err := c.run(localPath, "rev-list", "--count", "HEAD..@{upstream}")
	if err != nil {
		return 0, err
	}
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrGit, "unexpected commit count %q", trimmed)
	}
	return n, nil
}

// DiscardLocalChanges resets tracked files, removes untracked ones and pulls.
func (c *Client) DiscardLocalChanges(localPath string) error {
	if _, err := c.run(localPath, "reset", "--hard", "--quiet"); err != nil {
		return err
	}
	if _, err := c.run(localPath, "clean", "-fd", "--quiet"); err != nil {
		return err
	}
	return c.Pull(localPath)
}

// CommitLocalChangesAndForcePush commits everything and overwrites the
// upstream branch with it.
func (c *Client) CommitLocalChangesAndForcePush(localPath string) error {
	steps := [][]string{
		{"add", "--all"},
		{"commit", "--quiet", "-m", CommitMessage},
		{"push", "--force", "--quiet"},
	}
	for _, args := range steps {
		if _, err := c.run(localPath, args...); err != nil {
			return err
		}
	}
	return nil
}
