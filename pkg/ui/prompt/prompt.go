// Package prompt asks the user how to resolve a refresh conflict.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/profiles"
)

// ConflictPrompt reads a numbered choice for a refresh conflict.
type ConflictPrompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConflictPrompt creates a prompt reading from in and writing to out.
func NewConflictPrompt(in io.Reader, out io.Writer) *ConflictPrompt {
	return &ConflictPrompt{in: bufio.NewReader(in), out: out}
}

var choices = map[string]profiles.Resolution{
	"1": profiles.ResolveDiscard,
	"2": profiles.ResolveCommitAndForcePush,
	"3": profiles.ResolveNothing,
}

// Ask shows the conflict and its diff and loops until a valid option is
// entered. End of input counts as "do nothing".
func (p *ConflictPrompt) Ask(c profiles.Conflict) (profiles.Resolution, error) {
	fmt.Fprintf(p.out, "Local uncommitted changes detected in repository `%s`.\n", c.Repository)
	if strings.TrimSpace(c.Diff) != "" {
		fmt.Fprintln(p.out, "Diff:")
		fmt.Fprintln(p.out, strings.TrimRight(c.Diff, "\n"))
	}
	fmt.Fprintln(p.out, "Choose how to proceed:")
	fmt.Fprintln(p.out, "1) Discard local changes and refresh from repository.")
	fmt.Fprintln(p.out, "2) Commit local changes and force push to remote.")
	fmt.Fprintln(p.out, "3) Do nothing and fix manually.")

	for {
		fmt.Fprint(p.out, "Enter option [1-3]: ")
		line, err := p.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return profiles.ResolveNothing, errors.Wrap(err, errors.ErrInvalidInput,
				"failed to read refresh conflict option")
		}
		if r, ok := choices[strings.TrimSpace(line)]; ok {
			return r, nil
		}
		if err == io.EOF {
			fmt.Fprintln(p.out)
			return profiles.ResolveNothing, nil
		}
		fmt.Fprintln(p.out, "Invalid option. Please enter 1, 2, or 3.")
	}
}
