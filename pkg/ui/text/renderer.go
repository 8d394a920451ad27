// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/ocp/pkg/ui/views"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders a views value as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case views.ProfileList:
		return r.renderProfiles(v)
	case views.ProfileDetails:
		return r.renderDetails(v)
	case views.Activation:
		return r.renderActivation(v)
	case views.RepositoryList:
		if len(v.Repositories) == 0 {
			return r.RenderMessage("No repositories configured.")
		}
		return r.renderTable(views.RepositoryTable(v))
	case views.Message:
		return r.RenderMessage(v.Text)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) renderTable(t views.Table) error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Headers...).
		Rows(t.Rows...)
	_, err := fmt.Fprintln(r.output, tbl.Render())
	return err
}

func (r *Renderer) renderProfiles(l views.ProfileList) error {
	if len(l.Profiles) == 0 {
		return r.RenderMessage("No profiles available.")
	}
	if err := r.renderTable(views.ProfileTable(l, views.MaxWidth())); err != nil {
		return err
	}
	if l.HasUpdates() {
		if err := r.RenderMessage(views.UpdateMarker + " Newer commits are available in remote repositories. Run `ocp profile refresh`."); err != nil {
			return err
		}
	}
	if failed := l.FailedChecks(); len(failed) > 0 {
		return r.RenderMessage("! Skipped remote update checks for repositories: " + strings.Join(failed, ", ") + ".")
	}
	return nil
}

func (r *Renderer) renderDetails(d views.ProfileDetails) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile:    %s\n", d.Name)
	if d.Description != "" {
		fmt.Fprintf(&b, "About:      %s\n", d.Description)
	}
	fmt.Fprintf(&b, "Repository: %s\n", d.Repository)
	fmt.Fprintf(&b, "Lineage:    %s\n", strings.Join(d.Lineage, " -> "))
	fmt.Fprintf(&b, "Active:     %t\n", d.Active)
	fmt.Fprintf(&b, "Target:     %s\n", d.TargetDir)
	b.WriteString("Files:\n")
	for _, f := range d.Files {
		fmt.Fprintf(&b, "  %s [%s] %s\n", f.Path, f.Kind, f.Source)
	}
	for _, f := range d.Files {
		if f.Kind == views.KindMerged {
			fmt.Fprintf(&b, "\n%s:\n%s\n", f.Path, f.Content)
		}
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) renderActivation(a views.Activation) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Switched to profile `%s` (%s).\n", a.Profile, strings.Join(a.Lineage, " -> "))
	for _, p := range a.Linked {
		fmt.Fprintf(&b, "  linked   %s\n", p)
	}
	for _, p := range a.Removed {
		fmt.Fprintf(&b, "  removed  %s\n", p)
	}
	for _, p := range a.BackedUp {
		fmt.Fprintf(&b, "  backup   %s\n", p)
	}
	if a.BackupDir != "" {
		fmt.Fprintf(&b, "Existing files were moved to %s\n", a.BackupDir)
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}
