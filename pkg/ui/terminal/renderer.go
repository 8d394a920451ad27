// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/ocp/pkg/style"
	"github.com/arthur-debert/ocp/pkg/ui/views"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Renderer provides rich terminal output using lipgloss tables and glamour
type Renderer struct {
	output io.Writer
	width  int
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w, width: views.MaxWidth()}
}

// RenderResult renders a views value with rich terminal formatting
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
		return r.renderTable(views.RepositoryTable(v), -1)
	case views.Message:
		return r.RenderMessage(v.Text)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// renderTable styles t; activeCol, when not negative, is highlighted.
func (r *Renderer) renderTable(t views.Table, activeCol int) error {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(style.TableBorderStyle).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return style.HeaderStyle
			case col == activeCol:
				return style.CellStyle.Inherit(style.ActiveStyle)
			default:
				return style.CellStyle
			}
		})
	_, err := fmt.Fprintln(r.output, tbl.Render())
	return err
}

func (r *Renderer) renderProfiles(l views.ProfileList) error {
	if len(l.Profiles) == 0 {
		return r.RenderMessage(style.MutedStyle.Render("No profiles available."))
	}
	t := views.ProfileTable(l, r.width)
	activeCol := -1
	for i, h := range t.Headers {
		if h == views.HeaderActive {
			activeCol = i
		}
	}
	if err := r.renderTable(t, activeCol); err != nil {
		return err
	}

	if l.HasUpdates() {
		msg := views.UpdateMarker + " Newer commits are available in remote repositories. Run `ocp profile refresh`."
		if err := r.RenderMessage(style.UpdateStyle.Render(msg)); err != nil {
			return err
		}
	}
	if failed := l.FailedChecks(); len(failed) > 0 {
		msg := style.FailMarker + " Skipped remote update checks for repositories: " + strings.Join(failed, ", ") + "."
		return r.RenderMessage(style.WarningStyle.Render(msg))
	}
	return nil
}

func (r *Renderer) renderDetails(d views.ProfileDetails) error {
	md := d.Markdown()

	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if r.width > 0 {
		options = append(options, glamour.WithWordWrap(r.width))
	}
	renderer, err := glamour.NewTermRenderer(options...)
	if err == nil {
		if rendered, rerr := renderer.Render(md); rerr == nil {
			md = rendered
		}
	}
	_, err = io.WriteString(r.output, md)
	return err
}

func (r *Renderer) renderActivation(a views.Activation) error {
	var b strings.Builder
	b.WriteString(style.SuccessStyle.Render(fmt.Sprintf("%s Switched to profile `%s`", style.ActiveMarker, a.Profile)))
	b.WriteString(" " + style.MutedStyle.Render(strings.Join(a.Lineage, " → ")) + "\n")
	for _, p := range a.Linked {
		fmt.Fprintf(&b, "  %s %s\n", style.LinkedStyle.Render("linked "), p)
	}
	for _, p := range a.Removed {
		fmt.Fprintf(&b, "  %s %s\n", style.MutedStyle.Render("removed"), p)
	}
	for _, p := range a.BackedUp {
		fmt.Fprintf(&b, "  %s %s\n", style.WarningStyle.Render("backup "), p)
	}
	if a.BackupDir != "" {
		fmt.Fprintf(&b, "Existing files were moved to %s\n", style.PathStyle.Render(a.BackupDir))
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}
