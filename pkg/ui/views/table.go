package views

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultMaxWidth is used when COLUMNS is unset or invalid.
const DefaultMaxWidth = 120

// Profile table headers.
const (
	HeaderName        = "NAME"
	HeaderDescription = "DESCRIPTION"
	HeaderActive      = "ACTIVE"
	HeaderRepository  = "REPOSITORY"
	HeaderVersion     = "VERSION"
	HeaderLastUpdated = "LAST UPDATED"
	HeaderMessage     = "MESSAGE"
)

// Markers used in the profile table.
const (
	ActiveMarker = "✓"
	UpdateMarker = "❄"
)

// per-column padding plus one border
const columnOverhead = 3

// MaxWidth returns the table width budget from COLUMNS.
func MaxWidth() int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && n > 0 {
		return n
	}
	return DefaultMaxWidth
}

// Table is a header row plus data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ProfileTable lays out l for a table at most maxWidth wide. The
// repository column is dropped first when space runs out.
func ProfileTable(l ProfileList, maxWidth int) Table {
	full := Table{Headers: []string{
		HeaderName, HeaderDescription, HeaderActive, HeaderRepository,
		HeaderVersion, HeaderLastUpdated, HeaderMessage,
	}}
	for _, p := range l.Profiles {
		active := ""
		if p.Active {
			active = ActiveMarker
		}
		version := p.Version
		if p.UpdateAvailable {
			version += " " + UpdateMarker
		}
		full.Rows = append(full.Rows, []string{
			p.Name, p.Description, active, p.Repository, version, p.LastUpdated, p.Message,
		})
	}

	if full.width() <= maxWidth {
		return full
	}
	return full.without(HeaderRepository)
}

func (t Table) width() int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	total := 1
	for _, w := range widths {
		total += w + columnOverhead
	}
	return total
}

func (t Table) without(header string) Table {
	col := -1
	for i, h := range t.Headers {
		if h == header {
			col = i
		}
	}
	if col < 0 {
		return t
	}
	out := Table{Headers: remove(t.Headers, col)}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, remove(row, col))
	}
	return out
}

func remove(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// RepositoryTable lays out the repository list.
func RepositoryTable(l RepositoryList) Table {
	t := Table{Headers: []string{HeaderName, "URI", "PROFILES"}}
	for _, r := range l.Repositories {
		t.Rows = append(t.Rows, []string{r.Name, r.URI, strings.Join(r.Profiles, ", ")})
	}
	return t
}
