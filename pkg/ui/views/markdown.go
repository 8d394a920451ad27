package views

import (
	"fmt"
	"strings"
)

// Markdown renders the details as a markdown document.
func (d ProfileDetails) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Name)
	if d.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Description)
	}

	active := "no"
	if d.Active {
		active = "yes"
	}
	fmt.Fprintf(&b, "- **Repository:** %s\n", d.Repository)
	fmt.Fprintf(&b, "- **Lineage:** %s\n", strings.Join(d.Lineage, " → "))
	fmt.Fprintf(&b, "- **Active:** %s\n", active)
	fmt.Fprintf(&b, "- **Target:** `%s`\n\n", d.TargetDir)

	b.WriteString("## Files\n\n")
	if len(d.Files) == 0 {
		b.WriteString("_This profile has no files._\n")
		return b.String()
	}
	b.WriteString("| Path | Kind | Source |\n|---|---|---|\n")
	for _, f := range d.Files {
		fmt.Fprintf(&b, "| `%s` | %s | `%s` |\n", f.Path, f.Kind, f.Source)
	}
	for _, f := range d.Files {
		if f.Kind != KindMerged {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n```json\n%s\n```\n", f.Path, f.Content)
	}
	return b.String()
}
