package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how command results are printed.
type Format int

const (
	// FormatAuto picks terminal or text depending on the output
	FormatAuto Format = iota
	// FormatTerminal uses colors, tables and rendered markdown
	FormatTerminal
	// FormatText is unstyled text, for pipes and NO_COLOR
	FormatText
	// FormatJSON encodes results as JSON
	FormatJSON
	// FormatYAML encodes results as YAML
	FormatYAML
)

var formatNames = []string{"auto", "term", "text", "json", "yaml"}

// aliases maps accepted spellings to formats.
var aliases = map[string]Format{
	"":         FormatAuto,
	"auto":     FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
	"yaml":     FormatYAML,
	"yml":      FormatYAML,
}

// FormatNames lists the canonical format names, for flag completion.
func FormatNames() []string {
	out := make([]string, len(formatNames))
	copy(out, formatNames)
	return out
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// ParseFormat accepts a canonical name or an alias, case-insensitively.
func ParseFormat(s string) (Format, error) {
	if f, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return FormatAuto, fmt.Errorf("unknown format: %s (expected one of %s)", s, strings.Join(formatNames, ", "))
}

// IsMachine reports whether f is meant for programs rather than people.
func (f Format) IsMachine() bool {
	return f == FormatJSON || f == FormatYAML
}

// DetectFormat returns FormatTerminal for a color-capable terminal and
// FormatText for pipes, redirects, NO_COLOR and ASCII-only terminals.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.NewOutput(output).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
