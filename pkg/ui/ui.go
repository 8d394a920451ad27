// Package ui renders command results in the selected output format:
// terminal (rich), text (plain), JSON or YAML.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/ocp/pkg/ui/json"
	"github.com/arthur-debert/ocp/pkg/ui/terminal"
	"github.com/arthur-debert/ocp/pkg/ui/text"
	"github.com/arthur-debert/ocp/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders a value from the views package
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// Resolve turns FormatAuto into a concrete format for output. Writers
// that are not files cannot be inspected and get plain text.
func Resolve(format Format, output io.Writer) Format {
	if format != FormatAuto {
		return format
	}
	if file, ok := output.(*os.File); ok {
		return DetectFormat(file)
	}
	return FormatText
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch Resolve(format, output) {
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	case FormatYAML:
		return yaml.New(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
