package cli

import (
	"fmt"
	"io"

	"github.com/arthur-debert/ocp/pkg/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// output prints command results and status lines in the selected format.
// Results and success lines go to stdout; progress, warnings and hints go
// to stderr so machine formats stay parseable.
type output struct {
	format   ui.Format
	renderer ui.Renderer
	out      io.Writer
	err      io.Writer
}

func newOutput(cmd *cobra.Command, format ui.Format) (*output, error) {
	out := cmd.OutOrStdout()
	format = ui.Resolve(format, out)
	renderer, err := ui.NewRenderer(format, out)
	if err != nil {
		return nil, err
	}
	return &output{format: format, renderer: renderer, out: out, err: cmd.ErrOrStderr()}, nil
}

func (o *output) result(v interface{}) error {
	return o.renderer.RenderResult(v)
}

func (o *output) success(msg string) error {
	switch o.format {
	case ui.FormatTerminal:
		pterm.Success.WithWriter(o.out).Println(msg)
		return nil
	case ui.FormatJSON, ui.FormatYAML:
		return o.renderer.RenderMessage(msg)
	default:
		_, err := fmt.Fprintln(o.out, msg)
		return err
	}
}

func (o *output) info(msg string) {
	if o.format == ui.FormatTerminal {
		pterm.Info.WithWriter(o.err).Println(msg)
		return
	}
	fmt.Fprintln(o.err, msg)
}

func (o *output) warning(msg string) {
	if o.format == ui.FormatTerminal {
		pterm.Warning.WithWriter(o.err).Println(msg)
		return
	}
	fmt.Fprintln(o.err, msg)
}

// progress shows a spinner on terminals and returns the function that
// clears it.
func (o *output) progress(msg string) func() {
	if o.format != ui.FormatTerminal {
		return func() {}
	}
	spinner, err := pterm.DefaultSpinner.
		WithWriter(o.err).
		WithRemoveWhenDone(true).
		Start(msg)
	if err != nil {
		return func() {}
	}
	return func() { _ = spinner.Stop() }
}
