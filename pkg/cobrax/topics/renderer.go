package topics

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns the raw content of a topic file into what the help
// command prints. ext is the file extension, dot included.
type Renderer interface {
	Render(content, ext string) string
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(content, ext string) string

// Render calls f.
func (f RendererFunc) Render(content, ext string) string {
	return f(content, ext)
}

// Plain prints topics unchanged.
var Plain Renderer = RendererFunc(func(content, _ string) string {
	return content
})

// Markdown renders .md topics with glamour using the auto-detected style.
// width wraps the output; 0 keeps glamour's default. Other extensions,
// and content glamour fails on, are printed unchanged.
func Markdown(width int) Renderer {
	return RendererFunc(func(content, ext string) string {
		if ext != ".md" {
			return content
		}
		options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
		if width > 0 {
			options = append(options, glamour.WithWordWrap(width))
		}
		r, err := glamour.NewTermRenderer(options...)
		if err != nil {
			return content
		}
		out, err := r.Render(content)
		if err != nil {
			return content
		}
		return out
	})
}
