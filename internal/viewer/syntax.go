package viewer

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// Standalone help mode: renders the embedded filter-syntax reference to
// the terminal.

//go:embed syntax.md
var syntaxDoc string

// RunSyntax writes the rendered syntax reference to w. If the terminal
// renderer cannot be set up, the raw markdown is written instead.
func RunSyntax(w io.Writer) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		_, werr := io.WriteString(w, syntaxDoc)
		return werr
	}

	rendered, err := renderer.Render(syntaxDoc)
	if err != nil {
		_, werr := io.WriteString(w, syntaxDoc)
		return werr
	}

	if _, err := fmt.Fprint(w, rendered); err != nil {
		return fmt.Errorf("writing syntax help: %w", err)
	}
	return nil
}
