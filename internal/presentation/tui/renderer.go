package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const defaultWidth = 80

// Renderer turns markdown into terminal output.
// Output that is not a terminal gets the plain "notty" style.
type Renderer struct {
	r   *glamour.TermRenderer
	tty bool
}

// NewRenderer returns a renderer tuned for w.
func NewRenderer(w io.Writer) (*Renderer, error) {
	tty, width := inspect(w)

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if tty {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{r: r, tty: tty}, nil
}

// Render renders markdown.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.r.Render(markdown)
}

// TTY reports whether the renderer targets a terminal.
func (r *Renderer) TTY() bool { return r.tty }

func inspect(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok {
		return false, defaultWidth
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return false, defaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = defaultWidth
	}
	return true, width
}
