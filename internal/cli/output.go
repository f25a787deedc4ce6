package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// emit writes v as JSON in --json mode, or the rendered markdown otherwise.
func (a *App) emit(v any, markdown string) error {
	if a.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	out, err := a.renderer.Render(markdown)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = io.WriteString(a.out, out)
	return err
}

// printSystemMessage prints a standardized status line.
func (a *App) printSystemMessage(format string, args ...any) {
	if a.json {
		return
	}
	fmt.Fprintf(a.out, ">>> %s\n", fmt.Sprintf(format, args...))
}
