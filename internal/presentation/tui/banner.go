package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/folio/pkg/stream"
	"github.com/muesli/termenv"
)

// PrintBanner outputs the folio banner and version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __       _ _       ", "#fbbf24"},
		{"  / _| ___ | (_) ___  ", "#f59e0b"},
		{" | |_ / _ \\| | |/ _ \\ ", "#f97316"},
		{" |  _| (_) | | | (_) |", "#ef4444"},
		{" |_|  \\___/|_|_|\\___/ ", "#e11d48"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}

// StateLabel colors a stream state for status lines.
func StateLabel(s stream.State) string {
	p := termenv.ColorProfile()
	label := termenv.String(s.String())
	switch s {
	case stream.Closed:
		return label.Foreground(p.Color("#22c55e")).String()
	case stream.Errored:
		return label.Foreground(p.Color("#ef4444")).Bold().String()
	case stream.Receiving, stream.Opened:
		return label.Foreground(p.Color("#38bdf8")).String()
	default:
		return label.Faint().String()
	}
}
