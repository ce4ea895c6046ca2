package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the scope banner to w. Colors are only used when color is true.
func PrintBanner(w io.Writer, version string, color bool) {
	p := termenv.Ascii
	if color {
		p = termenv.ColorProfile()
	}
	lines := []struct {
		text string
		hex  string
	}{
		{"  ___  ___ ___  _ __   ___ ", "#818cf8"},
		{" / __|/ __/ _ \\| '_ \\ / _ \\", "#a78bfa"},
		{" \\__ \\ (_| (_) | |_) |  __/", "#c084fc"},
		{" |___/\\___\\___/| .__/ \\___|", "#e879f9"},
		{"               |_|          ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.hex)))
	}
	fmt.Fprintf(w, "  %s\n\n", p.String("v"+version).Foreground(p.Color("#fb7185")).Faint())
}
