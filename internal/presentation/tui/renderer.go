package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// When styled is false (not a terminal), markdown is returned as is.
func NewRenderer(styled bool) (func(string) (string, error), error) {
	if !styled {
		return func(markdown string) (string, error) { return markdown, nil }, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
