// Package present renders search results as plain text.
package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/perbu/lexsearch/pkg/lexsearch"
)

var rule = strings.Repeat("-", 80)

// Options controls optional parts of the listing.
type Options struct {
	ShowDistance bool
}

// Render writes the query followed by one block per match, in order.
func Render(w io.Writer, query string, matches []lexsearch.Match, opts Options) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Query: %s\n", query)
	if len(matches) == 0 {
		b.WriteString("No results found\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Top %d relevant sections:\n\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(&b, "Section %s: %s", m.Record.Section, m.Record.Title)
		if opts.ShowDistance {
			fmt.Fprintf(&b, " (distance: %.4f)", m.Distance)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s\n\n", m.Record.Description)
		b.WriteString(rule + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
