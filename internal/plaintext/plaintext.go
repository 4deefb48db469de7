// Package plaintext reduces rich-text note content to comparable plain text.
// The editor stores HTML; change detection and emptiness checks must ignore
// the markup.
package plaintext

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// Strip removes all HTML markup and decodes entities, returning the
// trimmed plain text.
func Strip(rich string) string {
	// Block-level breaks matter for emptiness only insofar as they are
	// whitespace, so a plain tag strip is enough here.
	text := stripPolicy.Sanitize(rich)
	return strings.TrimSpace(html.UnescapeString(text))
}

// Empty reports whether rich content has no visible text once markup and
// whitespace are removed. "<p><br></p>" counts as empty.
func Empty(rich string) bool {
	return Strip(rich) == ""
}
