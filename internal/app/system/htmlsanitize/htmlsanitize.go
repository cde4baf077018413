// Package htmlsanitize cleans user-supplied strings before they are stored.
//
// Clan names, slogans, rally titles and ledger labels are shown verbatim by
// the client, so markup is stripped rather than filtered.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity encoding are peeled.
const maxPasses = 8

// Text strips all HTML from s and collapses runs of whitespace. Entities are
// decoded so "Tom &amp; Jerry" reads as "Tom & Jerry", and the result is
// sanitized again after every decode until it stops changing, so encoded
// markup such as "&lt;b&gt;" never comes back as a live tag.
func Text(s string) string {
	if s == "" {
		return ""
	}
	clean := s
	for range maxPasses {
		next := html.UnescapeString(strict.Sanitize(clean))
		if next == clean {
			return strings.Join(strings.Fields(clean), " ")
		}
		clean = next
	}
	// Still changing: keep the escaped form.
	return strings.Join(strings.Fields(strict.Sanitize(clean)), " ")
}
