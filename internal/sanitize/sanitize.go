// Package sanitize normalizes user-supplied text before persistence. Every
// write path (poll questions and options on create and update) goes through
// Text, so stored values are always in sanitized form.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// maxRounds bounds the strip/unescape loop; real inputs converge in one or
// two passes.
const maxRounds = 8

// Text strips all HTML markup and trims surrounding whitespace. The result is
// a fixpoint: Text(Text(s)) == Text(s), so re-sanitizing stored values never
// changes them.
func Text(s string) string {
	out := strings.TrimSpace(s)
	for i := 0; i < maxRounds; i++ {
		next := strings.TrimSpace(html.UnescapeString(policy.Sanitize(out)))
		if next == out {
			return out
		}
		out = next
	}
	return out
}

// Options sanitizes each element in place and returns the slice.
func Options(opts []string) []string {
	for i, o := range opts {
		opts[i] = Text(o)
	}
	return opts
}
