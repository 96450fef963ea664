package mirror

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripTags flattens rendered HTML to plain text: tags removed, entities
// unescaped, whitespace collapsed.
func StripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}

var slugNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normalizes a name or raw slug into the canonical slug form used for
// term matching and creation. Lookup and create must share this rule so
// repeated imports converge on the same slug for the same name.
func Slugify(s string) string {
	if normalized, _, err := transform.String(slugNormalizer, s); err == nil {
		s = normalized
	}

	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))

	lastDash := true // swallow leading dashes
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
