package catalog

import (
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

/*
	Normalization helpers
	---------------------
	Shared by the row validator, the reference resolver and the
	duplicate/merge engine so that "same value" means the same thing on
	every path into the store.
*/

// DateLayout is the only accepted textual date form.
const DateLayout = "2006-01-02"

var (
	nonSlug    = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash  = regexp.MustCompile(`-+`)
	whitespace = regexp.MustCompile(`\s+`)
	digits     = regexp.MustCompile(`\d+`)

	stripMarkup = bluemonday.StrictPolicy()

	// Folds away combining marks so "Amélie" and "Amelie" share a slug.
	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MakeSlug generates a URL-safe slug from free text.
// Example: "Léon: The Professional" -> "leon-the-professional"
func MakeSlug(text string) string {
	base := lowerTrim(text)
	if folded, _, err := transform.String(deaccent, base); err == nil {
		base = folded
	}
	base = strings.ReplaceAll(base, " ", "-")
	base = strings.ReplaceAll(base, "_", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	return strings.Trim(base, "-")
}

// NormalizeTitle reduces a title to its comparison form: markup stripped,
// HTML entities decoded, lowercased, runs of whitespace collapsed.
func NormalizeTitle(title string) string {
	t := stripMarkup.Sanitize(title)
	t = html.UnescapeString(t)
	t = lowerTrim(t)
	return whitespace.ReplaceAllString(t, " ")
}

// Humanize turns a slug-like reference into a display name.
// Example: "quentin_tarantino" -> "Quentin Tarantino"
func Humanize(ref string) string {
	t := strings.ReplaceAll(ref, "-", " ")
	t = strings.ReplaceAll(t, "_", " ")
	words := strings.Fields(t)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// IsStrictDate reports whether value is a valid calendar date written
// exactly in DateLayout. time.Parse alone tolerates missing leading zeros,
// so the reformatted value must round-trip byte for byte.
func IsStrictDate(value string) bool {
	t, err := time.Parse(DateLayout, value)
	return err == nil && t.Format(DateLayout) == value
}

// NormalizeDate coerces a date given in any parseable representation to
// DateLayout. Strict form wins; otherwise a lenient best-effort parse over
// common layouts. Returns "" when nothing matches.
func NormalizeDate(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if IsStrictDate(v) {
		return v
	}
	for _, layout := range []string{
		"2006-1-2",
		"2006/01/02",
		"01/02/2006",
		"Jan 2, 2006",
		"January 2, 2006",
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(DateLayout)
		}
	}
	return ""
}

// NormalizeRuntime extracts an integer minute count from free text by taking
// the first run of digits ("148 min" -> "148"). Returns "" when the text
// carries no digits.
func NormalizeRuntime(value string) string {
	return digits.FindString(value)
}

// NormalizeContentRating uppercases and trims a rating code. Membership in
// ContentRatings is the caller's concern.
func NormalizeContentRating(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
