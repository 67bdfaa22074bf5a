package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]+`)
	separators   = regexp.MustCompile(`[\s-]+`)
)

// Make lowercases s, folds accented letters to ASCII and joins words with
// hyphens: "Jalan Rusak di Kelurahan Ñ" -> "jalan-rusak-di-kelurahan-n".
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	slug := strings.ToLower(folded)
	slug = invalidChars.ReplaceAllString(slug, "")
	slug = separators.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Scoped appends an owner id so the same title from two users gives two slugs.
func Scoped(title, owner string) string {
	return Make(title) + "-" + owner
}
