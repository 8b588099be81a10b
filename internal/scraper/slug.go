package scraper

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display title into the catalogue path segment anime-sama uses,
// e.g. "Kimetsu no Yaiba : Hashira Geiko-hen" -> "kimetsu-no-yaiba-hashira-geiko-hen"
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	folded = strings.ReplaceAll(strings.ToLower(folded), "'", "")
	return strings.Trim(nonSlug.ReplaceAllString(folded, "-"), "-")
}
