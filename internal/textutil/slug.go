package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength caps the length of a slug in runes.
const MaxSlugLength = 50

var nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify folds s to a lowercase ASCII token usable in file names.
// Accents are stripped ("Café" becomes "cafe"), runs of other characters
// collapse to a single dash, leading and trailing dashes are trimmed,
// and the result is then cut to at most MaxSlugLength runes.
func Slugify(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		s,
	)
	if err != nil {
		folded = s
	}
	folded = cases.Lower(language.Und).String(folded)
	slug := strings.Trim(nonSlugPattern.ReplaceAllString(folded, "-"), "-")
	// Trimming happens before the cap, so a cut slug can end in a dash.
	// Existing summary file names depend on this.
	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
	}
	return slug
}
