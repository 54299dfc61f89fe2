package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldKey reduces a key to lower case without diacritics, so "Activité",
// "ACTIVITE" and "activite" name the same key.
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// normalizeValue puts user text in NFC so it compares with stored names,
// which are written NFC.
func normalizeValue(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
