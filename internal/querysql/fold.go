package querysql

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the caseless form of s used by text matching. SQLite's
// LOWER and NOCASE only know ASCII, so stores keep Fold of each text
// column in a shadow column and Like patterns are folded the same way.
func Fold(s string) string {
	return norm.NFC.String(cases.Fold().String(norm.NFC.String(s)))
}
