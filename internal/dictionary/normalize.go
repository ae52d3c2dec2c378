package dictionary

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks so accented names ("Lim-Dûl",
// "Jötun") match their plain-ASCII OCR renderings.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a term, folds diacritics, and collapses interior
// whitespace. Both dictionary terms and queries go through the same
// normalization so deletion variants line up.
func Normalize(term string) string {
	folded, _, err := transform.String(foldTransformer, term)
	if err != nil {
		folded = term
	}
	lowered := strings.ToLower(folded)
	return strings.Join(strings.Fields(lowered), " ")
}
