package gazetteer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a place name and strips diacritics so that
// "Ñuñoa", "NUNOA" and "nunoa" all map to the same key.
func Normalize(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw string.
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
