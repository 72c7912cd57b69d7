package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stopWords = map[string]bool{
	"i": true, "me": true, "my": true, "am": true, "is": true, "are": true,
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "on": true, "for": true, "with": true, "have": true,
	"has": true, "had": true, "been": true, "feel": true, "feeling": true,
	"got": true, "get": true, "getting": true, "very": true, "really": true,
	"some": true, "since": true, "from": true, "also": true, "bit": true,
	"it": true, "its": true, "there": true, "please": true, "help": true,
}

// latinDiacritics covers the combining marks produced by decomposing accented
// Latin letters. Indic vowel signs are also category Mn and must survive, so
// the removal cannot cover all of unicode.Mn.
var latinDiacritics = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036F, Stride: 1}},
}

// NormalizeText lowercases, strips combining marks from Latin text, drops
// punctuation and collapses whitespace. Indic script content is preserved as
// is apart from casing and spacing.
func NormalizeText(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(latinDiacritics)), norm.NFC)
	if normalized, _, err := transform.String(t, text); err == nil {
		text = normalized
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		case r == '\'':
			// keep apostrophes so "can't breathe" survives normalization
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits normalized text into content tokens with stop words removed.
func Tokenize(normalizedText string) []string {
	fields := strings.Fields(normalizedText)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !stopWords[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
