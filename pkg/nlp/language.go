package nlp

import "unicode"

type scriptRange struct {
	lang string
	lo   rune
	hi   rune
}

// Script blocks checked in order; Devanagari is reported as Hindi.
var scriptRanges = []scriptRange{
	{"hi", 0x0900, 0x097F},
	{"bn", 0x0980, 0x09FF},
	{"pa", 0x0A00, 0x0A7F},
	{"gu", 0x0A80, 0x0AFF},
	{"or", 0x0B00, 0x0B7F},
	{"ta", 0x0B80, 0x0BFF},
	{"te", 0x0C00, 0x0C7F},
	{"kn", 0x0C80, 0x0CFF},
	{"ml", 0x0D00, 0x0D7F},
	{"ur", 0x0600, 0x06FF},
}

// DetectLanguage guesses the language of the text from its script. Latin
// script and anything unrecognized fall back to English.
func DetectLanguage(text string) string {
	for _, r := range text {
		for _, sr := range scriptRanges {
			if r >= sr.lo && r <= sr.hi {
				return sr.lang
			}
		}
	}

	for _, r := range text {
		if unicode.In(r, unicode.Latin) {
			return "en"
		}
	}

	return "en"
}
