package nlp

import "testing"

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"I have a fever", "en"},
		{"मुझे बुखार है", "hi"},
		{"எனக்கு காய்ச்சல்", "ta"},
		{"నాకు జ్వరం", "te"},
		{"আমার জ্বর", "bn"},
		{"مجھے بخار ہے", "ur"},
		{"", "en"},
		{"12345", "en"},
	}

	for _, tc := range cases {
		if got := DetectLanguage(tc.text); got != tc.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  I CAN'T   breathe!! ", "i can't breathe"},
		{"Fever, cough & cold.", "fever cough cold"},
		{"café", "cafe"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeText(tc.in); got != tc.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokenizeDropsStopWords(t *testing.T) {
	got := Tokenize("i have a fever and cough")
	want := []string{"fever", "cough"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize = %v, want %v", got, want)
		}
	}
}
