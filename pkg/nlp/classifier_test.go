package nlp

import (
	"context"
	"testing"

	"HealthTriageBot/internal/entity"
)

func TestClassifyIntents(t *testing.T) {
	c := NewRuleClassifier(defaultReferenceData())

	cases := []struct {
		name string
		text string
		want entity.Intent
	}{
		{"greeting", "hello", entity.IntentGreeting},
		{"greeting with filler", "hi there", entity.IntentGreeting},
		{"symptom report", "fever and cough since yesterday", entity.IntentSymptomReport},
		{"medicine by name", "what is the dose of paracetamol", entity.IntentMedicineQuery},
		{"medicine by cue", "which tablet for headache", entity.IntentMedicineQuery},
		{"hospital lookup", "nearest hospital in mumbai", entity.IntentHospitalLookup},
		{"health tip", "give me a health tip", entity.IntentHealthTip},
		{"emergency phrase", "my father has severe chest pain", entity.IntentEmergencyKeyword},
		{"gibberish", "xylophone quarterly", entity.IntentUnknown},
		{"empty", "", entity.IntentUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := c.Classify(context.Background(), NormalizeText(tc.text), "en")
			if err != nil {
				t.Fatalf("Classify returned error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Classify(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

func TestEmergencyPhraseOverridesOtherCues(t *testing.T) {
	c := NewRuleClassifier(defaultReferenceData())

	text := NormalizeText("which tablet helps, he is unconscious")
	got, conf, err := c.Classify(context.Background(), text, "en")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got != entity.IntentEmergencyKeyword {
		t.Fatalf("Classify = %s, want EMERGENCY_KEYWORD", got)
	}
	if conf < 0.9 {
		t.Errorf("emergency confidence = %v, want >= 0.9", conf)
	}
}

func TestExtractSymptomsMultiWordFirst(t *testing.T) {
	c := NewRuleClassifier(defaultReferenceData())

	matched, unmatched := c.ExtractSymptoms(NormalizeText("chest pain and sweating after lunch"))

	wantMatched := map[string]bool{"chest pain": true, "sweating": true}
	if len(matched) != len(wantMatched) {
		t.Fatalf("matched = %v, want %v", matched, wantMatched)
	}
	for _, m := range matched {
		if !wantMatched[m] {
			t.Errorf("unexpected symptom %q", m)
		}
	}

	for _, u := range unmatched {
		if u == "chest" || u == "pain" {
			t.Errorf("multi-word symptom leaked into unmatched tokens: %q", u)
		}
	}
}

func TestSymptomConfidenceGrowsWithCount(t *testing.T) {
	c := NewRuleClassifier(defaultReferenceData())

	_, one, _ := c.Classify(context.Background(), NormalizeText("I have a cough"), "en")
	_, three, _ := c.Classify(context.Background(), NormalizeText("cough fever and fatigue"), "en")
	if three <= one {
		t.Errorf("confidence with three symptoms (%v) should exceed one symptom (%v)", three, one)
	}
}
