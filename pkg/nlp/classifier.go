package nlp

import (
	"context"
	"sort"
	"strings"

	"HealthTriageBot/internal/entity"
)

var greetingWords = []string{"hi", "hello", "hey", "namaste", "namaskar", "vanakkam", "good morning", "good evening", "good afternoon"}

var medicineCueWords = []string{"medicine", "tablet", "dose", "dosage", "drug", "capsule", "syrup", "prescription"}

var hospitalCueWords = []string{"hospital", "clinic", "doctor near", "ambulance", "helpline", "emergency room"}

var healthTipCueWords = []string{"health tip", "tip", "advice", "stay healthy", "wellness"}

// RuleClassifier is the keyword-driven classifier. It is fully deterministic
// and needs no network, which keeps it the default backend.
type RuleClassifier struct {
	data  *ReferenceData
	vocab map[string]bool
}

func NewRuleClassifier(data *ReferenceData) *RuleClassifier {
	return &RuleClassifier{
		data:  data,
		vocab: data.symptomVocabulary(),
	}
}

// Classify labels the normalized utterance. Emergency phrases win over every
// other signal; the remaining intents are resolved by cue keyword, symptom
// vocabulary overlap last so "fever tablet" reads as a medicine query.
func (c *RuleClassifier) Classify(_ context.Context, normalizedText string, _ string) (entity.Intent, float64, error) {
	if normalizedText == "" {
		return entity.IntentUnknown, 0, nil
	}

	if ContainsEmergencyPhrase(normalizedText) {
		return entity.IntentEmergencyKeyword, 0.99, nil
	}

	if isGreetingOnly(normalizedText) {
		return entity.IntentGreeting, 0.95, nil
	}

	if _, ok := c.data.FindMedicine(normalizedText); ok {
		return entity.IntentMedicineQuery, 0.92, nil
	}
	for _, cue := range medicineCueWords {
		if containsPhrase(normalizedText, cue) {
			return entity.IntentMedicineQuery, 0.85, nil
		}
	}

	for _, cue := range hospitalCueWords {
		if containsPhrase(normalizedText, cue) {
			return entity.IntentHospitalLookup, 0.88, nil
		}
	}

	for _, cue := range healthTipCueWords {
		if containsPhrase(normalizedText, cue) {
			return entity.IntentHealthTip, 0.85, nil
		}
	}

	matched, _ := c.ExtractSymptoms(normalizedText)
	if len(matched) > 0 {
		// confidence grows with the number of recognized symptoms
		confidence := 0.70 + 0.07*float64(len(matched))
		if confidence > 0.95 {
			confidence = 0.95
		}
		return entity.IntentSymptomReport, confidence, nil
	}

	return entity.IntentUnknown, 0.30, nil
}

// ExtractSymptoms returns symptom phrases from the vocabulary found in the
// text, plus leftover tokens that matched nothing. Multi-word symptoms are
// matched first so "chest pain" is not split into "chest" + "pain".
func (c *RuleClassifier) ExtractSymptoms(normalizedText string) (matched []string, unmatched []string) {
	phrases := make([]string, 0, len(c.vocab))
	for p := range c.vocab {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})

	remaining := " " + normalizedText + " "
	for _, p := range phrases {
		needle := " " + p + " "
		if strings.Contains(remaining, needle) {
			matched = append(matched, p)
			remaining = strings.ReplaceAll(remaining, needle, " ")
		}
	}

	for _, tok := range Tokenize(strings.TrimSpace(remaining)) {
		unmatched = append(unmatched, tok)
	}
	sort.Strings(matched)
	return matched, unmatched
}

// ContainsEmergencyPhrase reports whether the normalized text carries any of
// the hardcoded emergency phrases.
func ContainsEmergencyPhrase(normalizedText string) bool {
	for _, p := range EmergencyPhrases {
		if containsPhrase(normalizedText, p) {
			return true
		}
	}
	return false
}

func isGreetingOnly(normalizedText string) bool {
	for _, g := range greetingWords {
		if normalizedText == g {
			return true
		}
	}
	// short messages that open with a greeting and add nothing substantial
	for _, g := range greetingWords {
		if strings.HasPrefix(normalizedText, g+" ") && len(strings.Fields(normalizedText)) <= 3 {
			rest := strings.TrimPrefix(normalizedText, g+" ")
			if !anyContentToken(rest) {
				return true
			}
		}
	}
	return false
}

func anyContentToken(text string) bool {
	return len(Tokenize(text)) > 0
}

func containsPhrase(haystack, phrase string) bool {
	return strings.Contains(" "+haystack+" ", " "+phrase+" ")
}
