package nlp

import (
	"testing"

	"HealthTriageBot/internal/entity"
)

func TestScoreRanksByOverlap(t *testing.T) {
	s := NewOverlapScorer(defaultReferenceData())

	got := s.Score([]string{"runny nose", "sore throat", "cough", "sneezing"}, "en")
	if len(got) == 0 {
		t.Fatal("expected at least one candidate")
	}
	if got[0].Condition != "common cold" {
		t.Errorf("top candidate = %q, want common cold", got[0].Condition)
	}
	if got[0].Confidence <= 0.5 {
		t.Errorf("confidence = %v, want > 0.5", got[0].Confidence)
	}
}

func TestScoreSeverityBreaksTies(t *testing.T) {
	data := &ReferenceData{
		Conditions: []ConditionData{
			{Name: "mild thing", Symptoms: []string{"fever", "cough"}, Severity: entity.SeverityLow},
			{Name: "serious thing", Symptoms: []string{"fever", "rash"}, Severity: entity.SeverityHigh},
		},
	}
	s := NewOverlapScorer(data)

	got := s.Score([]string{"fever"}, "en")
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got))
	}
	if got[0].Condition != "serious thing" {
		t.Errorf("tie should go to higher severity, got %q first", got[0].Condition)
	}
}

func TestScoreLexicalTieBreakIsStable(t *testing.T) {
	data := &ReferenceData{
		Conditions: []ConditionData{
			{Name: "zeta", Symptoms: []string{"fever"}, Severity: entity.SeverityLow},
			{Name: "alpha", Symptoms: []string{"fever"}, Severity: entity.SeverityLow},
		},
	}
	s := NewOverlapScorer(data)

	for i := 0; i < 5; i++ {
		got := s.Score([]string{"fever"}, "en")
		if got[0].Condition != "alpha" {
			t.Fatalf("run %d: first = %q, want alpha", i, got[0].Condition)
		}
	}
}

func TestScoreEmptyTokens(t *testing.T) {
	s := NewOverlapScorer(defaultReferenceData())
	if got := s.Score(nil, "en"); got != nil {
		t.Errorf("Score(nil) = %v, want nil", got)
	}
}
