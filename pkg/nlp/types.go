package nlp

import (
	"context"

	"HealthTriageBot/internal/entity"
)

// IClassifier maps a normalized utterance to an intent label with a confidence
// in [0,1]. Implementations are interchangeable; the engine picks one at
// composition time.
type IClassifier interface {
	Classify(ctx context.Context, normalizedText string, language string) (entity.Intent, float64, error)
}

// IScorer ranks candidate conditions for a set of reported symptom tokens,
// most confident first. The result is computed once per call, never streamed.
type IScorer interface {
	Score(tokens []string, language string) []entity.SymptomCandidate
}

// ConditionData is one entry of the reference mapping condition -> symptom
// tokens + severity tier. Loaded at startup, read-only afterwards.
type ConditionData struct {
	Name     string              `json:"name"`
	Symptoms []string            `json:"symptoms"`
	Severity entity.SeverityTier `json:"severity"`
}

// MedicineData describes one known medicine for lookup replies.
type MedicineData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HospitalData is one static hospital directory entry.
type HospitalData struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Helpline string `json:"helpline"`
}
