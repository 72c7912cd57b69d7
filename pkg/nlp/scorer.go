package nlp

import (
	"sort"

	"HealthTriageBot/internal/entity"
)

var severityWeight = map[entity.SeverityTier]int{
	entity.SeverityCritical: 4,
	entity.SeverityHigh:     3,
	entity.SeverityModerate: 2,
	entity.SeverityLow:      1,
}

// OverlapScorer ranks conditions by the fraction of their symptom list that
// the user reported. Ties go to the more severe condition, then to the
// lexically smaller name so the ordering is stable across runs.
type OverlapScorer struct {
	data *ReferenceData
}

func NewOverlapScorer(data *ReferenceData) *OverlapScorer {
	return &OverlapScorer{data: data}
}

func (s *OverlapScorer) Score(tokens []string, _ string) []entity.SymptomCandidate {
	if len(tokens) == 0 {
		return nil
	}

	reported := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		reported[t] = true
	}

	candidates := make([]entity.SymptomCandidate, 0, len(s.data.Conditions))
	for _, c := range s.data.Conditions {
		var hits []string
		for _, sym := range c.Symptoms {
			if reported[sym] {
				hits = append(hits, sym)
			}
		}
		if len(hits) == 0 {
			continue
		}
		candidates = append(candidates, entity.SymptomCandidate{
			Condition:  c.Name,
			Severity:   c.Severity,
			Confidence: float64(len(hits)) / float64(len(c.Symptoms)),
			Symptoms:   hits,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if severityWeight[a.Severity] != severityWeight[b.Severity] {
			return severityWeight[a.Severity] > severityWeight[b.Severity]
		}
		return a.Condition < b.Condition
	})

	return candidates
}
