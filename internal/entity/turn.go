package entity

import "time"

type Intent uint8

const (
	IntentUnknown Intent = iota
	IntentGreeting
	IntentSymptomReport
	IntentMedicineQuery
	IntentEmergencyKeyword
	IntentHospitalLookup
	IntentHealthTip
)

var intentNames = map[Intent]string{
	IntentUnknown:          "UNKNOWN",
	IntentGreeting:         "GREETING",
	IntentSymptomReport:    "SYMPTOM_REPORT",
	IntentMedicineQuery:    "MEDICINE_QUERY",
	IntentEmergencyKeyword: "EMERGENCY_KEYWORD",
	IntentHospitalLookup:   "HOSPITAL_LOOKUP",
	IntentHealthTip:        "HEALTH_TIP",
}

func (i Intent) String() string {
	return intentNames[i]
}

func ParseIntent(name string) Intent {
	for intent, n := range intentNames {
		if n == name {
			return intent
		}
	}
	return IntentUnknown
}

type SeverityTier uint8

const (
	SeverityLow SeverityTier = iota
	SeverityModerate
	SeverityHigh
	SeverityCritical
)

var severityNames = map[SeverityTier]string{
	SeverityLow:      "low",
	SeverityModerate: "moderate",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

func (s SeverityTier) String() string {
	return severityNames[s]
}

// Turn is the immutable record of one user utterance and the system reply.
type Turn struct {
	ID              string             `json:"id"`
	RawText         string             `json:"raw_text"`
	NormalizedText  string             `json:"normalized_text"`
	Intent          Intent             `json:"intent"`
	Confidence      float64            `json:"confidence"`
	Language        string             `json:"language"`
	ReplyText       string             `json:"reply_text"`
	Candidates      []SymptomCandidate `json:"candidates,omitempty"`
	UnmatchedTokens []string           `json:"unmatched_tokens,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
}

// SymptomCandidate is one scored condition, produced by the symptom scorer.
// Severity is a property of the condition, not derived from confidence.
type SymptomCandidate struct {
	Condition  string       `json:"condition"`
	Severity   SeverityTier `json:"severity"`
	Confidence float64      `json:"confidence"`
	Symptoms   []string     `json:"symptoms"`
}
