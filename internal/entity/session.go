package entity

import "time"

type Stage uint8

const (
	StageIdle Stage = iota
	StageAwaitingSymptomDetail
	StageAwaitingConfirmation
	StageResolved
)

var stageNames = map[Stage]string{
	StageIdle:                  "IDLE",
	StageAwaitingSymptomDetail: "AWAITING_SYMPTOM_DETAIL",
	StageAwaitingConfirmation:  "AWAITING_CONFIRMATION",
	StageResolved:              "RESOLVED",
}

func (s Stage) String() string {
	return stageNames[s]
}

func ParseStage(name string) Stage {
	for stage, n := range stageNames {
		if n == name {
			return stage
		}
	}
	return StageIdle
}

// Session carries the per-user conversational state across turns. One active
// session per user id; an expired session is replaced wholesale rather than
// revived.
type Session struct {
	UserID             string             `json:"user_id"`
	Stage              Stage              `json:"stage"`
	Turns              []Turn             `json:"turns"`
	Language           string             `json:"language"`
	LastActivity       time.Time          `json:"last_activity"`
	SymptomAccumulator []string           `json:"symptom_accumulator"`
	FollowUpCount      int                `json:"follow_up_count"`
	ReaskCount         int                `json:"reask_count"`
	HighSeverityStreak int                `json:"high_severity_streak"`
	EscalationFlag     bool               `json:"escalation_flag"`
	PendingCandidates  []SymptomCandidate `json:"pending_candidates,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

func NewSession(userID string, now time.Time) *Session {
	return &Session{
		UserID:       userID,
		Stage:        StageIdle,
		Language:     "en",
		LastActivity: now,
		CreatedAt:    now,
	}
}

// Expired reports whether the session has been idle past the timeout. Expiry is
// computed, never stored.
func (s *Session) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) >= timeout
}

// AppendTurn adds a turn and evicts the oldest entries past the retention cap.
func (s *Session) AppendTurn(turn Turn, maxHistory int) {
	s.Turns = append(s.Turns, turn)
	if maxHistory > 0 && len(s.Turns) > maxHistory {
		s.Turns = s.Turns[len(s.Turns)-maxHistory:]
	}
}

// ResetQuery clears the accumulator state of the in-progress logical query
// while keeping the turn history and escalation flag intact.
func (s *Session) ResetQuery() {
	s.SymptomAccumulator = nil
	s.FollowUpCount = 0
	s.ReaskCount = 0
	s.HighSeverityStreak = 0
	s.PendingCandidates = nil
}

// MergeSymptoms folds new symptom tokens into the accumulator, deduplicated.
func (s *Session) MergeSymptoms(tokens []string) {
	seen := make(map[string]bool, len(s.SymptomAccumulator))
	for _, t := range s.SymptomAccumulator {
		seen[t] = true
	}
	for _, t := range tokens {
		if !seen[t] {
			s.SymptomAccumulator = append(s.SymptomAccumulator, t)
			seen[t] = true
		}
	}
}
