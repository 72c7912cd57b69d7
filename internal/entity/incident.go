package entity

import "time"

type DispatchStatus string

const (
	DispatchPending      DispatchStatus = "pending"
	DispatchSent         DispatchStatus = "sent"
	DispatchFailed       DispatchStatus = "failed"
	DispatchAcknowledged DispatchStatus = "acknowledged"
)

type EscalationReason string

const (
	ReasonEmergencyKeyword  EscalationReason = "emergency_keyword"
	ReasonCriticalCondition EscalationReason = "critical_condition"
	ReasonSustainedSeverity EscalationReason = "sustained_severity"
)

// EmergencyIncident is one continuous emergency episode, from detection until
// an admin acknowledges it or the session expires.
type EmergencyIncident struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"user_id"`
	TurnID      string           `db:"turn_id" json:"turn_id"`
	Reason      EscalationReason `db:"reason" json:"reason"`
	Severity    SeverityTier     `db:"severity" json:"severity"`
	TextExcerpt string           `db:"text_excerpt" json:"text_excerpt"`
	Status      DispatchStatus   `db:"status" json:"status"`
	Attempts    int              `db:"attempts" json:"attempts"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// AdminAlert is the payload pushed to the out-of-band alert channel. Immutable
// once built; a retry resends the whole unit.
type AdminAlert struct {
	IncidentID  string           `json:"incident_id"`
	UserID      string           `json:"user_id"`
	Severity    SeverityTier     `json:"severity"`
	Reason      EscalationReason `json:"reason"`
	TextExcerpt string           `json:"text_excerpt"`
	Timestamp   time.Time        `json:"timestamp"`
}
