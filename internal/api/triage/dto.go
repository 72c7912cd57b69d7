package triage

// InboundMessageRequest is one user utterance arriving over the webhook or
// the direct message endpoint.
type InboundMessageRequest struct {
	UserID       string `json:"user_id" validate:"required,min=3,max=64"`
	Text         string `json:"text" validate:"required,max=2000"`
	Timestamp    int64  `json:"timestamp"`
	LanguageHint string `json:"language_hint" validate:"omitempty,len=2"`
}

// WebhookVerifyRequest carries the hub challenge handshake query parameters.
type WebhookVerifyRequest struct {
	Mode        string `query:"hub.mode"`
	Challenge   string `query:"hub.challenge"`
	VerifyToken string `query:"hub.verify_token"`
}

type CandidateResponse struct {
	Condition  string   `json:"condition"`
	Severity   string   `json:"severity"`
	Confidence float64  `json:"confidence"`
	Symptoms   []string `json:"symptoms"`
}

// ReplyResponse is the engine's answer to one inbound message.
type ReplyResponse struct {
	UserID     string              `json:"user_id"`
	TurnID     string              `json:"turn_id"`
	Intent     string              `json:"intent"`
	Stage      string              `json:"stage"`
	Language   string              `json:"language"`
	Reply      string              `json:"reply"`
	Emergency  bool                `json:"emergency"`
	IncidentID string              `json:"incident_id,omitempty"`
	Candidates []CandidateResponse `json:"candidates,omitempty"`
}

// TurnRecordResponse is one row of the persisted turn audit.
type TurnRecordResponse struct {
	TurnID     string  `json:"turn_id"`
	Text       string  `json:"text"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
	Reply      string  `json:"reply"`
	Timestamp  string  `json:"timestamp"`
}

type TurnHistoryResponse struct {
	UserID string               `json:"user_id"`
	Turns  []TurnRecordResponse `json:"turns"`
	Total  int                  `json:"total"`
}

type SessionResponse struct {
	UserID    string   `json:"user_id"`
	Stage     string   `json:"stage"`
	Language  string   `json:"language"`
	Symptoms  []string `json:"symptoms"`
	TurnCount int      `json:"turn_count"`
	Escalated bool     `json:"escalated"`
	ExpiresAt string   `json:"expires_at"`
}
