package escalation

type IncidentResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	TurnID      string `json:"turn_id"`
	Reason      string `json:"reason"`
	Severity    string `json:"severity"`
	TextExcerpt string `json:"text_excerpt"`
	Status      string `json:"status"`
	Attempts    int    `json:"attempts"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type IncidentListResponse struct {
	Incidents []IncidentResponse `json:"incidents"`
	Total     int                `json:"total"`
}

type AcknowledgeRequest struct {
	IncidentID string `json:"incident_id" validate:"required"`
}

// QueueHealthResponse exposes dispatcher counters for the admin dashboard.
type QueueHealthResponse struct {
	QueueDepth     int   `json:"queue_depth"`
	QueueCapacity  int   `json:"queue_capacity"`
	Dispatched     int64 `json:"dispatched"`
	Failed         int64 `json:"failed"`
	Retried        int64 `json:"retried"`
	DroppedAtLimit int64 `json:"dropped_at_limit"`
}
