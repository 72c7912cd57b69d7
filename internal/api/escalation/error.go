package escalation

import "HealthTriageBot/pkg/response"

var (
	ErrIncidentNotFound    = response.NewError(404, "incident not found")
	ErrAlreadyAcknowledged = response.NewError(409, "incident already acknowledged")
	ErrQueueFull           = response.NewError(503, "escalation queue is full")
	ErrDispatchChannel     = response.NewError(502, "failed to reach alert channel")
	ErrInvalidIncidentID   = response.NewError(400, "invalid incident id")
)
