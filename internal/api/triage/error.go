package triage

import "HealthTriageBot/pkg/response"

var (
	ErrEmptyMessage        = response.NewError(400, "message text is empty")
	ErrMessageTooLong      = response.NewError(400, "message text exceeds the allowed length")
	ErrInvalidUserID       = response.NewError(400, "invalid user id")
	ErrRateLimited         = response.NewError(429, "too many messages, slow down")
	ErrSessionStorage      = response.NewError(503, "session storage unavailable")
	ErrClassifier          = response.NewError(502, "intent classification failed")
	ErrWebhookVerification = response.NewError(403, "webhook verification failed")
	ErrSessionNotFound     = response.NewError(404, "no active session for user")
)
