package escalationService

import (
	"fmt"
	"os"
	"strings"
	"time"

	"HealthTriageBot/pkg/utils"
)

// DispatcherConfig tunes the escalation queue and its retry policy.
type DispatcherConfig struct {
	QueueCapacity      int
	RetryCeiling       int
	InitialBackoff     time.Duration
	AdminPhoneNumbers  []string
	WebhookVerifyToken string
}

func NewDispatcherConfigFromEnv() (DispatcherConfig, error) {
	cfg := DispatcherConfig{
		QueueCapacity:      utils.EnvInt("ESCALATION_QUEUE_CAPACITY", 128),
		RetryCeiling:       utils.EnvInt("ESCALATION_RETRY_CEILING", 5),
		InitialBackoff:     time.Duration(utils.EnvInt("ESCALATION_INITIAL_BACKOFF_MS", 500)) * time.Millisecond,
		WebhookVerifyToken: os.Getenv("WEBHOOK_VERIFY_TOKEN"),
	}

	if raw := os.Getenv("ADMIN_PHONE_NUMBERS"); raw != "" {
		for _, n := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(n); trimmed != "" {
				cfg.AdminPhoneNumbers = append(cfg.AdminPhoneNumbers, trimmed)
			}
		}
	}

	if cfg.QueueCapacity <= 0 {
		return DispatcherConfig{}, fmt.Errorf("ESCALATION_QUEUE_CAPACITY must be positive")
	}
	if cfg.RetryCeiling < 0 {
		return DispatcherConfig{}, fmt.Errorf("ESCALATION_RETRY_CEILING cannot be negative")
	}

	return cfg, nil
}
