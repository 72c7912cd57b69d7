package triageService

import (
	"fmt"
	"os"
	"time"

	"HealthTriageBot/pkg/utils"
)

// Config carries every tunable of the conversation engine. Loaded once at
// startup and passed by value; nothing mutates it afterwards.
type Config struct {
	ConfidenceThreshold      float64
	SessionTimeout           time.Duration
	RateLimitPerMinute       int
	MaxConversationHistory   int
	EmergencyConfidenceFloor float64
	MinSymptomCount          int
	MaxFollowUpTurns         int
	AmbiguityDelta           float64
	SustainedHighTurns       int
	MaxMessageLength         int
	ReferenceDataPath        string
}

func NewConfigFromEnv() (Config, error) {
	cfg := Config{
		ConfidenceThreshold:      utils.EnvFloat("CONFIDENCE_THRESHOLD", 0.75),
		SessionTimeout:           time.Duration(utils.EnvInt("SESSION_TIMEOUT_MINUTES", 30)) * time.Minute,
		RateLimitPerMinute:       utils.EnvInt("RATE_LIMIT_PER_MINUTE", 20),
		MaxConversationHistory:   utils.EnvInt("MAX_CONVERSATION_HISTORY", 50),
		EmergencyConfidenceFloor: utils.EnvFloat("EMERGENCY_CONFIDENCE_FLOOR", 0.40),
		MinSymptomCount:          utils.EnvInt("MIN_SYMPTOM_COUNT", 2),
		MaxFollowUpTurns:         utils.EnvInt("MAX_FOLLOW_UP_TURNS", 2),
		AmbiguityDelta:           utils.EnvFloat("AMBIGUITY_DELTA", 0.15),
		SustainedHighTurns:       utils.EnvInt("SUSTAINED_HIGH_TURNS", 3),
		MaxMessageLength:         utils.EnvInt("MAX_MESSAGE_LENGTH", 2000),
		ReferenceDataPath:        os.Getenv("REFERENCE_DATA_PATH"),
	}

	if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold > 1 {
		return Config{}, fmt.Errorf("CONFIDENCE_THRESHOLD must be in (0,1], got %v", cfg.ConfidenceThreshold)
	}
	if cfg.EmergencyConfidenceFloor < 0 || cfg.EmergencyConfidenceFloor > 1 {
		return Config{}, fmt.Errorf("EMERGENCY_CONFIDENCE_FLOOR must be in [0,1], got %v", cfg.EmergencyConfidenceFloor)
	}
	if cfg.SessionTimeout <= 0 {
		return Config{}, fmt.Errorf("SESSION_TIMEOUT_MINUTES must be positive")
	}
	if cfg.RateLimitPerMinute <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if cfg.MaxConversationHistory <= 0 {
		return Config{}, fmt.Errorf("MAX_CONVERSATION_HISTORY must be positive")
	}

	return cfg, nil
}
