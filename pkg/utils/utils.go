package utils

import (
	"crypto/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	TruncateExcerpt(text string, maxRunes int) string
	MaskUserID(userID string) string
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// TruncateExcerpt shortens message text for incident records and logs.
func (u *utils) TruncateExcerpt(text string, maxRunes int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= maxRunes {
		return string(runes)
	}
	return string(runes[:maxRunes]) + "..."
}

// MaskUserID hides the middle of a phone-number style user id so logs never
// carry a full contact number.
func (u *utils) MaskUserID(userID string) string {
	if len(userID) <= 4 {
		return "****"
	}
	return userID[:2] + strings.Repeat("*", len(userID)-4) + userID[len(userID)-2:]
}

// EnvInt reads an integer environment variable, falling back to def when the
// variable is unset or unparsable.
func EnvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// EnvFloat reads a float environment variable with the same fallback rules as
// EnvInt.
func EnvFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}
