package triageRepository

import (
	"HealthTriageBot/internal/entity"
	contextPkg "HealthTriageBot/pkg/context"
	"HealthTriageBot/pkg/redis"
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ISessionStore keeps one session per user id. Save always rewrites the whole
// session and refreshes the TTL; there is no partial update.
type ISessionStore interface {
	Get(ctx context.Context, userID string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, userID string) error
}

// ErrSessionNotFound is the store-level miss, mapped to a fresh session by the
// engine rather than surfaced to the user.
var ErrSessionNotFound = errors.New("session not found in store")

const sessionKeyPrefix = "triage:session:"

type redisSessionStore struct {
	client redis.IRedis
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisSessionStore(client redis.IRedis, ttl time.Duration, log *logrus.Logger) ISessionStore {
	return &redisSessionStore{client: client, ttl: ttl, log: log}
}

func (s *redisSessionStore) Get(ctx context.Context, userID string) (*entity.Session, error) {
	raw, err := s.client.GetSession(ctx, sessionKeyPrefix+userID)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to read session from redis")
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Corrupt session payload, discarding")
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

func (s *redisSessionStore) Save(ctx context.Context, session *entity.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.SetSession(ctx, sessionKeyPrefix+session.UserID, raw, s.ttl)
}

func (s *redisSessionStore) Delete(ctx context.Context, userID string) error {
	return s.client.DeleteSession(ctx, sessionKeyPrefix+userID)
}
