package triageService

import (
	"HealthTriageBot/internal/api/triage"
	triageRepository "HealthTriageBot/internal/api/triage/repository"
	"HealthTriageBot/internal/entity"
	"HealthTriageBot/pkg/nlp"
	"HealthTriageBot/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type ITriageService interface {
	HandleMessage(ctx context.Context, req triage.InboundMessageRequest) (triage.ReplyResponse, error)
	GetSession(ctx context.Context, userID string) (triage.SessionResponse, error)
	GetTurnHistory(ctx context.Context, userID string, limit int) (triage.TurnHistoryResponse, error)
	ResetSession(ctx context.Context, userID string) error
	ClearEscalation(ctx context.Context, userID string) error
	VerifyWebhook(req triage.WebhookVerifyRequest) (string, error)
}

// IEscalator is implemented by the escalation dispatcher. Returning an
// incident id means the incident was accepted for delivery, not that the
// alert already went out.
type IEscalator interface {
	Escalate(ctx context.Context, userID string, turn entity.Turn, reason entity.EscalationReason, severity entity.SeverityTier) (string, error)
}

type triageService struct {
	log         *logrus.Logger
	cfg         Config
	sessions    triageRepository.ISessionStore
	turnRepo    triageRepository.Repository
	classifier  nlp.IClassifier
	scorer      nlp.IScorer
	extractor   *nlp.RuleClassifier
	refData     *nlp.ReferenceData
	escalator   IEscalator
	limiter     *userRateLimiter
	locks       *keyedLocks
	utils       utils.IUtils
	verifyToken string
}

func New(
	log *logrus.Logger,
	cfg Config,
	sessions triageRepository.ISessionStore,
	turnRepo triageRepository.Repository,
	classifier nlp.IClassifier,
	scorer nlp.IScorer,
	refData *nlp.ReferenceData,
	escalator IEscalator,
	verifyToken string,
) ITriageService {
	return &triageService{
		log:         log,
		cfg:         cfg,
		sessions:    sessions,
		turnRepo:    turnRepo,
		classifier:  classifier,
		scorer:      scorer,
		extractor:   nlp.NewRuleClassifier(refData),
		refData:     refData,
		escalator:   escalator,
		limiter:     newUserRateLimiter(cfg.RateLimitPerMinute),
		locks:       newKeyedLocks(),
		utils:       utils.New(),
		verifyToken: verifyToken,
	}
}
