package escalationService

import (
	"HealthTriageBot/internal/api/escalation"
	escalationRepository "HealthTriageBot/internal/api/escalation/repository"
	"HealthTriageBot/internal/entity"
	"HealthTriageBot/pkg/utils"
	"HealthTriageBot/pkg/whatsapp"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IEscalationService interface {
	Escalate(ctx context.Context, userID string, turn entity.Turn, reason entity.EscalationReason, severity entity.SeverityTier) (string, error)
	ListIncidents(ctx context.Context, status string) (escalation.IncidentListResponse, error)
	Acknowledge(ctx context.Context, incidentID string) (string, error)
	QueueHealth() escalation.QueueHealthResponse
	Start()
	Shutdown()
}

type escalationService struct {
	log          *logrus.Logger
	cfg          DispatcherConfig
	incidentRepo escalationRepository.Repository
	sender       whatsapp.IWhatsappSender
	utils        utils.IUtils

	queue    chan entity.EmergencyIncident
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu         sync.Mutex
	openByUser map[string]string

	dispatched     atomic.Int64
	failed         atomic.Int64
	retried        atomic.Int64
	droppedAtLimit atomic.Int64
}

func New(
	log *logrus.Logger,
	cfg DispatcherConfig,
	incidentRepo escalationRepository.Repository,
	sender whatsapp.IWhatsappSender,
) IEscalationService {
	return &escalationService{
		log:          log,
		cfg:          cfg,
		incidentRepo: incidentRepo,
		sender:       sender,
		utils:        utils.New(),
		queue:        make(chan entity.EmergencyIncident, cfg.QueueCapacity),
		openByUser:   make(map[string]string),
	}
}
