package escalationHandler

import (
	escalationService "HealthTriageBot/internal/api/escalation/service"
	triageService "HealthTriageBot/internal/api/triage/service"
	"HealthTriageBot/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type EscalationHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	escalationService escalationService.IEscalationService
	triageService     triageService.ITriageService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	escalationSvc escalationService.IEscalationService,
	triageSvc triageService.ITriageService,
) *EscalationHandler {
	return &EscalationHandler{
		log:               log,
		validator:         validate,
		middleware:        middleware,
		escalationService: escalationSvc,
		triageService:     triageSvc,
	}
}

func (h *EscalationHandler) Start(srv fiber.Router) {
	incidents := srv.Group("/incidents")

	incidents.Get("/", h.middleware.NewTokenMiddleware, h.ListIncidents)
	incidents.Post("/acknowledge", h.middleware.NewTokenMiddleware, h.Acknowledge)
	incidents.Get("/health", h.middleware.NewTokenMiddleware, h.QueueHealth)
}
