package triageHandler

import (
	triageService "HealthTriageBot/internal/api/triage/service"
	"HealthTriageBot/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TriageHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	triageService triageService.ITriageService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	triageService triageService.ITriageService,
) *TriageHandler {
	return &TriageHandler{
		log:           log,
		validator:     validate,
		middleware:    middleware,
		triageService: triageService,
	}
}

func (h *TriageHandler) Start(srv fiber.Router) {
	triage := srv.Group("/triage")

	triage.Get("/webhook", h.VerifyWebhook)
	triage.Post("/messages", h.middleware.NewRateLimiter, h.HandleMessage)
	triage.Get("/sessions/:userId", h.middleware.NewTokenMiddleware, h.GetSession)
	triage.Get("/sessions/:userId/turns", h.middleware.NewTokenMiddleware, h.GetTurnHistory)
	triage.Delete("/sessions/:userId", h.middleware.NewTokenMiddleware, h.ResetSession)
}
