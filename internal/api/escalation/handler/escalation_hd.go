package escalationHandler

import (
	"HealthTriageBot/internal/api/escalation"
	contextPkg "HealthTriageBot/pkg/context"
	"HealthTriageBot/pkg/handlerUtil"
	jwtPkg "HealthTriageBot/pkg/jwt"
	"HealthTriageBot/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

func (h *EscalationHandler) ListIncidents(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Listing incidents")

	status := ctx.Query("status")

	incidents, err := h.escalationService.ListIncidents(c, status)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_incidents")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, incidents)
	}
}

func (h *EscalationHandler) Acknowledge(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req escalation.AcknowledgeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	admin, err := jwtPkg.GetAdminLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "admin identity missing from token")
	}

	userID, err := h.escalationService.Acknowledge(c, req.IncidentID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "acknowledge_incident")
	}

	h.log.WithFields(log.Fields{
		"request_id":  requestID,
		"incident_id": req.IncidentID,
		"admin":       admin.Username,
	}).Info("Incident acknowledged")

	// with the incident closed, the session may raise a fresh one
	if err := h.triageService.ClearEscalation(c, userID); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to clear session escalation flag")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Incident acknowledged",
		})
	}
}

func (h *EscalationHandler) QueueHealth(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.escalationService.QueueHealth())
}
