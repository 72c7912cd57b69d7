package triageHandler

import (
	"HealthTriageBot/internal/api/triage"
	contextPkg "HealthTriageBot/pkg/context"
	"HealthTriageBot/pkg/handlerUtil"
	"HealthTriageBot/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"strconv"
	"time"
)

func (h *TriageHandler) HandleMessage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing inbound message")

	var req triage.InboundMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	reply, err := h.triageService.HandleMessage(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "handle_message")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, reply)
	}
}

func (h *TriageHandler) VerifyWebhook(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	req := triage.WebhookVerifyRequest{
		Mode:        ctx.Query("hub.mode"),
		Challenge:   ctx.Query("hub.challenge"),
		VerifyToken: ctx.Query("hub.verify_token"),
	}

	challenge, err := h.triageService.VerifyWebhook(req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "verify_webhook")
	}

	return ctx.Status(fiber.StatusOK).SendString(challenge)
}

func (h *TriageHandler) GetSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userID := ctx.Params("userId")
	if userID == "" {
		return errHandler.Handle(ctx, requestID, triage.ErrInvalidUserID, ctx.Path(), "get_session")
	}

	session, err := h.triageService.GetSession(c, userID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, session)
	}
}

// GetTurnHistory serves the persisted turn audit for one user. Token
// protected; meant for admins reviewing how a conversation unfolded.
func (h *TriageHandler) GetTurnHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userID := ctx.Params("userId")
	if userID == "" {
		return errHandler.Handle(ctx, requestID, triage.ErrInvalidUserID, ctx.Path(), "get_turn_history")
	}

	limit := 50
	if raw := ctx.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	history, err := h.triageService.GetTurnHistory(c, userID, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_turn_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, history)
	}
}

func (h *TriageHandler) ResetSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userID := ctx.Params("userId")
	if userID == "" {
		return errHandler.Handle(ctx, requestID, triage.ErrInvalidUserID, ctx.Path(), "reset_session")
	}

	if err := h.triageService.ResetSession(c, userID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "reset_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Session reset",
		})
	}
}
