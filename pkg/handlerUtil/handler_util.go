package handlerUtil

import (
	"HealthTriageBot/internal/api/escalation"
	"HealthTriageBot/internal/api/triage"
	"HealthTriageBot/pkg/log"
	"HealthTriageBot/pkg/response"
	"errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	// Triage domain errors
	if errors.Is(err, triage.ErrRateLimited) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("User rate limited")
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"message": "Too many messages, please wait a moment",
			"code":    "RATE_LIMITED",
		})
	}

	if errors.Is(err, triage.ErrEmptyMessage) || errors.Is(err, triage.ErrMessageTooLong) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid message payload")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
			"code":    "INVALID_MESSAGE",
		})
	}

	if errors.Is(err, triage.ErrSessionStorage) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Session storage unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Service temporarily unavailable",
			"code":    "STORAGE_ERROR",
		})
	}

	if errors.Is(err, triage.ErrClassifier) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Intent classification failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not understand the message right now",
			"code":    "CLASSIFIER_ERROR",
		})
	}

	if errors.Is(err, triage.ErrSessionNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Session not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No active session for user",
			"code":    "SESSION_NOT_FOUND",
		})
	}

	if errors.Is(err, triage.ErrWebhookVerification) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Webhook verification rejected")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Webhook verification failed",
			"code":    "WEBHOOK_FORBIDDEN",
		})
	}

	// Escalation domain errors
	if errors.Is(err, escalation.ErrIncidentNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Incident not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Incident not found",
			"code":    "INCIDENT_NOT_FOUND",
		})
	}

	if errors.Is(err, escalation.ErrAlreadyAcknowledged) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Incident already acknowledged")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Incident already acknowledged",
			"code":    "ALREADY_ACKNOWLEDGED",
		})
	}

	if errors.Is(err, escalation.ErrQueueFull) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Escalation queue full")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Escalation queue is full",
			"code":    "QUEUE_FULL",
		})
	}

	if errors.Is(err, escalation.ErrDispatchChannel) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Alert channel unreachable")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Failed to reach alert channel",
			"code":    "DISPATCH_FAILED",
		})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
