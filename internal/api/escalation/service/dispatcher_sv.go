package escalationService

import (
	"HealthTriageBot/internal/api/escalation"
	"HealthTriageBot/internal/entity"
	contextPkg "HealthTriageBot/pkg/context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const incidentExcerptLimit = 140

// Escalate registers a new incident and queues it for delivery. Calling it
// again for a user with an open incident returns the existing incident id
// without queueing anything, so one emergency episode produces one alert.
func (s *escalationService) Escalate(ctx context.Context, userID string, turn entity.Turn, reason entity.EscalationReason, severity entity.SeverityTier) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	s.mu.Lock()
	if existing, ok := s.openByUser[userID]; ok {
		s.mu.Unlock()
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"incident_id": existing,
		}).Info("Escalation deduplicated, incident already open")
		return existing, nil
	}
	s.mu.Unlock()

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return "", err
	}

	incident := entity.EmergencyIncident{
		ID:          id,
		UserID:      userID,
		TurnID:      turn.ID,
		Reason:      reason,
		Severity:    severity,
		TextExcerpt: s.utils.TruncateExcerpt(turn.RawText, incidentExcerptLimit),
		Status:      entity.DispatchPending,
		Attempts:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.persistIncident(ctx, incident)

	select {
	case s.queue <- incident:
	default:
		s.droppedAtLimit.Add(1)
		s.updateStatus(ctx, incident.ID, entity.DispatchFailed, 0)
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"incident_id": incident.ID,
		}).Error("Escalation queue full, incident dropped")
		return "", escalation.ErrQueueFull
	}

	s.mu.Lock()
	s.openByUser[userID] = incident.ID
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"incident_id": incident.ID,
		"reason":      string(reason),
		"severity":    severity.String(),
	}).Warn("Emergency incident queued for dispatch")

	return incident.ID, nil
}

// Start launches the single dispatch worker. Alerts are delivered in queue
// order; a retrying incident blocks the ones behind it, which is acceptable
// at the volumes this queue sees.
func (s *escalationService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for incident := range s.queue {
			s.dispatch(incident)
		}
	}()
}

func (s *escalationService) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}

func (s *escalationService) dispatch(incident entity.EmergencyIncident) {
	ctx := context.Background()
	backoff := s.cfg.InitialBackoff

	alert := entity.AdminAlert{
		IncidentID:  incident.ID,
		UserID:      incident.UserID,
		Severity:    incident.Severity,
		Reason:      incident.Reason,
		TextExcerpt: incident.TextExcerpt,
		Timestamp:   incident.CreatedAt,
	}

	for attempt := 1; ; attempt++ {
		err := s.fanOut(ctx, alert)
		if err == nil {
			s.dispatched.Add(1)
			s.updateStatus(ctx, incident.ID, entity.DispatchSent, attempt)
			s.log.WithFields(logrus.Fields{
				"incident_id": incident.ID,
				"attempts":    attempt,
			}).Info("Emergency alert dispatched")
			return
		}

		if attempt > s.cfg.RetryCeiling {
			s.failed.Add(1)
			s.updateStatus(ctx, incident.ID, entity.DispatchFailed, attempt)
			s.log.WithFields(logrus.Fields{
				"incident_id": incident.ID,
				"attempts":    attempt,
				"error":       err.Error(),
			}).Error("Emergency alert dropped after retry ceiling")
			return
		}

		s.retried.Add(1)
		s.log.WithFields(logrus.Fields{
			"incident_id": incident.ID,
			"attempt":     attempt,
			"backoff":     backoff.String(),
			"error":       err.Error(),
		}).Warn("Emergency alert delivery failed, retrying")

		time.Sleep(backoff)
		backoff *= 2
	}
}

func (s *escalationService) fanOut(ctx context.Context, alert entity.AdminAlert) error {
	if s.sender == nil || len(s.cfg.AdminPhoneNumbers) == 0 {
		return escalation.ErrDispatchChannel
	}

	text := formatAlert(alert)

	var lastErr error
	delivered := 0
	for _, number := range s.cfg.AdminPhoneNumbers {
		if err := s.sender.SendMessage(ctx, number, text); err != nil {
			lastErr = err
			s.log.WithFields(logrus.Fields{
				"incident_id": alert.IncidentID,
				"error":       err.Error(),
			}).Warn("Failed to deliver alert to admin")
			continue
		}
		delivered++
	}

	// one successful delivery counts as dispatched; a dead admin number
	// must not starve the rest of the queue
	if delivered == 0 {
		return lastErr
	}
	return nil
}

func formatAlert(alert entity.AdminAlert) string {
	return fmt.Sprintf(
		"🚨 EMERGENCY ALERT\nUser: %s\nSeverity: %s\nReason: %s\nMessage: %q\nIncident: %s\nTime: %s",
		alert.UserID,
		alert.Severity.String(),
		string(alert.Reason),
		alert.TextExcerpt,
		alert.IncidentID,
		alert.Timestamp.Format(time.RFC3339),
	)
}

func (s *escalationService) ListIncidents(ctx context.Context, status string) (escalation.IncidentListResponse, error) {
	if s.incidentRepo == nil {
		return escalation.IncidentListResponse{}, escalation.ErrIncidentNotFound
	}

	repo, err := s.incidentRepo.NewClient(false)
	if err != nil {
		return escalation.IncidentListResponse{}, err
	}

	incidents, err := repo.Incidents.ListIncidents(ctx, status, 100)
	if err != nil {
		return escalation.IncidentListResponse{}, err
	}

	resp := escalation.IncidentListResponse{Total: len(incidents)}
	for _, inc := range incidents {
		resp.Incidents = append(resp.Incidents, toIncidentResponse(inc))
	}

	return resp, nil
}

// Acknowledge closes the incident and returns the user id it belonged to so
// the caller can clear the session escalation flag.
func (s *escalationService) Acknowledge(ctx context.Context, incidentID string) (string, error) {
	if incidentID == "" {
		return "", escalation.ErrInvalidIncidentID
	}
	if s.incidentRepo == nil {
		return "", escalation.ErrIncidentNotFound
	}

	repo, err := s.incidentRepo.NewClient(false)
	if err != nil {
		return "", err
	}

	incident, err := repo.Incidents.GetIncidentByID(ctx, incidentID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", escalation.ErrIncidentNotFound
	}
	if err != nil {
		return "", err
	}

	if incident.Status == entity.DispatchAcknowledged {
		return "", escalation.ErrAlreadyAcknowledged
	}

	if err := repo.Incidents.UpdateIncidentStatus(ctx, incidentID, entity.DispatchAcknowledged, incident.Attempts); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.openByUser[incident.UserID] == incidentID {
		delete(s.openByUser, incident.UserID)
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"request_id":  contextPkg.GetRequestID(ctx),
		"incident_id": incidentID,
	}).Info("Incident acknowledged")

	return incident.UserID, nil
}

func (s *escalationService) QueueHealth() escalation.QueueHealthResponse {
	return escalation.QueueHealthResponse{
		QueueDepth:     len(s.queue),
		QueueCapacity:  s.cfg.QueueCapacity,
		Dispatched:     s.dispatched.Load(),
		Failed:         s.failed.Load(),
		Retried:        s.retried.Load(),
		DroppedAtLimit: s.droppedAtLimit.Load(),
	}
}

func (s *escalationService) persistIncident(ctx context.Context, incident entity.EmergencyIncident) {
	if s.incidentRepo == nil {
		return
	}

	repo, err := s.incidentRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{"error": err.Error()}).Error("Failed to create incident client")
		return
	}

	if err := repo.Incidents.CreateIncident(ctx, incident); err != nil {
		s.log.WithFields(logrus.Fields{
			"incident_id": incident.ID,
			"error":       err.Error(),
		}).Error("Failed to persist incident")
	}
}

func (s *escalationService) updateStatus(ctx context.Context, incidentID string, status entity.DispatchStatus, attempts int) {
	if s.incidentRepo == nil {
		return
	}

	repo, err := s.incidentRepo.NewClient(false)
	if err != nil {
		return
	}

	if err := repo.Incidents.UpdateIncidentStatus(ctx, incidentID, status, attempts); err != nil {
		s.log.WithFields(logrus.Fields{
			"incident_id": incidentID,
			"error":       err.Error(),
		}).Error("Failed to update incident status")
	}
}

func toIncidentResponse(inc entity.EmergencyIncident) escalation.IncidentResponse {
	return escalation.IncidentResponse{
		ID:          inc.ID,
		UserID:      inc.UserID,
		TurnID:      inc.TurnID,
		Reason:      string(inc.Reason),
		Severity:    inc.Severity.String(),
		TextExcerpt: inc.TextExcerpt,
		Status:      string(inc.Status),
		Attempts:    inc.Attempts,
		CreatedAt:   inc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   inc.UpdatedAt.Format(time.RFC3339),
	}
}
