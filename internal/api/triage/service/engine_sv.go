package triageService

import (
	"HealthTriageBot/internal/api/triage"
	triageRepository "HealthTriageBot/internal/api/triage/repository"
	"HealthTriageBot/internal/entity"
	contextPkg "HealthTriageBot/pkg/context"
	"HealthTriageBot/pkg/nlp"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var resetCommands = map[string]bool{
	"reset": true, "restart": true, "start over": true, "cancel": true,
}

var yesWords = map[string]bool{
	"yes": true, "y": true, "yeah": true, "yep": true, "haan": true, "han": true, "ha": true,
	"हां": true, "हाँ": true, "जी": true, "जी हां": true,
}

var noWords = map[string]bool{
	"no": true, "n": true, "nope": true, "nahi": true, "nahin": true,
	"नहीं": true, "नही": true,
}

// HandleMessage runs one user utterance through the whole pipeline: rate
// limit, session load, classification, stage transition, emergency check,
// reply composition, session save, turn audit. Per-user serialization is
// enforced here; everything downstream can assume it holds the only live
// copy of the session.
func (s *triageService) HandleMessage(ctx context.Context, req triage.InboundMessageRequest) (triage.ReplyResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if strings.TrimSpace(req.Text) == "" {
		return triage.ReplyResponse{}, triage.ErrEmptyMessage
	}
	if len(req.Text) > s.cfg.MaxMessageLength {
		return triage.ReplyResponse{}, triage.ErrMessageTooLong
	}

	if !s.limiter.Allow(req.UserID) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    s.utils.MaskUserID(req.UserID),
		}).Warn("User rate limited")
		return triage.ReplyResponse{}, triage.ErrRateLimited
	}

	s.locks.Lock(req.UserID)
	defer s.locks.Unlock(req.UserID)

	now := time.Now()

	session, err := s.loadOrCreateSession(ctx, req.UserID, now)
	if err != nil {
		return triage.ReplyResponse{}, err
	}

	language := req.LanguageHint
	if language == "" {
		language = nlp.DetectLanguage(req.Text)
	}
	session.Language = language

	normalized := nlp.NormalizeText(req.Text)

	intent, confidence, err := s.classifier.Classify(ctx, normalized, language)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Classifier failure")
		return triage.ReplyResponse{}, triage.ErrClassifier
	}

	turnID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return triage.ReplyResponse{}, err
	}

	turn := entity.Turn{
		ID:             turnID,
		RawText:        req.Text,
		NormalizedText: normalized,
		Intent:         intent,
		Confidence:     confidence,
		Language:       language,
		Timestamp:      now,
	}

	reply, incidentID := s.advance(ctx, session, &turn, now)
	turn.ReplyText = reply

	session.AppendTurn(turn, s.cfg.MaxConversationHistory)
	session.LastActivity = now

	// the session is only persisted after the turn fully succeeded; a failed
	// save leaves the previous state intact and surfaces a storage error
	if err := s.sessions.Save(ctx, session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to persist session")
		return triage.ReplyResponse{}, triage.ErrSessionStorage
	}

	s.recordTurn(ctx, req.UserID, turn, session.Stage)

	resp := triage.ReplyResponse{
		UserID:     req.UserID,
		TurnID:     turn.ID,
		Intent:     turn.Intent.String(),
		Stage:      session.Stage.String(),
		Language:   language,
		Reply:      reply,
		Emergency:  incidentID != "" || session.EscalationFlag,
		IncidentID: incidentID,
	}
	for _, c := range turn.Candidates {
		resp.Candidates = append(resp.Candidates, triage.CandidateResponse{
			Condition:  c.Condition,
			Severity:   c.Severity.String(),
			Confidence: c.Confidence,
			Symptoms:   c.Symptoms,
		})
	}

	return resp, nil
}

func (s *triageService) loadOrCreateSession(ctx context.Context, userID string, now time.Time) (*entity.Session, error) {
	session, err := s.sessions.Get(ctx, userID)
	if errors.Is(err, triageRepository.ErrSessionNotFound) {
		return entity.NewSession(userID, now), nil
	}
	if err != nil {
		return nil, triage.ErrSessionStorage
	}

	// an expired session is discarded wholesale, never resumed
	if session.Expired(now, s.cfg.SessionTimeout) {
		return entity.NewSession(userID, now), nil
	}

	return session, nil
}

// advance applies the stage machine to one classified turn and returns the
// reply plus the incident id when a new escalation was raised.
func (s *triageService) advance(ctx context.Context, session *entity.Session, turn *entity.Turn, now time.Time) (string, string) {
	lang := session.Language

	if resetCommands[turn.NormalizedText] {
		session.ResetQuery()
		session.Stage = entity.StageIdle
		return composeResetDone(lang), ""
	}

	// confirmation answers are matched directly; the classifier has no
	// YES/NO intent and would otherwise force a re-ask here
	if session.Stage == entity.StageAwaitingConfirmation && turn.Intent != entity.IntentEmergencyKeyword {
		if yesWords[turn.NormalizedText] {
			top := entity.SymptomCandidate{}
			if len(session.PendingCandidates) > 0 {
				top = session.PendingCandidates[0]
			}
			turn.Candidates = session.PendingCandidates
			session.Stage = entity.StageResolved
			session.ResetQuery()
			return composeResolved(lang, top), ""
		}
		if noWords[turn.NormalizedText] {
			session.ResetQuery()
			session.Stage = entity.StageAwaitingSymptomDetail
			return composeReask(lang), ""
		}

		// anything else gets one clarifying retry, after that the query
		// closes with every candidate on the table
		if session.ReaskCount < 1 {
			session.ReaskCount++
			return composeConfirmRetry(lang), ""
		}

		pending := session.PendingCandidates
		turn.Candidates = pending
		session.Stage = entity.StageResolved
		session.ResetQuery()
		return composeAllCandidates(lang, pending), ""
	}

	if turn.Intent == entity.IntentEmergencyKeyword {
		return s.handleEmergency(ctx, session, turn, entity.ReasonEmergencyKeyword, entity.SeverityCritical)
	}

	// below the confidence gate nothing is acted upon, the user is asked to
	// rephrase instead
	if turn.Confidence < s.cfg.ConfidenceThreshold {
		session.ReaskCount++
		return composeReask(lang), ""
	}

	switch turn.Intent {
	case entity.IntentGreeting:
		return composeGreeting(lang), ""

	case entity.IntentMedicineQuery:
		med, found := s.refData.FindMedicine(turn.NormalizedText)
		return composeMedicine(lang, med, found), ""

	case entity.IntentHospitalLookup:
		return composeHospitals(lang, s.refData.Hospitals), ""

	case entity.IntentHealthTip:
		return composeHealthTip(lang, s.refData.HealthTips, len(session.Turns)), ""

	case entity.IntentSymptomReport:
		return s.handleSymptomReport(ctx, session, turn, now)

	default:
		session.ReaskCount++
		return composeUnknown(lang), ""
	}
}

func (s *triageService) handleSymptomReport(ctx context.Context, session *entity.Session, turn *entity.Turn, _ time.Time) (string, string) {
	lang := session.Language

	matched, unmatched := s.extractor.ExtractSymptoms(turn.NormalizedText)
	turn.UnmatchedTokens = unmatched
	session.MergeSymptoms(matched)

	candidates := s.scorer.Score(session.SymptomAccumulator, lang)
	turn.Candidates = candidates

	if severityOfTurn(candidates) >= entity.SeverityHigh {
		session.HighSeverityStreak++
	} else {
		session.HighSeverityStreak = 0
	}

	verdict := s.evaluateEmergency(turn.Intent, candidates, session.HighSeverityStreak)
	if verdict.triggered {
		return s.handleEmergency(ctx, session, turn, verdict.reason, verdict.severity)
	}

	if len(session.SymptomAccumulator) < s.cfg.MinSymptomCount && session.FollowUpCount < s.cfg.MaxFollowUpTurns {
		session.FollowUpCount++
		session.Stage = entity.StageAwaitingSymptomDetail
		return composeFollowUp(lang), ""
	}

	if len(candidates) == 0 {
		session.ResetQuery()
		session.Stage = entity.StageIdle
		return composeNoCandidates(lang), ""
	}

	// two front-runners too close together: have the user confirm rather
	// than guessing between them
	if len(candidates) > 1 &&
		candidates[0].Confidence-candidates[1].Confidence < s.cfg.AmbiguityDelta {
		pending := candidates
		if len(pending) > 3 {
			pending = pending[:3]
		}
		session.PendingCandidates = pending
		session.ReaskCount = 0
		session.Stage = entity.StageAwaitingConfirmation
		return composeConfirmation(lang, pending), ""
	}

	top := candidates[0]
	session.Stage = entity.StageResolved
	session.ResetQuery()
	return composeResolved(lang, top), ""
}

func (s *triageService) handleEmergency(ctx context.Context, session *entity.Session, turn *entity.Turn, reason entity.EscalationReason, severity entity.SeverityTier) (string, string) {
	lang := session.Language
	requestID := contextPkg.GetRequestID(ctx)

	var incidentID string
	if !session.EscalationFlag {
		id, err := s.escalator.Escalate(ctx, session.UserID, *turn, reason, severity)
		if err != nil {
			// the user still gets the emergency guidance even when the
			// admin alert could not be queued
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
				"reason":     string(reason),
			}).Error("Failed to queue escalation")
		} else {
			incidentID = id
			session.EscalationFlag = true
		}
	} else {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    s.utils.MaskUserID(session.UserID),
		}).Info("Escalation suppressed, incident already open for session")
		session.ResetQuery()
		session.Stage = entity.StageResolved
		return composeEmergencyAcknowledged(lang), ""
	}

	// the emergency closes the current query; a later message starts a fresh
	// accumulator instead of inheriting the emergency symptoms
	session.ResetQuery()
	session.Stage = entity.StageResolved
	return composeEmergency(lang), incidentID
}

func (s *triageService) recordTurn(ctx context.Context, userID string, turn entity.Turn, stage entity.Stage) {
	if s.turnRepo == nil {
		return
	}

	repo, err := s.turnRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create audit client")
		return
	}

	// audit is best effort, a failed insert never fails the turn
	if err := repo.Turns.RecordTurn(ctx, userID, turn, stage); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to record turn audit")
	}
}

func (s *triageService) GetSession(ctx context.Context, userID string) (triage.SessionResponse, error) {
	session, err := s.sessions.Get(ctx, userID)
	if errors.Is(err, triageRepository.ErrSessionNotFound) {
		return triage.SessionResponse{}, triage.ErrSessionNotFound
	}
	if err != nil {
		return triage.SessionResponse{}, triage.ErrSessionStorage
	}

	if session.Expired(time.Now(), s.cfg.SessionTimeout) {
		return triage.SessionResponse{}, triage.ErrSessionNotFound
	}

	return triage.SessionResponse{
		UserID:    session.UserID,
		Stage:     session.Stage.String(),
		Language:  session.Language,
		Symptoms:  session.SymptomAccumulator,
		TurnCount: len(session.Turns),
		Escalated: session.EscalationFlag,
		ExpiresAt: session.LastActivity.Add(s.cfg.SessionTimeout).Format(time.RFC3339),
	}, nil
}

// GetTurnHistory reads the persisted turn audit for one user, newest first.
// Admin surface only; it requires the audit database to be configured.
func (s *triageService) GetTurnHistory(ctx context.Context, userID string, limit int) (triage.TurnHistoryResponse, error) {
	if s.turnRepo == nil {
		return triage.TurnHistoryResponse{}, triage.ErrSessionStorage
	}

	repo, err := s.turnRepo.NewClient(false)
	if err != nil {
		return triage.TurnHistoryResponse{}, triage.ErrSessionStorage
	}

	turns, err := repo.Turns.GetTurnsByUserID(ctx, userID, limit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to read turn history")
		return triage.TurnHistoryResponse{}, triage.ErrSessionStorage
	}

	resp := triage.TurnHistoryResponse{UserID: userID, Total: len(turns)}
	for _, t := range turns {
		resp.Turns = append(resp.Turns, triage.TurnRecordResponse{
			TurnID:     t.ID,
			Text:       t.RawText,
			Intent:     t.Intent.String(),
			Confidence: t.Confidence,
			Language:   t.Language,
			Reply:      t.ReplyText,
			Timestamp:  t.Timestamp.Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (s *triageService) ResetSession(ctx context.Context, userID string) error {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	if err := s.sessions.Delete(ctx, userID); err != nil {
		return triage.ErrSessionStorage
	}
	return nil
}

// ClearEscalation drops the open-incident flag so a later emergency in the
// same session raises a fresh incident. Called when an admin acknowledges.
func (s *triageService) ClearEscalation(ctx context.Context, userID string) error {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	session, err := s.sessions.Get(ctx, userID)
	if errors.Is(err, triageRepository.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return triage.ErrSessionStorage
	}

	if !session.EscalationFlag {
		return nil
	}

	session.EscalationFlag = false
	if err := s.sessions.Save(ctx, session); err != nil {
		return triage.ErrSessionStorage
	}
	return nil
}

func (s *triageService) VerifyWebhook(req triage.WebhookVerifyRequest) (string, error) {
	if req.Mode != "subscribe" || s.verifyToken == "" || req.VerifyToken != s.verifyToken {
		return "", triage.ErrWebhookVerification
	}
	return req.Challenge, nil
}
