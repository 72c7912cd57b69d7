package triageService

import (
	"HealthTriageBot/internal/entity"
)

// emergencyVerdict is the outcome of one evaluation. Zero value means no
// emergency.
type emergencyVerdict struct {
	triggered bool
	reason    entity.EscalationReason
	severity  entity.SeverityTier
}

// evaluateEmergency decides whether the current turn constitutes an emergency.
// It is a pure function of its inputs: the same turn evaluated twice yields
// the same verdict and mutates nothing.
//
// Three triggers, checked in priority order:
//  1. the classifier flagged an emergency keyword
//  2. the top condition candidate is critical with confidence at or above the
//     emergency floor
//  3. the session has reported high-or-critical severity for enough
//     consecutive turns
func (s *triageService) evaluateEmergency(intent entity.Intent, candidates []entity.SymptomCandidate, highSeverityStreak int) emergencyVerdict {
	if intent == entity.IntentEmergencyKeyword {
		return emergencyVerdict{
			triggered: true,
			reason:    entity.ReasonEmergencyKeyword,
			severity:  entity.SeverityCritical,
		}
	}

	if len(candidates) > 0 {
		top := candidates[0]
		if top.Severity == entity.SeverityCritical && top.Confidence >= s.cfg.EmergencyConfidenceFloor {
			return emergencyVerdict{
				triggered: true,
				reason:    entity.ReasonCriticalCondition,
				severity:  entity.SeverityCritical,
			}
		}
	}

	if highSeverityStreak >= s.cfg.SustainedHighTurns {
		return emergencyVerdict{
			triggered: true,
			reason:    entity.ReasonSustainedSeverity,
			severity:  entity.SeverityHigh,
		}
	}

	return emergencyVerdict{}
}

// severityOfTurn is the severity contribution of one turn toward the
// sustained-severity streak.
func severityOfTurn(candidates []entity.SymptomCandidate) entity.SeverityTier {
	if len(candidates) == 0 {
		return entity.SeverityLow
	}
	return candidates[0].Severity
}
