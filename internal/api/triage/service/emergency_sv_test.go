package triageService

import (
	"testing"

	"HealthTriageBot/internal/entity"
)

func TestCriticalConditionAboveFloorEscalates(t *testing.T) {
	esc := &fakeEscalator{}
	svc := newTestService(t, testConfig(), esc)

	// stroke symptoms with no hardcoded emergency phrase in the text
	resp := send(t, svc, "919876502001", "sudden numbness, confusion and slurred speech")
	if !resp.Emergency {
		t.Fatal("critical condition above the confidence floor must escalate")
	}
	if esc.lastReason != entity.ReasonCriticalCondition {
		t.Fatalf("reason = %s, want critical_condition", esc.lastReason)
	}
}

func TestSustainedHighSeverityEscalates(t *testing.T) {
	esc := &fakeEscalator{}
	cfg := testConfig()
	cfg.SustainedHighTurns = 3
	svc := newTestService(t, cfg, esc)

	// a single vague dengue symptom keeps the query open on follow-ups, so
	// the high-severity streak builds across turns
	send(t, svc, "919876502002", "terrible joint pain")
	if esc.calls != 0 {
		t.Fatal("one high-severity turn must not escalate")
	}

	send(t, svc, "919876502002", "the joint pain is still there")
	if esc.calls != 0 {
		t.Fatal("two high-severity turns must not escalate")
	}

	resp := send(t, svc, "919876502002", "joint pain and it is getting worse")
	if !resp.Emergency {
		t.Fatal("third consecutive high-severity turn must escalate")
	}
	if esc.lastReason != entity.ReasonSustainedSeverity {
		t.Fatalf("reason = %s, want sustained_severity", esc.lastReason)
	}
}

func TestEvaluateEmergencyIsIdempotent(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{}).(*triageService)

	candidates := []entity.SymptomCandidate{
		{Condition: "heart attack", Severity: entity.SeverityCritical, Confidence: 0.6},
	}

	first := svc.evaluateEmergency(entity.IntentSymptomReport, candidates, 0)
	second := svc.evaluateEmergency(entity.IntentSymptomReport, candidates, 0)

	if first != second {
		t.Fatalf("verdicts differ across identical evaluations: %+v vs %+v", first, second)
	}
	if !first.triggered || first.reason != entity.ReasonCriticalCondition {
		t.Fatalf("unexpected verdict %+v", first)
	}
}

func TestCriticalBelowFloorDoesNotEscalate(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{}).(*triageService)

	candidates := []entity.SymptomCandidate{
		{Condition: "stroke", Severity: entity.SeverityCritical, Confidence: 0.2},
	}

	verdict := svc.evaluateEmergency(entity.IntentSymptomReport, candidates, 0)
	if verdict.triggered {
		t.Fatal("critical candidate below the confidence floor must not escalate")
	}
}
