package triageService

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"HealthTriageBot/internal/api/triage"
	triageRepository "HealthTriageBot/internal/api/triage/repository"
	"HealthTriageBot/internal/entity"
	"HealthTriageBot/pkg/nlp"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type fakeEscalator struct {
	calls      int
	lastReason entity.EscalationReason
	fail       bool
}

func (f *fakeEscalator) Escalate(_ context.Context, _ string, _ entity.Turn, reason entity.EscalationReason, _ entity.SeverityTier) (string, error) {
	if f.fail {
		return "", errors.New("alert channel down")
	}
	f.calls++
	f.lastReason = reason
	return fmt.Sprintf("incident-%d", f.calls), nil
}

func testConfig() Config {
	return Config{
		ConfidenceThreshold:      0.75,
		SessionTimeout:           30 * time.Minute,
		RateLimitPerMinute:       60,
		MaxConversationHistory:   50,
		EmergencyConfidenceFloor: 0.40,
		MinSymptomCount:          2,
		MaxFollowUpTurns:         2,
		AmbiguityDelta:           0.15,
		SustainedHighTurns:       3,
		MaxMessageLength:         2000,
	}
}

func newTestService(t *testing.T, cfg Config, escalator IEscalator) ITriageService {
	t.Helper()

	refData, err := nlp.LoadReferenceData("")
	if err != nil {
		t.Fatal(err)
	}

	logger := logrus.New()
	sessions := triageRepository.NewMemorySessionStore(cfg.SessionTimeout)

	return New(
		logger,
		cfg,
		sessions,
		nil,
		nlp.NewRuleClassifier(refData),
		nlp.NewOverlapScorer(refData),
		refData,
		escalator,
		"test-verify-token",
	)
}

func send(t *testing.T, svc ITriageService, userID, text string) triage.ReplyResponse {
	t.Helper()
	resp, err := svc.HandleMessage(context.Background(), triage.InboundMessageRequest{
		UserID: userID,
		Text:   text,
	})
	if err != nil {
		t.Fatalf("HandleMessage(%q) error: %v", text, err)
	}
	return resp
}

func TestUnambiguousSymptomsResolveDirectly(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	// common cold leads its runner-up by well over the ambiguity delta, so
	// the engine answers without asking for confirmation
	resp := send(t, svc, "919876501001", "runny nose sore throat cough and sneezing")
	if resp.Stage != "RESOLVED" {
		t.Fatalf("stage = %s, want RESOLVED", resp.Stage)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Condition != "common cold" {
		t.Fatalf("candidates = %+v, want common cold on top", resp.Candidates)
	}
	if resp.Emergency {
		t.Fatal("low-severity resolution must not flag an emergency")
	}

	session, err := svc.GetSession(context.Background(), "919876501001")
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Symptoms) != 0 {
		t.Errorf("accumulator after resolution = %v, want empty", session.Symptoms)
	}
}

func TestAmbiguousSymptomsAskForConfirmation(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	// pneumonia and influenza score within the ambiguity delta of each other
	first := send(t, svc, "919876501014", "I have fever and cough")
	if first.Stage != "AWAITING_CONFIRMATION" {
		t.Fatalf("first stage = %s, want AWAITING_CONFIRMATION", first.Stage)
	}
	if len(first.Candidates) < 2 {
		t.Fatalf("candidates = %+v, want at least two close contenders", first.Candidates)
	}
	if first.Candidates[0].Condition != "pneumonia" {
		t.Errorf("top candidate = %s, want pneumonia", first.Candidates[0].Condition)
	}
	if first.Emergency {
		t.Fatal("plain symptoms should not flag an emergency")
	}

	second := send(t, svc, "919876501014", "yes")
	if second.Stage != "RESOLVED" {
		t.Fatalf("second stage = %s, want RESOLVED", second.Stage)
	}
}

func TestFollowUpWhenTooFewSymptoms(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	first := send(t, svc, "919876501015", "I have a cough")
	if first.Stage != "AWAITING_SYMPTOM_DETAIL" {
		t.Fatalf("first stage = %s, want AWAITING_SYMPTOM_DETAIL", first.Stage)
	}

	second := send(t, svc, "919876501015", "now fever as well")
	if second.Stage != "AWAITING_CONFIRMATION" {
		t.Fatalf("second stage = %s, want AWAITING_CONFIRMATION", second.Stage)
	}
}

func TestConfirmationNoReasks(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	send(t, svc, "919876501002", "I have fever and cough")
	resp := send(t, svc, "919876501002", "no")

	if resp.Stage != "AWAITING_SYMPTOM_DETAIL" {
		t.Fatalf("stage after rejection = %s, want AWAITING_SYMPTOM_DETAIL", resp.Stage)
	}

	session, err := svc.GetSession(context.Background(), "919876501002")
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Symptoms) != 0 {
		t.Errorf("symptom accumulator should be cleared after rejection, got %v", session.Symptoms)
	}
}

func TestConfirmationUnclearReplyRetriesOnceThenCloses(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	send(t, svc, "919876501016", "I have fever and cough")

	first := send(t, svc, "919876501016", "maybe, hard to say")
	if first.Stage != "AWAITING_CONFIRMATION" {
		t.Fatalf("stage after first unclear answer = %s, want AWAITING_CONFIRMATION", first.Stage)
	}

	second := send(t, svc, "919876501016", "it comes and goes")
	if second.Stage != "RESOLVED" {
		t.Fatalf("stage after second unclear answer = %s, want RESOLVED", second.Stage)
	}
	if len(second.Candidates) == 0 {
		t.Fatal("closing reply must carry every pending candidate")
	}

	session, err := svc.GetSession(context.Background(), "919876501016")
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Symptoms) != 0 {
		t.Errorf("accumulator after close-out = %v, want empty", session.Symptoms)
	}
}

func TestEmergencyKeywordEscalatesOnce(t *testing.T) {
	esc := &fakeEscalator{}
	svc := newTestService(t, testConfig(), esc)

	first := send(t, svc, "919876501003", "my father has severe chest pain")
	if !first.Emergency {
		t.Fatal("emergency keyword should flag emergency")
	}
	if first.IncidentID == "" {
		t.Fatal("expected an incident id on first emergency")
	}
	if esc.calls != 1 {
		t.Fatalf("escalator calls = %d, want 1", esc.calls)
	}

	second := send(t, svc, "919876501003", "he is unconscious now")
	if !second.Emergency {
		t.Fatal("session should stay flagged as emergency")
	}
	if second.IncidentID != "" {
		t.Error("repeat emergency in same session should not raise a new incident")
	}
	if esc.calls != 1 {
		t.Fatalf("escalator calls after repeat = %d, want 1", esc.calls)
	}
	// the repeat gets a short acknowledgement, not the full guidance again
	if second.Reply == first.Reply {
		t.Error("repeat emergency should not repeat the full emergency guidance")
	}
}

func TestEmergencyClearsQueryState(t *testing.T) {
	esc := &fakeEscalator{}
	svc := newTestService(t, testConfig(), esc)

	first := send(t, svc, "919876503001", "sudden numbness, confusion and slurred speech")
	if !first.Emergency {
		t.Fatal("stroke symptoms above the floor must escalate")
	}

	session, err := svc.GetSession(context.Background(), "919876503001")
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Symptoms) != 0 {
		t.Fatalf("accumulator after emergency = %v, want empty", session.Symptoms)
	}

	// an unrelated complaint afterwards must score on its own symptoms
	second := send(t, svc, "919876503001", "runny nose and sneezing")
	if len(second.Candidates) == 0 {
		t.Fatal("expected candidates for the new complaint")
	}
	for _, c := range second.Candidates {
		if c.Condition == "stroke" {
			t.Fatalf("stroke leaked into the next query: %+v", second.Candidates)
		}
	}
	if second.Stage != "AWAITING_CONFIRMATION" {
		t.Fatalf("stage = %s, want AWAITING_CONFIRMATION", second.Stage)
	}
	if esc.calls != 1 {
		t.Fatalf("escalator calls = %d, want 1", esc.calls)
	}
}

func TestClearEscalationAllowsNewIncident(t *testing.T) {
	esc := &fakeEscalator{}
	svc := newTestService(t, testConfig(), esc)

	send(t, svc, "919876501004", "severe bleeding from the wound")
	if esc.calls != 1 {
		t.Fatalf("escalator calls = %d, want 1", esc.calls)
	}

	if err := svc.ClearEscalation(context.Background(), "919876501004"); err != nil {
		t.Fatal(err)
	}

	resp := send(t, svc, "919876501004", "now she is not breathing")
	if resp.IncidentID == "" {
		t.Fatal("expected fresh incident after acknowledgement")
	}
	if esc.calls != 2 {
		t.Fatalf("escalator calls = %d, want 2", esc.calls)
	}
}

func TestEmergencyReplyStillSentWhenEscalatorFails(t *testing.T) {
	esc := &fakeEscalator{fail: true}
	svc := newTestService(t, testConfig(), esc)

	resp := send(t, svc, "919876501005", "i think it is a heart attack")
	if resp.Reply == "" {
		t.Fatal("user must still receive emergency guidance")
	}
	if resp.IncidentID != "" {
		t.Error("no incident id when queueing failed")
	}

	// flag was not set, the next emergency tries again
	send(t, svc, "919876501005", "heart attack")
}

func TestRateLimitRejectsBurst(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2
	svc := newTestService(t, cfg, &fakeEscalator{})

	send(t, svc, "919876501006", "hello")
	send(t, svc, "919876501006", "hello")

	_, err := svc.HandleMessage(context.Background(), triage.InboundMessageRequest{
		UserID: "919876501006",
		Text:   "hello again",
	})
	if !errors.Is(err, triage.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	// a different user has an untouched bucket
	send(t, svc, "919876501007", "hello")
}

func TestLowConfidenceReasks(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	resp := send(t, svc, "919876501008", "xylophone quarterly banana")
	if resp.Intent != "UNKNOWN" {
		t.Fatalf("intent = %s, want UNKNOWN", resp.Intent)
	}
	if resp.Stage != "IDLE" {
		t.Fatalf("stage = %s, want IDLE", resp.Stage)
	}
	if resp.Emergency {
		t.Fatal("gibberish must not trigger an emergency")
	}
}

func TestEmptyAndOversizedMessages(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	_, err := svc.HandleMessage(context.Background(), triage.InboundMessageRequest{
		UserID: "919876501009",
		Text:   "   ",
	})
	if !errors.Is(err, triage.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}

	long := make([]byte, 3000)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.HandleMessage(context.Background(), triage.InboundMessageRequest{
		UserID: "919876501009",
		Text:   string(long),
	})
	if !errors.Is(err, triage.ErrMessageTooLong) {
		t.Fatalf("expected ErrMessageTooLong, got %v", err)
	}
}

func TestSessionExpiryStartsFresh(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTimeout = time.Nanosecond
	svc := newTestService(t, cfg, &fakeEscalator{})

	send(t, svc, "919876501010", "I have fever and cough")

	_, err := svc.GetSession(context.Background(), "919876501010")
	if !errors.Is(err, triage.ErrSessionNotFound) {
		t.Fatalf("expired session should read as not found, got %v", err)
	}

	// the next message runs on a brand new session, follow-up counting restarts
	resp := send(t, svc, "919876501010", "headache")
	if resp.Stage != "AWAITING_SYMPTOM_DETAIL" {
		t.Fatalf("stage on fresh session = %s, want AWAITING_SYMPTOM_DETAIL", resp.Stage)
	}
}

func TestResetCommandClearsQuery(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	send(t, svc, "919876501011", "I have fever and cough")
	resp := send(t, svc, "919876501011", "reset")
	if resp.Stage != "IDLE" {
		t.Fatalf("stage after reset = %s, want IDLE", resp.Stage)
	}

	session, err := svc.GetSession(context.Background(), "919876501011")
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Symptoms) != 0 {
		t.Errorf("accumulator after reset = %v, want empty", session.Symptoms)
	}
}

func TestMedicineAndHospitalLookups(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	med := send(t, svc, "919876501012", "what is the dose of paracetamol")
	if med.Intent != "MEDICINE_QUERY" {
		t.Fatalf("intent = %s, want MEDICINE_QUERY", med.Intent)
	}

	hosp := send(t, svc, "919876501012", "nearest hospital please")
	if hosp.Intent != "HOSPITAL_LOOKUP" {
		t.Fatalf("intent = %s, want HOSPITAL_LOOKUP", hosp.Intent)
	}
	if hosp.Reply == "" {
		t.Fatal("hospital reply should list directory entries")
	}
}

func TestWebhookVerification(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	challenge, err := svc.VerifyWebhook(triage.WebhookVerifyRequest{
		Mode:        "subscribe",
		Challenge:   "12345",
		VerifyToken: "test-verify-token",
	})
	if err != nil {
		t.Fatal(err)
	}
	if challenge != "12345" {
		t.Fatalf("challenge = %q, want 12345", challenge)
	}

	_, err = svc.VerifyWebhook(triage.WebhookVerifyRequest{
		Mode:        "subscribe",
		Challenge:   "12345",
		VerifyToken: "wrong",
	})
	if !errors.Is(err, triage.ErrWebhookVerification) {
		t.Fatalf("expected ErrWebhookVerification, got %v", err)
	}
}

func TestTurnHistoryRequiresAuditStore(t *testing.T) {
	// the test service runs without a database, so the audit read surfaces
	// a storage error instead of an empty history
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	_, err := svc.GetTurnHistory(context.Background(), "919876501017", 10)
	if !errors.Is(err, triage.ErrSessionStorage) {
		t.Fatalf("expected ErrSessionStorage, got %v", err)
	}
}

func TestHindiMessageGetsHindiReply(t *testing.T) {
	svc := newTestService(t, testConfig(), &fakeEscalator{})

	resp := send(t, svc, "919876501013", "नमस्ते")
	if resp.Language != "hi" {
		t.Fatalf("language = %s, want hi", resp.Language)
	}
}
