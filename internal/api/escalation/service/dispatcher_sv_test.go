package escalationService

import (
	"errors"
	"sync"
	"testing"
	"time"

	"HealthTriageBot/internal/api/escalation"
	"HealthTriageBot/internal/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type fakeSender struct {
	mu        sync.Mutex
	sent      []string
	failFirst int
	calls     int
}

func (f *fakeSender) SendMessage(_ context.Context, phoneNumber, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failFirst {
		return errors.New("send failed")
	}
	f.sent = append(f.sent, phoneNumber)
	return nil
}

func (f *fakeSender) Disconnect() error { return nil }

func (f *fakeSender) IsConnected() bool { return true }

func (f *fakeSender) deliveries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}

func testDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueCapacity:     4,
		RetryCeiling:      3,
		InitialBackoff:    time.Millisecond,
		AdminPhoneNumbers: []string{"911111111111", "922222222222"},
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func testTurn() entity.Turn {
	return entity.Turn{
		ID:      "turn-1",
		RawText: "severe chest pain",
	}
}

func TestDispatchFansOutToAllAdmins(t *testing.T) {
	sender := &fakeSender{}
	svc := New(logrus.New(), testDispatcherConfig(), nil, sender)
	svc.Start()
	defer svc.Shutdown()

	id, err := svc.Escalate(context.Background(), "919876503001", testTurn(), entity.ReasonEmergencyKeyword, entity.SeverityCritical)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected incident id")
	}

	waitFor(t, func() bool { return len(sender.deliveries()) == 2 })

	health := svc.QueueHealth()
	if health.Dispatched != 1 {
		t.Fatalf("dispatched = %d, want 1", health.Dispatched)
	}
}

func TestDispatchRetriesThenSucceeds(t *testing.T) {
	// both admin sends fail on the first attempt, succeed on the retry
	sender := &fakeSender{failFirst: 2}
	svc := New(logrus.New(), testDispatcherConfig(), nil, sender)
	svc.Start()
	defer svc.Shutdown()

	if _, err := svc.Escalate(context.Background(), "919876503002", testTurn(), entity.ReasonCriticalCondition, entity.SeverityCritical); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return svc.QueueHealth().Dispatched == 1 })

	health := svc.QueueHealth()
	if health.Retried == 0 {
		t.Fatal("expected at least one retry")
	}
}

func TestDispatchGivesUpAtRetryCeiling(t *testing.T) {
	sender := &fakeSender{failFirst: 1 << 30}
	cfg := testDispatcherConfig()
	cfg.RetryCeiling = 2
	svc := New(logrus.New(), cfg, nil, sender)
	svc.Start()
	defer svc.Shutdown()

	if _, err := svc.Escalate(context.Background(), "919876503003", testTurn(), entity.ReasonEmergencyKeyword, entity.SeverityCritical); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return svc.QueueHealth().Failed == 1 })

	health := svc.QueueHealth()
	if health.Dispatched != 0 {
		t.Fatalf("dispatched = %d, want 0", health.Dispatched)
	}
}

func TestEscalateDeduplicatesOpenIncident(t *testing.T) {
	sender := &fakeSender{}
	svc := New(logrus.New(), testDispatcherConfig(), nil, sender)
	svc.Start()
	defer svc.Shutdown()

	first, err := svc.Escalate(context.Background(), "919876503004", testTurn(), entity.ReasonEmergencyKeyword, entity.SeverityCritical)
	if err != nil {
		t.Fatal(err)
	}

	second, err := svc.Escalate(context.Background(), "919876503004", testTurn(), entity.ReasonEmergencyKeyword, entity.SeverityCritical)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Fatalf("expected deduplicated incident id, got %s and %s", first, second)
	}
}

func TestAcknowledgeRejectsEmptyIncidentID(t *testing.T) {
	svc := New(logrus.New(), testDispatcherConfig(), nil, &fakeSender{})
	defer svc.Shutdown()

	_, err := svc.Acknowledge(context.Background(), "")
	if !errors.Is(err, escalation.ErrInvalidIncidentID) {
		t.Fatalf("expected ErrInvalidIncidentID, got %v", err)
	}
}

func TestQueueFullReturnsError(t *testing.T) {
	// no worker started, the queue fills up and stays full
	sender := &fakeSender{}
	cfg := testDispatcherConfig()
	cfg.QueueCapacity = 1
	svc := New(logrus.New(), cfg, nil, sender)
	defer svc.Shutdown()

	if _, err := svc.Escalate(context.Background(), "919876503005", testTurn(), entity.ReasonEmergencyKeyword, entity.SeverityCritical); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Escalate(context.Background(), "919876503006", testTurn(), entity.ReasonEmergencyKeyword, entity.SeverityCritical)
	if !errors.Is(err, escalation.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	if svc.QueueHealth().DroppedAtLimit != 1 {
		t.Fatalf("dropped = %d, want 1", svc.QueueHealth().DroppedAtLimit)
	}
}
