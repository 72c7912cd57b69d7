package entity

import (
	"testing"
	"time"
)

func TestAppendTurnEvictsOldest(t *testing.T) {
	s := NewSession("u1", time.Now())

	for i := 0; i < 5; i++ {
		s.AppendTurn(Turn{ID: string(rune('a' + i))}, 3)
	}

	if len(s.Turns) != 3 {
		t.Fatalf("history length = %d, want 3", len(s.Turns))
	}
	if s.Turns[0].ID != "c" || s.Turns[2].ID != "e" {
		t.Fatalf("unexpected retained turns: %v", s.Turns)
	}
}

func TestMergeSymptomsDeduplicates(t *testing.T) {
	s := NewSession("u1", time.Now())

	s.MergeSymptoms([]string{"fever", "cough"})
	s.MergeSymptoms([]string{"cough", "rash", "fever"})

	if len(s.SymptomAccumulator) != 3 {
		t.Fatalf("accumulator = %v, want 3 unique entries", s.SymptomAccumulator)
	}
}

func TestResetQueryKeepsHistoryAndFlag(t *testing.T) {
	s := NewSession("u1", time.Now())
	s.AppendTurn(Turn{ID: "a"}, 10)
	s.MergeSymptoms([]string{"fever"})
	s.FollowUpCount = 2
	s.HighSeverityStreak = 3
	s.EscalationFlag = true

	s.ResetQuery()

	if len(s.SymptomAccumulator) != 0 || s.FollowUpCount != 0 || s.HighSeverityStreak != 0 {
		t.Fatal("query state should be cleared")
	}
	if len(s.Turns) != 1 {
		t.Fatal("turn history must survive a query reset")
	}
	if !s.EscalationFlag {
		t.Fatal("escalation flag must survive a query reset")
	}
}

func TestExpiredBoundary(t *testing.T) {
	now := time.Now()
	s := NewSession("u1", now)

	if s.Expired(now.Add(29*time.Minute), 30*time.Minute) {
		t.Fatal("session should be live just under the timeout")
	}
	if !s.Expired(now.Add(30*time.Minute), 30*time.Minute) {
		t.Fatal("session should expire exactly at the timeout")
	}
}
