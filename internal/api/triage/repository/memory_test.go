package triageRepository

import (
	"context"
	"errors"
	"testing"
	"time"

	"HealthTriageBot/internal/entity"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := entity.NewSession("919876504001", time.Now())
	session.MergeSymptoms([]string{"fever", "cough"})

	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "919876504001")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.SymptomAccumulator) != 2 {
		t.Fatalf("accumulator = %v, want 2 entries", got.SymptomAccumulator)
	}
}

func TestMemoryStoreExpiresOnRead(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	store := NewMemorySessionStoreWithClock(30*time.Minute, clock)
	ctx := context.Background()

	session := entity.NewSession("919876504002", now)
	session.LastActivity = now
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}

	now = now.Add(29 * time.Minute)
	if _, err := store.Get(ctx, "919876504002"); err != nil {
		t.Fatalf("session should still be live at 29m, got %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, "919876504002"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound past the timeout, got %v", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := entity.NewSession("919876504003", time.Now())
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}

	first, _ := store.Get(ctx, "919876504003")
	first.Stage = entity.StageResolved

	second, _ := store.Get(ctx, "919876504003")
	if second.Stage != entity.StageIdle {
		t.Fatal("mutating a fetched session must not affect the stored one")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	session := entity.NewSession("919876504004", time.Now())
	if err := store.Save(ctx, session); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "919876504004"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "919876504004"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}
