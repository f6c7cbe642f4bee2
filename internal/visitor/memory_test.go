package visitor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizdeck/backend/internal/domain/progress"
	"github.com/quizdeck/backend/internal/domain/quizsession"
	"github.com/quizdeck/backend/internal/visitor"
)

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	m := visitor.NewMemoryStore()

	p := progress.New("tok", 3, []int64{1, 2}, quizsession.RevealAtEnd, time.Hour)
	p.Record(1, 2, false)
	if err := m.Save(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := m.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionID != 3 || got.AnsweredSoFar() != 1 || got.Answers[1].UserAnswer != 2 {
		t.Errorf("progress not round-tripped: %+v", got)
	}

	// mutating the copy must not leak into the store
	got.Record(2, 0, true)
	again, _ := m.Get(ctx, "tok")
	if again.AnsweredSoFar() != 1 {
		t.Error("store should hold its own copy of the progress")
	}

	if err := m.Delete(ctx, "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Get(ctx, "tok"); !errors.Is(err, visitor.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore_ExpiredIsInvisible(t *testing.T) {
	ctx := context.Background()
	m := visitor.NewMemoryStore()

	p := progress.New("old", 1, []int64{1}, quizsession.RevealAtEnd, time.Hour)
	p.ExpiresAt = time.Now().Add(-time.Minute)
	m.Save(ctx, p)

	if _, err := m.Get(ctx, "old"); !errors.Is(err, visitor.ErrNotFound) {
		t.Errorf("expected expired progress to be hidden, got %v", err)
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	m := visitor.NewMemoryStore()

	fresh := progress.New("fresh", 1, []int64{1}, quizsession.RevealAtEnd, time.Hour)
	stale := progress.New("stale", 2, []int64{1}, quizsession.RevealAtEnd, time.Minute)
	m.Save(ctx, fresh)
	m.Save(ctx, stale)

	removed := m.Sweep(time.Now().Add(10 * time.Minute))
	if removed != 1 {
		t.Errorf("expected 1 entry swept, got %d", removed)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 entry left, got %d", m.Len())
	}
	if _, err := m.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh entry should survive the sweep: %v", err)
	}
}
