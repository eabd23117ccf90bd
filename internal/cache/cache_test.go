package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bgeheroes/risk-backend/internal/types"
)

func TestMemoryCache_ExpiresAfterTTL(t *testing.T) {
	c := NewMemoryCache()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	now := base
	c.SetClock(func() time.Time { return now })

	a := &types.RiskAssessment{ID: uuid.New(), StudentID: "BGE-2024-001"}
	if err := c.Set(context.Background(), a.StudentID, a, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	now = base.Add(59 * time.Minute)
	got, ok, err := c.Get(context.Background(), a.StudentID)
	if err != nil || !ok {
		t.Fatalf("Get within TTL: ok=%v err=%v", ok, err)
	}
	if got.ID != a.ID {
		t.Fatalf("Get returned wrong assessment")
	}

	now = base.Add(61 * time.Minute)
	_, ok, err = c.Get(context.Background(), a.StudentID)
	if err != nil {
		t.Fatalf("Get after TTL: %v", err)
	}
	if ok {
		t.Fatalf("entry should have expired")
	}
}

func TestMemoryCache_Invalidate(t *testing.T) {
	c := NewMemoryCache()
	a := &types.RiskAssessment{ID: uuid.New(), StudentID: "BGE-2024-002"}
	if err := c.Set(context.Background(), a.StudentID, a, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Invalidate(context.Background(), a.StudentID); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	_, ok, err := c.Get(context.Background(), a.StudentID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("invalidated entry should be gone")
	}
}

func TestMemoryCache_MissOnUnknownStudent(t *testing.T) {
	c := NewMemoryCache()
	_, ok, err := c.Get(context.Background(), "BGE-0000-000")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("unknown student should miss")
	}
}
