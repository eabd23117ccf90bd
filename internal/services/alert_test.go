package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/riskconfig"
	"github.com/bgeheroes/risk-backend/internal/types"
)

func seedAlert(t *testing.T, repo *fakeAlertRepo, studentID, level string, age time.Duration) *types.RiskAlert {
	t.Helper()
	a := &types.RiskAlert{
		ID:        uuid.New(),
		StudentID: studentID,
		Type:      "academic",
		Level:     level,
		Message:   "seed",
		CreatedAt: time.Now().UTC().Add(-age),
	}
	if err := repo.CreateMany(context.Background(), nil, []*types.RiskAlert{a}); err != nil {
		t.Fatalf("seed alert: %v", err)
	}
	return a
}

func newAlertFixture(t *testing.T) (AlertService, *fakeAlertRepo, *riskconfig.Config) {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	cfg := riskconfig.Default()
	repo := newFakeAlertRepo()
	return NewAlertService(nil, log, cfg, repo, nil), repo, cfg
}

func TestAlertQuery_LevelFilterAndLimit(t *testing.T) {
	svc, repo, _ := newAlertFixture(t)

	for i := 0; i < 8; i++ {
		seedAlert(t, repo, "BGE-2024-100", types.AlertLevelCritical, time.Duration(i)*time.Hour)
	}
	seedAlert(t, repo, "BGE-2024-100", types.AlertLevelWarning, time.Minute)
	seedAlert(t, repo, "BGE-2024-101", types.AlertLevelInfo, time.Minute)

	rows, summary, err := svc.Query(context.Background(), AlertQuery{Level: types.AlertLevelCritical, Limit: 5})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	for i, a := range rows {
		if a.Level != types.AlertLevelCritical {
			t.Fatalf("row %d has level %s", i, a.Level)
		}
		if i > 0 && rows[i-1].CreatedAt.Before(a.CreatedAt) {
			t.Fatalf("rows not sorted newest first at index %d", i)
		}
	}
	if summary.Total != 10 {
		t.Fatalf("summary total = %d, want 10", summary.Total)
	}
	if summary.ByLevel[types.AlertLevelCritical] != 8 {
		t.Fatalf("critical count = %d, want 8", summary.ByLevel[types.AlertLevelCritical])
	}
}

func TestAlertQuery_DefaultLimit(t *testing.T) {
	svc, repo, cfg := newAlertFixture(t)
	for i := 0; i < cfg.AlertQueryLimit+10; i++ {
		seedAlert(t, repo, "BGE-2024-102", types.AlertLevelWarning, time.Duration(i)*time.Minute)
	}
	rows, _, err := svc.Query(context.Background(), AlertQuery{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != cfg.AlertQueryLimit {
		t.Fatalf("rows = %d, want default limit %d", len(rows), cfg.AlertQueryLimit)
	}
}

func TestAlertRecord_SweepsExpiredAlerts(t *testing.T) {
	svc, repo, cfg := newAlertFixture(t)
	old := seedAlert(t, repo, "BGE-2024-103", types.AlertLevelWarning, time.Duration(cfg.AlertRetentionDays+5)*24*time.Hour)

	fresh := &types.RiskAlert{
		ID:        uuid.New(),
		StudentID: "BGE-2024-104",
		Type:      "academic",
		Level:     types.AlertLevelWarning,
		Message:   "nuevo",
		CreatedAt: time.Now().UTC(),
	}
	kept, err := svc.Record(context.Background(), nil, []*types.RiskAlert{fresh})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("kept = %d, want 1", len(kept))
	}

	rows, _, err := svc.Query(context.Background(), AlertQuery{StudentID: old.StudentID})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expired alert should have been swept, found %d", len(rows))
	}
}
