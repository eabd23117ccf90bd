package services

import (
	"context"
	"testing"
	"time"

	"github.com/bgeheroes/risk-backend/internal/apierr"
	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/risk"
	"github.com/bgeheroes/risk-backend/internal/riskconfig"
	"github.com/bgeheroes/risk-backend/internal/types"
)

func TestParseTimeframe(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 7 * 24 * time.Hour},
		{"24h", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"30d", 30 * 24 * time.Hour},
		{" 90D ", 90 * 24 * time.Hour},
	}
	for _, c := range cases {
		got, err := ParseTimeframe(c.raw)
		if err != nil {
			t.Fatalf("ParseTimeframe(%q): %v", c.raw, err)
		}
		if got != c.want {
			t.Fatalf("ParseTimeframe(%q) = %v, want %v", c.raw, got, c.want)
		}
	}

	for _, raw := range []string{"abc", "-3d", "0d", "semana"} {
		_, err := ParseTimeframe(raw)
		if apierr.StatusOf(err) != 400 {
			t.Fatalf("ParseTimeframe(%q): status = %d, want 400", raw, apierr.StatusOf(err))
		}
	}
}

func newDashboardFixture(t *testing.T) (DashboardService, *riskFixture) {
	t.Helper()
	fx := newRiskFixture(t)
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	svc := NewDashboardService(nil, log, riskconfig.Default(), fx.assessRepo, fx.alertRepo, fx.intRepo)
	return svc, fx
}

func TestDashboard_AggregatesAssessmentsAndInterventions(t *testing.T) {
	svc, fx := newDashboardFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Analyze(ctx, "BGE-2024-300", sampleFactors(), false); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	low := risk.FactorInput{"attendance": 0.1, "grades": 0.1}
	if _, err := fx.svc.Analyze(ctx, "BGE-2024-301", low, false); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	created, err := fx.interventions.Create(ctx, CreateInterventionInput{StudentID: "BGE-2024-300", Type: "academic"})
	if err != nil {
		t.Fatalf("Create intervention: %v", err)
	}
	done := types.InterventionStatusCompleted
	if _, err := fx.interventions.Update(ctx, created.ID, UpdateInterventionInput{Status: &done}); err != nil {
		t.Fatalf("Update intervention: %v", err)
	}

	data, err := svc.Dashboard(ctx, "7d")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if data.StudentsAssessed != 2 {
		t.Fatalf("students assessed = %d, want 2", data.StudentsAssessed)
	}
	var distributed int
	for _, n := range data.RiskLevelDistribution {
		distributed += n
	}
	if distributed != 2 {
		t.Fatalf("distribution covers %d students, want 2", distributed)
	}
	if data.FinishedInterventions != 1 {
		t.Fatalf("finished interventions = %d, want 1", data.FinishedInterventions)
	}
	if len(data.CategoryAverages) == 0 {
		t.Fatalf("category averages missing")
	}
}

func TestStudentProfile_DefaultsToMinimalWithoutAssessment(t *testing.T) {
	svc, _ := newDashboardFixture(t)

	profile, err := svc.StudentProfile(context.Background(), "BGE-2024-999")
	if err != nil {
		t.Fatalf("StudentProfile: %v", err)
	}
	if profile.RiskLevel != string(riskconfig.LevelMinimal) {
		t.Fatalf("risk level = %s, want minimal", profile.RiskLevel)
	}
	if profile.Assessment != nil {
		t.Fatalf("unassessed student should have no assessment")
	}
}

func TestStudentProfile_IncludesHistory(t *testing.T) {
	svc, fx := newDashboardFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Analyze(ctx, "BGE-2024-302", sampleFactors(), false); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := fx.interventions.Create(ctx, CreateInterventionInput{StudentID: "BGE-2024-302", Type: "social"}); err != nil {
		t.Fatalf("Create intervention: %v", err)
	}

	profile, err := svc.StudentProfile(ctx, "BGE-2024-302")
	if err != nil {
		t.Fatalf("StudentProfile: %v", err)
	}
	if profile.Assessment == nil {
		t.Fatalf("assessment missing from profile")
	}
	if profile.LastAssessed == nil {
		t.Fatalf("last assessed missing from profile")
	}
	if len(profile.Interventions) != 1 {
		t.Fatalf("interventions = %d, want 1", len(profile.Interventions))
	}
}
