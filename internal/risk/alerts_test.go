package risk

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/bgeheroes/risk-backend/internal/types"
)

func assessmentWithScores(scores map[string]float64, overall float64) *types.RiskAssessment {
	return &types.RiskAssessment{
		ID:             uuid.New(),
		StudentID:      "S1",
		CategoryScores: datatypes.NewJSONType(scores),
		OverallRisk:    overall,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestEvaluateForAlerts_ThresholdBoundaries(t *testing.T) {
	cfg := twoCategoryConfig()

	// Exactly at high -> warning.
	alerts := EvaluateForAlerts(cfg, assessmentWithScores(map[string]float64{"academic": 0.7}, 0.3))
	if len(alerts) != 1 || alerts[0].Level != types.AlertLevelWarning {
		t.Fatalf("expected one warning alert at the high bound, got %+v", alerts)
	}

	// Exactly at critical -> critical.
	alerts = EvaluateForAlerts(cfg, assessmentWithScores(map[string]float64{"academic": 0.85}, 0.3))
	if len(alerts) != 1 || alerts[0].Level != types.AlertLevelCritical {
		t.Fatalf("expected one critical alert at the critical bound, got %+v", alerts)
	}

	// Just below high -> nothing.
	alerts = EvaluateForAlerts(cfg, assessmentWithScores(map[string]float64{"academic": 0.699}, 0.3))
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts below the high bound, got %+v", alerts)
	}
}

func TestEvaluateForAlerts_EmergencyOverall(t *testing.T) {
	cfg := twoCategoryConfig()
	alerts := EvaluateForAlerts(cfg, assessmentWithScores(map[string]float64{"academic": 0.2}, 0.81))
	if len(alerts) != 1 {
		t.Fatalf("expected a single emergency alert, got %d", len(alerts))
	}
	if alerts[0].Type != types.AlertTypeOverall || alerts[0].Level != types.AlertLevelEmergency {
		t.Fatalf("unexpected alert %+v", alerts[0])
	}

	// Exactly at the bound does not trigger (strict >).
	alerts = EvaluateForAlerts(cfg, assessmentWithScores(map[string]float64{"academic": 0.2}, 0.8))
	if len(alerts) != 0 {
		t.Fatalf("expected no emergency alert at exactly 0.8, got %+v", alerts)
	}
}

func TestRecommend_MediumThreshold(t *testing.T) {
	cfg := twoCategoryConfig()
	cfg.Strategies = map[string][]string{
		"academic": {"tutoring"},
		"dropout":  {"retention interview"},
	}

	recs := Recommend(cfg, assessmentWithScores(map[string]float64{"academic": 0.5, "dropout": 0.49}, 0.5))
	if len(recs) != 1 {
		t.Fatalf("expected one recommendation got %d", len(recs))
	}
	if recs[0].Category != "academic" {
		t.Fatalf("expected academic recommendation got %q", recs[0].Category)
	}
	if len(recs[0].Strategies) != 1 || recs[0].Strategies[0] != "tutoring" {
		t.Fatalf("strategies not passed through verbatim: %+v", recs[0].Strategies)
	}
}

func TestPredict_NotAuthoritative(t *testing.T) {
	cfg := twoCategoryConfig()
	a := assessmentWithScores(map[string]float64{"academic": 0.9}, 0.9)
	a.Confidence = 1

	p := Predict(cfg, a, 30, 0)
	if p.Authoritative {
		t.Fatalf("predictions must never be authoritative")
	}
	if p.ProjectedRisk >= p.CurrentRisk {
		t.Fatalf("high risk should drift toward the mean: projected %v current %v", p.ProjectedRisk, p.CurrentRisk)
	}
	if p.LowerBound > p.ProjectedRisk || p.UpperBound < p.ProjectedRisk {
		t.Fatalf("projection outside its own bounds: %+v", p)
	}
}
