package risk

import (
	"math"

	"github.com/bgeheroes/risk-backend/internal/riskconfig"
	"github.com/bgeheroes/risk-backend/internal/types"
)

// Prediction is a speculative projection of a student's risk trajectory.
// It is a fixed heuristic (regression toward the mean with a horizon-scaled
// uncertainty band), not a trained model, and is flagged as such.
type Prediction struct {
	StudentID      string  `json:"student_id"`
	HorizonDays    int     `json:"horizon_days"`
	CurrentRisk    float64 `json:"current_risk"`
	ProjectedRisk  float64 `json:"projected_risk"`
	ProjectedLevel string  `json:"projected_level"`
	LowerBound     float64 `json:"lower_bound"`
	UpperBound     float64 `json:"upper_bound"`
	Confidence     float64 `json:"confidence"`
	Authoritative  bool    `json:"authoritative"`
}

// Predict projects the overall risk forward. Scores drift toward the cohort
// mean (0.5) at a daily rate, and the uncertainty band widens with both the
// horizon and the sparseness of the source assessment.
func Predict(cfg *riskconfig.Config, a *types.RiskAssessment, horizonDays int, minConfidence float64) Prediction {
	if horizonDays <= 0 {
		horizonDays = 30
	}
	const meanRisk = 0.5
	const dailyDrift = 0.004

	drift := math.Min(1, dailyDrift*float64(horizonDays))
	projected := a.OverallRisk + (meanRisk-a.OverallRisk)*drift

	band := 0.05 + 0.002*float64(horizonDays) + 0.1*(1-a.Confidence)
	conf := clamp01(a.Confidence * (1 - drift))
	if conf < minConfidence {
		conf = 0
	}

	return Prediction{
		StudentID:      a.StudentID,
		HorizonDays:    horizonDays,
		CurrentRisk:    a.OverallRisk,
		ProjectedRisk:  clamp01(projected),
		ProjectedLevel: string(cfg.Overall.Level(clamp01(projected))),
		LowerBound:     clamp01(projected - band),
		UpperBound:     clamp01(projected + band),
		Confidence:     conf,
		Authoritative:  false,
	}
}
