// Package risk implements the scoring core: per-category factor aggregation,
// the weight-normalized overall score, alert synthesis and strategy
// recommendation. Everything here is deterministic and side-effect free;
// persistence and caching live in the service layer.
package risk

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/bgeheroes/risk-backend/internal/apierr"
	"github.com/bgeheroes/risk-backend/internal/riskconfig"
	"github.com/bgeheroes/risk-backend/internal/types"
)

// FactorInput maps factor names to observed values in [0,1].
type FactorInput map[string]float64

// ComputeAssessment scores one student against the configured categories.
//
// A category's score is the mean of the supplied factors that belong to it;
// a category with no matching input scores 0 ("no evidence of risk" — the
// confidence figure is how callers tell sparse data apart from genuine low
// risk). The overall score is the weighted mean of category scores with
// weights re-normalized by their sum.
func ComputeAssessment(cfg *riskconfig.Config, studentID string, factors FactorInput) (*types.RiskAssessment, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apierr.Validation("studentId is required")
	}
	for name, v := range factors {
		if v < 0 || v > 1 {
			return nil, apierr.Validation("factor %q value %v outside [0,1]", name, v)
		}
	}

	scores := make(map[string]float64, len(cfg.Categories))
	var weightedSum, weightSum float64
	for _, cat := range cfg.Categories {
		score := categoryScore(cat, factors)
		scores[string(cat.Key)] = score
		weightedSum += score * cat.Weight
		weightSum += cat.Weight
	}

	overall := 0.0
	if weightSum > 0 {
		overall = weightedSum / weightSum
	}

	known := cfg.FactorUnion()
	analyzed := countKnownFactors(known, factors)
	confidence := 0.0
	if len(known) > 0 {
		confidence = clamp01(float64(analyzed) / float64(len(known)))
	}

	return &types.RiskAssessment{
		ID:               uuid.New(),
		StudentID:        studentID,
		CategoryScores:   datatypes.NewJSONType(scores),
		OverallRisk:      overall,
		OverallRiskLevel: string(cfg.Overall.Level(overall)),
		Confidence:       confidence,
		FactorsAnalyzed:  analyzed,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

func categoryScore(cat riskconfig.Category, factors FactorInput) float64 {
	var sum float64
	var n int
	for _, name := range cat.Factors {
		if v, ok := factors[name]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func countKnownFactors(known []string, factors FactorInput) int {
	set := make(map[string]struct{}, len(known))
	for _, k := range known {
		set[k] = struct{}{}
	}
	n := 0
	for name := range factors {
		if _, ok := set[name]; ok {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
