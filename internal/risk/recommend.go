package risk

import (
	"github.com/bgeheroes/risk-backend/internal/riskconfig"
	"github.com/bgeheroes/risk-backend/internal/types"
)

// Recommendation pairs a triggered category with its strategy catalog.
type Recommendation struct {
	Category   string   `json:"category"`
	Level      string   `json:"level"`
	Strategies []string `json:"strategies"`
}

// Recommend proposes intervention strategies for every category scoring at or
// above its medium threshold. Pure lookup; nothing is persisted — creating an
// actual intervention record is a separate, explicit operation.
func Recommend(cfg *riskconfig.Config, a *types.RiskAssessment) []Recommendation {
	scores := a.Scores()
	out := make([]Recommendation, 0, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		score, ok := scores[string(cat.Key)]
		if !ok || score < cat.Thresholds.Medium {
			continue
		}
		out = append(out, Recommendation{
			Category:   string(cat.Key),
			Level:      string(cat.Thresholds.Level(score)),
			Strategies: cfg.StrategiesFor(cat.Key),
		})
	}
	return out
}
