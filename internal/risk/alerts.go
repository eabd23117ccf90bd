package risk

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bgeheroes/risk-backend/internal/riskconfig"
	"github.com/bgeheroes/risk-backend/internal/types"
)

// EvaluateForAlerts inspects a computed assessment and synthesizes alert
// records for every category at or above its high threshold, plus a single
// emergency alert when the overall score exceeds the configured bound.
// The result is what this evaluation produced, not the historical set;
// persistence and same-day deduplication are the alert service's job.
func EvaluateForAlerts(cfg *riskconfig.Config, a *types.RiskAssessment) []*types.RiskAlert {
	now := time.Now().UTC()
	var out []*types.RiskAlert

	scores := a.Scores()
	for _, cat := range cfg.Categories {
		score, ok := scores[string(cat.Key)]
		if !ok || score < cat.Thresholds.High {
			continue
		}
		level := types.AlertLevelWarning
		if score >= cat.Thresholds.Critical {
			level = types.AlertLevelCritical
		}
		out = append(out, &types.RiskAlert{
			ID:                 uuid.New(),
			StudentID:          a.StudentID,
			Type:               string(cat.Key),
			Level:              level,
			Message:            categoryAlertMessage(cat.Key, level, score),
			SourceAssessmentID: a.ID,
			CreatedAt:          now,
		})
	}

	if a.OverallRisk > cfg.EmergencyOverall {
		out = append(out, &types.RiskAlert{
			ID:                 uuid.New(),
			StudentID:          a.StudentID,
			Type:               types.AlertTypeOverall,
			Level:              types.AlertLevelEmergency,
			Message:            fmt.Sprintf("Riesgo global %.2f supera el umbral de emergencia; se requiere atención inmediata", a.OverallRisk),
			SourceAssessmentID: a.ID,
			CreatedAt:          now,
		})
	}
	return out
}

func categoryAlertMessage(key riskconfig.CategoryKey, level string, score float64) string {
	severity := "alto"
	if level == types.AlertLevelCritical {
		severity = "crítico"
	}
	return fmt.Sprintf("Riesgo %s en la dimensión %s (puntaje %.2f)", severity, key, score)
}
