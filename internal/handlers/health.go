package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bgeheroes/risk-backend/internal/repos"
)

// HealthCheck is the bare liveness probe.
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// HealthHandler reports liveness plus store counts. It deliberately checks no
// external dependency: a degraded redis or slow postgres should not flip the
// liveness probe.
type HealthHandler struct {
	assessmentRepo   repos.AssessmentRepo
	alertRepo        repos.AlertRepo
	interventionRepo repos.InterventionRepo
	startedAt        time.Time
}

func NewHealthHandler(assessmentRepo repos.AssessmentRepo, alertRepo repos.AlertRepo, interventionRepo repos.InterventionRepo) *HealthHandler {
	return &HealthHandler{
		assessmentRepo:   assessmentRepo,
		alertRepo:        alertRepo,
		interventionRepo: interventionRepo,
		startedAt:        time.Now().UTC(),
	}
}

// GET /api/risk/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	assessments, _ := h.assessmentRepo.Count(ctx, nil)
	alerts, _ := h.alertRepo.Count(ctx, nil)
	interventions, _ := h.interventionRepo.CountByStatus(ctx, nil, "")
	RespondData(c, gin.H{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"counts": gin.H{
			"assessments":   assessments,
			"alerts":        alerts,
			"interventions": interventions,
		},
	})
}
