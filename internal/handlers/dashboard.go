package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bgeheroes/risk-backend/internal/services"
)

type DashboardHandler struct {
	svc services.DashboardService
}

func NewDashboardHandler(svc services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GET /api/risk/dashboard?timeframe=7d
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	data, err := h.svc.Dashboard(c.Request.Context(), c.Query("timeframe"))
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondData(c, data)
}

// GET /api/risk/student/:studentId/profile
func (h *DashboardHandler) StudentProfile(c *gin.Context) {
	profile, err := h.svc.StudentProfile(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondData(c, profile)
}
