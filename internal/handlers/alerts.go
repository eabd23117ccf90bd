package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bgeheroes/risk-backend/internal/services"
)

type AlertHandler struct {
	svc services.AlertService
}

func NewAlertHandler(svc services.AlertService) *AlertHandler {
	return &AlertHandler{svc: svc}
}

// GET /api/risk/alerts?level=&type=&studentId=&limit=
func (h *AlertHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			RespondValidation(c, "limit must be a positive integer")
			return
		}
		limit = n
	}
	alerts, summary, err := h.svc.Query(c.Request.Context(), services.AlertQuery{
		Level:     c.Query("level"),
		Type:      c.Query("type"),
		StudentID: c.Query("studentId"),
		Limit:     limit,
	})
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondData(c, gin.H{
		"alerts":  alerts,
		"summary": summary,
	})
}
