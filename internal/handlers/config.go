package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bgeheroes/risk-backend/internal/riskconfig"
)

type ConfigHandler struct {
	cfg *riskconfig.Config
}

func NewConfigHandler(cfg *riskconfig.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// GET /api/risk/config — the static category/strategy configuration dump.
func (h *ConfigHandler) Get(c *gin.Context) {
	RespondData(c, gin.H{
		"categories":         h.cfg.Categories,
		"overall_thresholds": h.cfg.Overall,
		"strategies":         h.cfg.Strategies,
		"emergency_overall":  h.cfg.EmergencyOverall,
	})
}
