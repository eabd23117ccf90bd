package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/risk"
	"github.com/bgeheroes/risk-backend/internal/services"
)

type RiskHandler struct {
	log *logger.Logger
	svc services.RiskService
}

func NewRiskHandler(log *logger.Logger, svc services.RiskService) *RiskHandler {
	return &RiskHandler{log: log.With("handler", "RiskHandler"), svc: svc}
}

type analyzeRequest struct {
	StudentID       string             `json:"studentId"`
	Data            map[string]float64 `json:"data"`
	ForceReanalysis bool               `json:"forceReanalysis"`
}

// POST /api/risk/analyze
func (h *RiskHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, "invalid request body")
		return
	}
	res, err := h.svc.Analyze(c.Request.Context(), req.StudentID, risk.FactorInput(req.Data), req.ForceReanalysis)
	if err != nil {
		h.log.Warn("Analyze failed", "student_id", req.StudentID, "error", err)
		RespondErr(c, err)
		return
	}
	RespondData(c, res)
}

type analyzeBatchRequest struct {
	StudentIDs []string           `json:"studentIds"`
	Criteria   map[string]float64 `json:"criteria"`
}

// POST /api/risk/analyze-batch
func (h *RiskHandler) AnalyzeBatch(c *gin.Context) {
	var req analyzeBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, "invalid request body")
		return
	}
	res, err := h.svc.AnalyzeBatch(c.Request.Context(), req.StudentIDs, risk.FactorInput(req.Criteria))
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondData(c, res)
}

type predictRequest struct {
	StudentIDs  []string           `json:"studentIds"`
	Criteria    map[string]float64 `json:"criteria"`
	TimeHorizon int                `json:"timeHorizon"`
	Confidence  float64            `json:"confidence"`
}

// POST /api/risk/predict
func (h *RiskHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, "invalid request body")
		return
	}
	predictions, err := h.svc.Predict(c.Request.Context(), req.StudentIDs, risk.FactorInput(req.Criteria), req.TimeHorizon, req.Confidence)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondData(c, gin.H{
		"predictions":   predictions,
		"authoritative": false,
	})
}
