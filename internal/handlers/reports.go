package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bgeheroes/risk-backend/internal/services"
)

type ReportHandler struct {
	svc services.ReportService
}

func NewReportHandler(svc services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// GET /api/risk/reports/:type?format=json|csv&period=30d
func (h *ReportHandler) Generate(c *gin.Context) {
	out, err := h.svc.Generate(c.Request.Context(), c.Param("type"), c.Query("format"), c.Query("period"))
	if err != nil {
		RespondErr(c, err)
		return
	}
	if out.Format == services.ReportFormatCSV {
		c.Header("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", out.CSV)
		return
	}
	RespondData(c, gin.H{
		"type":         out.Type,
		"generated_at": out.GeneratedAt,
		"report":       out.JSON,
	})
}
