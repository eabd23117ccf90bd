package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bgeheroes/risk-backend/internal/services"
)

type InterventionHandler struct {
	svc services.InterventionService
}

func NewInterventionHandler(svc services.InterventionService) *InterventionHandler {
	return &InterventionHandler{svc: svc}
}

type createInterventionRequest struct {
	StudentID   string   `json:"studentId"`
	Type        string   `json:"type"`
	Strategy    string   `json:"strategy"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	AssignedTo  []string `json:"assignedTo"`
	Timeline    string   `json:"timeline"`
}

// POST /api/risk/intervention
func (h *InterventionHandler) Create(c *gin.Context) {
	var req createInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, "invalid request body")
		return
	}
	row, err := h.svc.Create(c.Request.Context(), services.CreateInterventionInput{
		StudentID:   req.StudentID,
		Type:        req.Type,
		Strategy:    req.Strategy,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Timeline:    req.Timeline,
	})
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondData(c, row)
}

type updateInterventionRequest struct {
	Progress   *int     `json:"progress"`
	Status     *string  `json:"status"`
	Notes      *string  `json:"notes"`
	Author     string   `json:"author"`
	Milestones []string `json:"milestones"`
}

// PUT /api/risk/intervention/:id
func (h *InterventionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondValidation(c, "invalid intervention id")
		return
	}
	var req updateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, "invalid request body")
		return
	}
	row, err := h.svc.Update(c.Request.Context(), id, services.UpdateInterventionInput{
		Progress:   req.Progress,
		Status:     req.Status,
		Note:       req.Notes,
		NoteAuthor: req.Author,
		Milestones: req.Milestones,
	})
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondData(c, row)
}

// GET /api/risk/interventions?status=&studentId=
func (h *InterventionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if studentID := c.Query("studentId"); studentID != "" {
		rows, err := h.svc.ListByStudent(ctx, studentID)
		if err != nil {
			RespondErr(c, err)
			return
		}
		RespondData(c, rows)
		return
	}
	if status := c.Query("status"); status != "" {
		rows, err := h.svc.ListByStatus(ctx, status)
		if err != nil {
			RespondErr(c, err)
			return
		}
		RespondData(c, rows)
		return
	}
	rows, err := h.svc.ListAll(ctx)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondData(c, rows)
}
