package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bgeheroes/risk-backend/internal/apierr"
)

// Success responses wrap the payload as {success:true, data:...}; failures
// as {success:false, error, details?}. Internal errors keep the detail
// server-side: the caller sees a generic message, the log gets the cause.
type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type ErrorEnvelope struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func RespondData(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, SuccessEnvelope{Success: true, Data: payload})
}

func RespondErr(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	msg := "internal error"
	if status != http.StatusInternalServerError && err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Success: false, Error: msg})
}

func RespondValidation(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{Success: false, Error: msg})
}
