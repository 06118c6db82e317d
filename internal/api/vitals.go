package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"github.com/vladimiradmaev/vitals-tracker/internal/interfaces"
)

type VitalsHandler struct {
	vitals interfaces.VitalsServiceInterface
}

func NewVitalsHandler(vitals interfaces.VitalsServiceInterface) *VitalsHandler {
	return &VitalsHandler{vitals: vitals}
}

type recordResponse struct {
	ID      uint           `json:"id"`
	Message string         `json:"message"`
	Alerts  []domain.Alert `json:"alerts"`
}

// Record handles POST /api/vitals.
func (h *VitalsHandler) Record(c *gin.Context) {
	var in domain.NewReading
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body").WithContext("cause", err.Error()))
		return
	}

	reading, alerts, err := h.vitals.Record(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, recordResponse{
		ID:      reading.ID,
		Message: "Vitals recorded successfully",
		Alerts:  alerts,
	})
}

// List handles GET /api/vitals?days=N.
func (h *VitalsHandler) List(c *gin.Context) {
	days, err := queryDays(c)
	if err != nil {
		respondError(c, err)
		return
	}
	readings, err := h.vitals.List(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	if readings == nil {
		readings = []domain.Reading{}
	}
	respondOK(c, readings)
}

// Trends handles GET /api/vitals/trends?days=N.
func (h *VitalsHandler) Trends(c *gin.Context) {
	days, err := queryDays(c)
	if err != nil {
		respondError(c, err)
		return
	}
	averages, err := h.vitals.DailyTrends(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, averages)
}

// queryDays reads the optional days parameter; 0 means the service default.
func queryDays(c *gin.Context) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("days must be an integer").WithContext("days", raw)
	}
	return days, nil
}
