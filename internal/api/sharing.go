package api

import (
	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"github.com/vladimiradmaev/vitals-tracker/internal/interfaces"
	"github.com/vladimiradmaev/vitals-tracker/internal/realtime"
)

type SharingHandler struct {
	sharing interfaces.SharingServiceInterface
	hub     *realtime.Hub
}

func NewSharingHandler(sharing interfaces.SharingServiceInterface, hub *realtime.Hub) *SharingHandler {
	return &SharingHandler{sharing: sharing, hub: hub}
}

type createSessionRequest struct {
	PatientName string `json:"patientName" binding:"required"`
	DoctorEmail string `json:"doctorEmail" binding:"omitempty,email"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
	ShareURL  string `json:"shareUrl"`
}

// Create handles POST /api/sharing/create.
func (h *SharingHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("patientName is required and doctorEmail must be a valid address").
			WithContext("cause", err.Error()))
		return
	}

	session, shareURL, err := h.sharing.Create(c.Request.Context(), req.PatientName, req.DoctorEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, createSessionResponse{SessionID: session.ID, ShareURL: shareURL})
}

// Get handles GET /api/sharing/:sessionId.
func (h *SharingHandler) Get(c *gin.Context) {
	session, err := h.sharing.Get(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, session)
}

// SharedVitals handles GET /api/vitals/shared/:sessionId?days=N.
func (h *SharingHandler) SharedVitals(c *gin.Context) {
	days, err := queryDays(c)
	if err != nil {
		respondError(c, err)
		return
	}
	shared, err := h.sharing.SharedVitals(c.Request.Context(), c.Param("sessionId"), days)
	if err != nil {
		respondError(c, err)
		return
	}
	if shared.Vitals == nil {
		shared.Vitals = []domain.ReadingWithAlerts{}
	}
	respondOK(c, shared)
}

// Events handles GET /api/sharing/:sessionId/events. Viewers that miss events
// while disconnected resync by refetching the shared vitals.
func (h *SharingHandler) Events(c *gin.Context) {
	session, err := h.sharing.Get(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}

	sub := h.hub.Subscribe(session.ID)
	defer h.hub.Unsubscribe(sub)
	h.hub.ServeSSE(c.Writer, c.Request, sub)
}
