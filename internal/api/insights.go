package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	"github.com/vladimiradmaev/vitals-tracker/internal/interfaces"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

type InsightsHandler struct {
	insights interfaces.InsightServiceInterface
	log      *slog.Logger
}

func NewInsightsHandler(insights interfaces.InsightServiceInterface) *InsightsHandler {
	return &InsightsHandler{insights: insights, log: logger.Component("insights_handler")}
}

type insightsResponse struct {
	*domain.InsightSummary
	Narrative string `json:"narrative,omitempty"`
}

// Summary handles GET /api/insights?days=N&narrative=1.
func (h *InsightsHandler) Summary(c *gin.Context) {
	days, err := queryDays(c)
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.insights.Summarize(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, h.withNarrative(c, summary))
}

// SessionSummary handles GET /api/insights/:sessionId.
func (h *InsightsHandler) SessionSummary(c *gin.Context) {
	days, err := queryDays(c)
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.insights.SummarizeForSession(c.Request.Context(), c.Param("sessionId"), days)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, h.withNarrative(c, summary))
}

// withNarrative adds the generated narrative when requested. A narrator
// failure leaves the summary without one.
func (h *InsightsHandler) withNarrative(c *gin.Context, summary *domain.InsightSummary) insightsResponse {
	resp := insightsResponse{InsightSummary: summary}
	switch c.Query("narrative") {
	case "1", "true":
	default:
		return resp
	}

	text, err := h.insights.Narrate(c.Request.Context(), summary)
	if err != nil {
		h.log.Warn("Narrative generation failed", "error", err)
		return resp
	}
	resp.Narrative = text
	return resp
}
