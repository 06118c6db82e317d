package api

import (
	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/vitals-tracker/internal/interfaces"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
	"github.com/vladimiradmaev/vitals-tracker/internal/realtime"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	Vitals      interfaces.VitalsServiceInterface
	Sharing     interfaces.SharingServiceInterface
	Insights    interfaces.InsightServiceInterface
	Hub         *realtime.Hub
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger.Component("http")))
	router.Use(CORS(cfg.CORSOrigins))

	vitals := NewVitalsHandler(cfg.Vitals)
	sharing := NewSharingHandler(cfg.Sharing, cfg.Hub)
	insights := NewInsightsHandler(cfg.Insights)

	router.GET("/health", Health)

	api := router.Group("/api")
	{
		api.POST("/vitals", vitals.Record)
		api.GET("/vitals", vitals.List)
		api.GET("/vitals/trends", vitals.Trends)
		api.GET("/vitals/shared/:sessionId", sharing.SharedVitals)

		api.POST("/sharing/create", sharing.Create)
		api.GET("/sharing/:sessionId", sharing.Get)
		api.GET("/sharing/:sessionId/events", sharing.Events)

		api.GET("/insights", insights.Summary)
		api.GET("/insights/:sessionId", insights.SessionSummary)
	}
	return router
}
