package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршрут Health-check доступен без ключа
	api.GET("/system/health", h.healthCheck)

	protected := api.Group("",
		APIKeyAuthMiddleware(h.cfg, h.logger),
		IdentityMiddleware(h.logger),
		RateLimitMiddleware(h.cfg, h.logger),
	)

	// Маршруты для управления инцидентами
	incidents := protected.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PATCH("/:id", h.updateIncident)
		incidents.POST("/:id/vote", h.voteIncident)
		incidents.PATCH("/:id/status", h.setStatus)
		incidents.POST("/:id/escalate", h.escalateIncident)
	}

	// Аналитика доступна только операторам
	analytics := protected.Group("/analytics", OperatorOnlyMiddleware(h.logger))
	{
		analytics.GET("/hotspots", h.getHotspots)
		analytics.POST("/predict", h.predict)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.POST("/subscribe", h.subscribe)
		notifications.POST("/unsubscribe", h.unsubscribe)
		notifications.GET("/subscriptions/:userId", h.listSubscriptions)
	}

	protected.GET("/users/:id/rewards", h.getRewards)
	protected.GET("/leaderboards/top-reporters", h.topReporters)
	protected.GET("/activity", h.listActivity)
}
