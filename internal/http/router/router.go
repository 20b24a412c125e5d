package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/rollcall/internal/http/handler"
	"basegraph.app/rollcall/internal/http/middleware"
)

type RouterConfig struct {
	AdminAPIKey string
}

// Handlers are the endpoints the server mounts. CommandRuns is nil when the
// server runs without a database.
type Handlers struct {
	Interactions *handler.InteractionHandler
	CommandRuns  *handler.CommandRunHandler
}

func SetupRoutes(router *gin.Engine, h Handlers, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	InteractionRouter(router, h.Interactions)

	if h.CommandRuns != nil {
		admin := router.Group("/admin")
		admin.Use(middleware.RequireAdminAPIKey(cfg.AdminAPIKey))
		CommandRunRouter(admin, h.CommandRuns)
	}
}

func InteractionRouter(router gin.IRoutes, h *handler.InteractionHandler) {
	router.POST("/interactions", h.Handle)
}

func CommandRunRouter(rg *gin.RouterGroup, h *handler.CommandRunHandler) {
	rg.GET("/runs/:id", h.Get)
	rg.GET("/guilds/:guild_id/runs", h.ListByGuild)
}
