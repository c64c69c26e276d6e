package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig wires the handlers into the router.
type RouterConfig struct {
	RequirementHandler *RequirementHandler
	AnalysisHandler    *AnalysisHandler
	AllowedOrigins     []string
}

// NewRouter builds the dashboard API router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/requirements", cfg.RequirementHandler.List)
		api.POST("/requirements", cfg.RequirementHandler.Create)
		api.PUT("/requirements/:id", cfg.RequirementHandler.Update)
		api.DELETE("/requirements/:id", cfg.RequirementHandler.Delete)
		api.POST("/requirements/import", cfg.RequirementHandler.ImportCSV)
		api.GET("/requirements/export", cfg.RequirementHandler.ExportCSV)
		api.GET("/requirements/snapshot", cfg.RequirementHandler.Snapshot)

		api.POST("/analysis/generate", cfg.AnalysisHandler.Generate)
		api.POST("/analysis/classify", cfg.AnalysisHandler.Classify)
	}

	return router
}

// HealthCheck reports process liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
