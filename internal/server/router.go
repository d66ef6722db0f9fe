package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the job control API behind bearer-JWT auth.
func NewRouter(handler *SyncHandler, jwtSecret string) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", AuthRequired(jwtSecret))
	{
		api.POST("/sync/:type", handler.StartSync)
		api.GET("/jobs", handler.ListActiveJobs)
		api.DELETE("/jobs", handler.PurgeHistory)
		api.GET("/jobs/:id", handler.JobStatus)
		api.POST("/jobs/:id/cancel", handler.CancelJob)
	}

	return router
}
