package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ranker/internal/jobs"
	"resume-ranker/internal/ranking"
	"resume-ranker/internal/shared/config"
	"resume-ranker/internal/shared/metrics"
	"resume-ranker/internal/shared/server/middleware"
	"resume-ranker/internal/shared/server/respond"
	"resume-ranker/internal/uploads"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	JobsHandler    *jobs.Handler
	UploadsHandler *uploads.Handler
	RankingHandler *ranking.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.JobsHandler.RegisterRoutes(api)
	deps.UploadsHandler.RegisterRoutes(api)
	deps.RankingHandler.Register(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
