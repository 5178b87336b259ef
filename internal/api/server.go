package api

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"github.com/saasradar/saasradar/internal/config"
	"github.com/saasradar/saasradar/internal/fetcher"
	"github.com/saasradar/saasradar/internal/storage"
	"github.com/saasradar/saasradar/internal/worker"
)

type Handler struct {
	Log     *zap.Logger
	Store   *storage.Store
	Manager *fetcher.Manager
	Worker  *worker.Worker
	Config  *config.Config
}

func NewRouter(h *Handler) *gin.Engine {
	if !h.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.HealthCheckHandler)

	apiGroup := r.Group("/api")
	apiGroup.Use(APIKeyMiddleware(h.Config.APIPasswordHash))
	{
		apiGroup.GET("/status", h.StatusHandler)
		apiGroup.GET("/stats", h.StatsHandler)
		apiGroup.GET("/ideas", h.ListIdeasHandler)
		apiGroup.GET("/ideas/export", h.ExportIdeasHandler)
		apiGroup.GET("/ideas/:id", h.GetIdeaHandler)
		apiGroup.POST("/ideas/:id/favorite", h.FavoriteHandler)
		apiGroup.PUT("/ideas/:id/note", h.NoteHandler)
		apiGroup.POST("/discover", h.DiscoverHandler)
	}

	return r
}
