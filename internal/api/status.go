package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) StatusHandler(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.Store.CountIdeas(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	lastRun, lastStats, lastErr := h.Worker.LastRun()
	workerState := gin.H{
		"active":   h.Worker.IsActive(),
		"last_run": lastRun,
		"last":     lastStats,
	}
	if lastErr != nil {
		workerState["last_error"] = lastErr.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"acquisition": h.Manager.Status(ctx),
		"worker":      workerState,
		"ideas":       count,
	})
}
