package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saasradar/saasradar/internal/exports"
	"github.com/saasradar/saasradar/internal/stats"
	"github.com/saasradar/saasradar/internal/storage"
)

const exportLimit = 10000

func (h *Handler) ExportIdeasHandler(c *gin.Context) {
	ideas, err := h.Store.ListIdeas(c.Request.Context(), storage.ListFilter{Limit: exportLimit})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("ideas_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "text/csv")

	if err := exports.WriteIdeasCSV(c.Writer, ideas); err != nil {
		h.Log.Error("csv export failed", zap.Error(err))
	}
}

func (h *Handler) StatsHandler(c *gin.Context) {
	ideas, err := h.Store.ListIdeas(c.Request.Context(), storage.ListFilter{Limit: exportLimit})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats.Summarize(ideas))
}
