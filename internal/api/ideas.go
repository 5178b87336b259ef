package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saasradar/saasradar/internal/storage"
)

func (h *Handler) ListIdeasHandler(c *gin.Context) {
	filter := storage.ListFilter{
		MinScore:      queryInt(c, "min_score"),
		MinRevenue:    queryFloat(c, "min_revenue"),
		Category:      c.Query("category"),
		FavoritesOnly: c.Query("favorites") == "true",
		Limit:         queryInt(c, "limit"),
		Offset:        queryInt(c, "offset"),
	}

	ideas, err := h.Store.ListIdeas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]ideaResponse, 0, len(ideas))
	for _, idea := range ideas {
		resp = append(resp, toIdeaResponse(idea))
	}
	c.JSON(http.StatusOK, gin.H{"ideas": resp, "count": len(resp)})
}

func (h *Handler) GetIdeaHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	idea, err := h.Store.GetIdea(c.Request.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toIdeaResponse(idea))
}

func (h *Handler) FavoriteHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	favorite, err := h.Store.SetFavorite(c.Request.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id.String(), "favorite": favorite})
}

func (h *Handler) NoteHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	var body struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.Store.SetNote(c.Request.Context(), id, body.Note); err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id.String(), "note": body.Note})
}

func (h *Handler) DiscoverHandler(c *gin.Context) {
	if h.Worker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "worker not running"})
		return
	}

	go h.Worker.DiscoverAll()
	c.JSON(http.StatusAccepted, gin.H{"status": "discovery started"})
}

func queryInt(c *gin.Context, key string) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func queryFloat(c *gin.Context, key string) float64 {
	if v := c.Query(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}
