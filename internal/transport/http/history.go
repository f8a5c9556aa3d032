package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect-four/internal/service/game"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryHandler struct {
	Store GameStore
}

func NewHistoryHandler(store GameStore) *HistoryHandler {
	return &HistoryHandler{Store: store}
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is not available"})
		return
	}

	limit := min(queryInt(c, "limit", defaultHistoryLimit), maxHistoryLimit)
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	offset := queryInt(c, "offset", 0)

	games, err := h.Store.ListGames(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is not available"})
		return
	}

	rec, err := h.Store.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if rec == nil {
		respondError(c, game.ErrSessionNotFound)
		return
	}
	c.JSON(http.StatusOK, rec)
}
