package http

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect-four/internal/service/game"
)

type WatchHandler struct {
	SessionManager *game.SessionManager
}

func NewWatchHandler(sm *game.SessionManager) *WatchHandler {
	return &WatchHandler{SessionManager: sm}
}

// GetLiveGames returns every game still in progress, oldest first.
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	games := h.SessionManager.ActiveGames()
	sort.Slice(games, func(i, j int) bool {
		return games[i].StartedAt.Before(games[j].StartedAt)
	})
	c.JSON(http.StatusOK, games)
}

func (h *WatchHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"activeGames": len(h.SessionManager.ActiveGames()),
	})
}
