package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/internal/service/game"
	"github.com/iamasit07/connect-four/pkg/auth"
)

// GameStore reads finished games back from persistent storage.
type GameStore interface {
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
	ListGames(ctx context.Context, limit, offset int) ([]domain.GameRecord, error)
}

type GameHandler struct {
	SessionManager *game.SessionManager
	Tokens         *auth.TokenIssuer
	Notifier       game.Notifier
	Store          GameStore // nil without a database
	Defaults       bot.Config
	MaxLookahead   int
	Height, Width  int
}

type createGameRequest struct {
	Checker   string `json:"checker"`
	Lookahead *int   `json:"lookahead"`
	Algorithm string `json:"algorithm"`
	TieBreak  string `json:"tiebreak"`
}

type createGameResponse struct {
	GameID      string  `json:"gameId"`
	Token       string  `json:"token"`
	YourChecker int     `json:"yourChecker"`
	Board       [][]int `json:"board"`
}

// CreateGame starts a game against the AI and hands back the token the
// websocket expects in its init message.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	// an empty body means defaults
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	human := domain.X
	if req.Checker != "" {
		var err error
		if human, err = domain.ParseChecker(req.Checker); err != nil {
			respondError(c, err)
			return
		}
	}
	cfg, err := botConfig(h.Defaults, req.Lookahead, req.Algorithm, req.TieBreak)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.MaxLookahead > 0 && cfg.Lookahead > h.MaxLookahead {
		cfg.Lookahead = h.MaxLookahead
	}

	gs, err := h.SessionManager.CreateSession(game.SessionOptions{
		Height:       h.Height,
		Width:        h.Width,
		HumanChecker: human,
		Bot:          cfg,
	}, h.Notifier)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.Tokens.GenerateGameToken(gs.GameID, human)
	if err != nil {
		respondError(c, err)
		return
	}

	snap := gs.Snapshot()
	c.JSON(http.StatusCreated, createGameResponse{
		GameID:      gs.GameID,
		Token:       token,
		YourChecker: int(human),
		Board:       snap.Board,
	})
}

// GetGame looks in memory, then the snapshot cache, then the database.
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID := c.Param("id")

	snap, err := h.SessionManager.LoadSnapshot(c.Request.Context(), gameID)
	if err == nil {
		c.JSON(http.StatusOK, snap)
		return
	}
	if !errors.Is(err, game.ErrSessionNotFound) {
		log.Warn().Err(err).Str("game", gameID).Msg("snapshot lookup failed")
	}

	if h.Store == nil {
		respondError(c, game.ErrSessionNotFound)
		return
	}
	rec, err := h.Store.GetGameByID(c.Request.Context(), gameID)
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
