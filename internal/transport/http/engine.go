package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/internal/service/game"
)

// EngineHandler answers one-off "what would the AI play here" questions.
type EngineHandler struct {
	Service  *game.Service
	Defaults bot.Config
}

func NewEngineHandler(svc *game.Service, defaults bot.Config) *EngineHandler {
	return &EngineHandler{Service: svc, Defaults: defaults}
}

type moveRequest struct {
	Board     [][]int `json:"board" binding:"required"`
	Checker   string  `json:"checker" binding:"required"`
	Lookahead *int    `json:"lookahead"`
	Algorithm string  `json:"algorithm"`
	TieBreak  string  `json:"tiebreak"`
}

type moveResponse struct {
	Column int   `json:"column"`
	Scores []int `json:"scores"`
	Nodes  int   `json:"nodes"`
}

// botConfig overlays the optional request fields on the handler defaults.
func botConfig(defaults bot.Config, lookahead *int, algorithm, tieBreak string) (bot.Config, error) {
	cfg := defaults
	if lookahead != nil {
		cfg.Lookahead = *lookahead
	}
	if algorithm != "" {
		algo, err := bot.ParseAlgorithm(algorithm)
		if err != nil {
			return cfg, err
		}
		cfg.Algorithm = algo
	}
	if tieBreak != "" {
		tb, err := bot.ParseTieBreak(tieBreak)
		if err != nil {
			return cfg, err
		}
		cfg.TieBreak = tb
	}
	return cfg, nil
}

func (h *EngineHandler) SuggestMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checker, err := domain.ParseChecker(req.Checker)
	if err != nil {
		respondError(c, err)
		return
	}
	cfg, err := botConfig(h.Defaults, req.Lookahead, req.Algorithm, req.TieBreak)
	if err != nil {
		respondError(c, err)
		return
	}

	advice, err := h.Service.Advise(game.AdviceRequest{Grid: req.Board, Checker: checker, Bot: cfg})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moveResponse{Column: advice.Column, Scores: advice.Scores, Nodes: advice.Nodes})
}
