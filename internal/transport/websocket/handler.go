package websocket

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/game"
	"github.com/iamasit07/connect-four/pkg/auth"
)

const (
	MsgInit      = "init"
	MsgMakeMove  = "make_move"
	MsgAbandon   = "abandon_game"
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Tokens         *auth.TokenIssuer
	Upgrader       websocket.Upgrader
}

// NewHandler accepts upgrades from allowedOrigins, or from anywhere when the list is empty.
func NewHandler(cm *ConnectionManager, sm *game.SessionManager, tokens *auth.TokenIssuer, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Tokens:         tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[WS] upgrade error")
		return
	}
	h.handleConnection(conn)
}

func writeError(conn *websocket.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteJSON(domain.ErrorMessage{Type: game.MsgError, Message: message})
}

func (h *Handler) handleConnection(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// the first message must carry the game token
	var first domain.ClientMessage
	if err := conn.ReadJSON(&first); err != nil {
		log.Debug().Err(err).Msg("[WS] read error during init")
		conn.Close()
		return
	}
	if first.Type != MsgInit || first.Token == "" {
		writeError(conn, "first message must be init with a token")
		conn.Close()
		return
	}
	claims, err := h.Tokens.ValidateGameToken(first.Token)
	if err != nil {
		writeError(conn, "invalid or expired token")
		conn.Close()
		return
	}
	gs, ok := h.SessionManager.GetSession(claims.GameID)
	if !ok {
		writeError(conn, "game not found")
		conn.Close()
		return
	}
	checker := domain.Checker(claims.Checker)

	h.ConnManager.AddConnection(gs.GameID, conn)
	defer h.ConnManager.RemoveConnectionIfMatching(gs.GameID, conn)
	log.Info().Str("game", gs.GameID).Str("checker", checker.String()).Msg("[WS] connection initialized")

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(gs.GameID, done)

	// bring the client up to date; the bot may already have moved
	snap := gs.Snapshot()
	h.ConnManager.SendMessage(gs.GameID, domain.ServerMessage{
		Type:        game.MsgGameStart,
		GameID:      gs.GameID,
		YourChecker: snap.HumanChecker,
		CurrentTurn: snap.CurrentPlayer,
		Board:       snap.Board,
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("game", gs.GameID).Msg("[WS] client disconnected unexpectedly")
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.ConnManager.SendMessage(gs.GameID, domain.ServerMessage{Type: game.MsgError, Message: "invalid message format"})
			continue
		}
		h.processMessage(gs, checker, msg)
	}
}

func (h *Handler) processMessage(gs *game.GameSession, checker domain.Checker, msg domain.ClientMessage) {
	var err error
	switch msg.Type {
	case MsgMakeMove:
		err = gs.HandleMove(checker, msg.Column, h.ConnManager)
	case MsgAbandon:
		err = gs.Abandon(h.ConnManager)
	default:
		err = domain.Error("unknown message type " + msg.Type)
	}
	if err != nil {
		h.ConnManager.SendMessage(gs.GameID, domain.ServerMessage{Type: game.MsgError, GameID: gs.GameID, Message: err.Error()})
	}
}

func (h *Handler) keepAlive(gameID string, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := h.ConnManager.ping(gameID); err != nil {
				return
			}
		}
	}
}
