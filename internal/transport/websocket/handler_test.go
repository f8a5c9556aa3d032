package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/internal/service/game"
	"github.com/iamasit07/connect-four/pkg/auth"
)

type fixture struct {
	server *httptest.Server
	sm     *game.SessionManager
	cm     *ConnectionManager
	tokens *auth.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		sm:     game.NewSessionManager(nil, nil, 0),
		cm:     NewConnectionManager(),
		tokens: auth.NewTokenIssuer("test-secret", time.Hour),
	}
	h := NewHandler(f.cm, f.sm, f.tokens, nil)

	router := gin.New()
	router.GET("/ws", h.HandleWebSocket)
	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) domain.ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg domain.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestInitRejectsBadToken(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	if err := conn.WriteJSON(domain.ClientMessage{Type: MsgInit, Token: "garbage"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := read(t, conn)
	if msg.Type != game.MsgError {
		t.Fatalf("expected error message, got %q", msg.Type)
	}
}

func TestPlayOverWebSocket(t *testing.T) {
	f := newFixture(t)

	cfg := bot.Config{Algorithm: bot.AlgoAlphaBeta, Lookahead: 2, TieBreak: bot.Leftmost}
	gs, err := f.sm.CreateSession(game.SessionOptions{HumanChecker: domain.X, Bot: cfg}, f.cm)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	token, err := f.tokens.GenerateGameToken(gs.GameID, domain.X)
	if err != nil {
		t.Fatalf("GenerateGameToken: %v", err)
	}

	conn := f.dial(t)
	if err := conn.WriteJSON(domain.ClientMessage{Type: MsgInit, Token: token}); err != nil {
		t.Fatalf("write: %v", err)
	}
	start := read(t, conn)
	if start.Type != game.MsgGameStart || start.GameID != gs.GameID {
		t.Fatalf("unexpected first message %+v", start)
	}
	if start.YourChecker != int(domain.X) {
		t.Fatalf("expected to play X, got %d", start.YourChecker)
	}

	if err := conn.WriteJSON(domain.ClientMessage{Type: MsgMakeMove, Column: 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	human := read(t, conn)
	if human.Type != game.MsgMoveMade || human.Column == nil || *human.Column != 3 || human.Player != int(domain.X) {
		t.Fatalf("unexpected human move message %+v", human)
	}
	reply := read(t, conn)
	if reply.Type != game.MsgMoveMade || reply.Player != int(domain.O) {
		t.Fatalf("expected the bot reply, got %+v", reply)
	}

	if err := conn.WriteJSON(domain.ClientMessage{Type: MsgMakeMove, Column: 42}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := read(t, conn); msg.Type != game.MsgError {
		t.Fatalf("expected error for an invalid column, got %+v", msg)
	}

	if err := conn.WriteJSON(domain.ClientMessage{Type: MsgAbandon}); err != nil {
		t.Fatalf("write: %v", err)
	}
	over := read(t, conn)
	if over.Type != game.MsgGameOver || over.Winner != "O" || over.Reason != game.ReasonSurrender {
		t.Fatalf("unexpected game over message %+v", over)
	}
}
