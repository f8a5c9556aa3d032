package http

import (
	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect-four/internal/transport/http/middleware"
)

type Handlers struct {
	Engine    *EngineHandler
	Games     *GameHandler
	History   *HistoryHandler
	Watch     *WatchHandler
	WebSocket gin.HandlerFunc
}

func NewRouter(h Handlers, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware(allowedOrigins))

	router.GET("/health", h.Watch.Health)

	api := router.Group("/api")
	{
		api.POST("/move", h.Engine.SuggestMove)
		api.POST("/games", h.Games.CreateGame)
		api.GET("/games/:id", h.Games.GetGame)
		api.GET("/history", h.History.GetHistory)
		api.GET("/history/:id", h.History.GetGameDetails)
		api.GET("/watch", h.Watch.GetLiveGames)
	}

	// auth happens inside the websocket handler through the init message
	if h.WebSocket != nil {
		router.GET("/ws", h.WebSocket)
	}
	return router
}
