package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/connect-four/internal/config"
	"github.com/iamasit07/connect-four/internal/repository/postgres"
	"github.com/iamasit07/connect-four/internal/repository/redis"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/internal/service/cleanup"
	"github.com/iamasit07/connect-four/internal/service/game"
	transportHttp "github.com/iamasit07/connect-four/internal/transport/http"
	"github.com/iamasit07/connect-four/internal/transport/websocket"
	"github.com/iamasit07/connect-four/pkg/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Debug().Msg("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	config.SetupLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence is optional: without DATABASE_URL games are not archived
	var (
		db       *sql.DB
		gameRepo *postgres.GameRepo
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		log.Info().Msg("Running database migrations...")
		if err := postgres.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
		gameRepo = postgres.NewGameRepo(db)
	} else {
		log.Warn().Msg("DATABASE_URL not set, finished games will not be stored")
	}

	var cache game.SnapshotCache
	if client := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword); client != nil {
		rc := redis.NewRedisCache(client)
		defer rc.Close()
		cache = rc
	}

	// typed nils must not leak into the interfaces
	var (
		repo   game.GameRepository
		store  transportHttp.GameStore
		pruner cleanup.GamePruner
	)
	if gameRepo != nil {
		repo, store, pruner = gameRepo, gameRepo, gameRepo
	}

	defaults := bot.Config{Algorithm: bot.AlgoAlphaBeta, Lookahead: cfg.DefaultLookahead, TieBreak: bot.Random}
	sessionManager := game.NewSessionManager(repo, cache, cfg.BotMoveDelay)
	gameService := game.NewService(cfg.MaxLookahead, cfg.MaxBoardHeight, cfg.MaxBoardWidth)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.GameTokenTTL)
	connManager := websocket.NewConnectionManager()
	wsHandler := websocket.NewHandler(connManager, sessionManager, tokens, cfg.AllowedOrigins)

	router := transportHttp.NewRouter(transportHttp.Handlers{
		Engine: transportHttp.NewEngineHandler(gameService, defaults),
		Games: &transportHttp.GameHandler{
			SessionManager: sessionManager,
			Tokens:         tokens,
			Notifier:       connManager,
			Store:          store,
			Defaults:       defaults,
			MaxLookahead:   cfg.MaxLookahead,
			Height:         cfg.BoardHeight,
			Width:          cfg.BoardWidth,
		},
		History:   transportHttp.NewHistoryHandler(store),
		Watch:     transportHttp.NewWatchHandler(sessionManager),
		WebSocket: wsHandler.HandleWebSocket,
	}, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cleanup.NewWorker(sessionManager, pruner).Run(gctx)
	})
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}
	// let in-flight saves of finished games land before the pool closes
	sessionManager.Close()
	log.Info().Msg("Server exited gracefully")
}
