package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/Faltri/imposter-word-game/assist"
	"github.com/Faltri/imposter-word-game/category"
	"github.com/Faltri/imposter-word-game/config"
	"github.com/Faltri/imposter-word-game/game"
	"github.com/Faltri/imposter-word-game/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CreateServer builds the engine with the origin guard and CORS. Routes registered by
// public are reachable without an allowed Origin header.
func CreateServer(allowedOrigins []string, public ...func(r gin.IRoutes)) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware())
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })
	for _, register := range public {
		register(r)
	}

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func RegisterGameRoutes(r gin.IRoutes, h *game.GameHandler) {
	r.GET("/categories", h.ListCategoriesHandler)
	r.POST("/sessions", h.CreateSessionHandler)
	r.GET("/sessions/:id", h.GetSessionHandler)
	r.DELETE("/sessions/:id", h.DeleteSessionHandler)
	r.POST("/sessions/:id/actions", h.ActionHandler)
	r.GET("/sessions/:id/ws", h.WebsocketHandler)
}

func main() {
	logger.Setup(false, true)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.Debug, cfg.LogPretty)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	store := category.Default()
	if cfg.CategoriesPath != "" {
		store, err = category.Load(cfg.CategoriesPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CategoriesPath).Msg("loading categories")
		}
	}

	var assistant game.Assistant = assist.Disabled{}
	if cfg.AIEnabled() {
		assistant = assist.New(assist.Config{
			APIKey:        cfg.GeminiAPIKey,
			Model:         cfg.GeminiModel,
			BaseURL:       cfg.GeminiBaseURL,
			RatePerSecond: cfg.AIRatePerSecond,
			Burst:         cfg.AIBurst,
		}, &http.Client{Timeout: cfg.AITimeout})
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, AI players use local clues only")
	}

	idGen := game.NewIdGen()
	tickerGen := game.NewTickerGen()
	wg := sync.WaitGroup{}
	lobby := game.NewLobby(&idGen, &tickerGen, &wg)

	lobbyStarted := make(chan struct{})
	go lobby.LobbyActor(lobbyStarted)
	<-lobbyStarted

	gameHandler := game.NewGameHandler(lobby, store, assistant, game.NewScheduler(), game.RoomConfigs{
		AITimeout:   cfg.AITimeout,
		IdleTimeout: cfg.SessionIdleTimeout,
	}, cfg.PublicURL)

	r := CreateServer(cfg.AllowedOrigins, func(pub gin.IRoutes) {
		// Loaded by <img>, which sends no Origin header.
		pub.GET("/sessions/:id/qr", gameHandler.QRHandler)
	})
	RegisterGameRoutes(r, gameHandler)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Int("categories", len(store.All())).Bool("ai", cfg.AIEnabled()).Msg("server started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	<-sigCh
	log.Info().Msg("SIGTERM or SIGINT received, closing sessions")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	lobby.Stop()
	wg.Wait()
	log.Info().Msg("shutting down now")
}
