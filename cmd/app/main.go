package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ludo_client/internal/app"
	"ludo_client/internal/config"
	"ludo_client/internal/controller"
	httpServer "ludo_client/internal/http"
	"ludo_client/internal/http/handlers"
	"ludo_client/internal/logger"
	"ludo_client/internal/realtime"
	"ludo_client/internal/service"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Component("main")

	seats, err := app.OpenSeats(cfg)
	if err != nil {
		logger.Fatal("failed to open seat store", "backend", cfg.SessionBackend, "error", err)
	}
	defer seats.Close()

	engine := app.NewEngine(cfg, seats.Store, app.Hooks{})

	stream := realtime.NewBroadcaster()
	engine.Controller.OnChange(func(v controller.View) {
		b, err := json.Marshal(v)
		if err != nil {
			log.Error("failed to encode view", "error", err)
			return
		}
		stream.Publish(b)
	})

	var tokens *service.TokenService
	if cfg.ViewJWTSecret != "" {
		tokens, err = service.NewTokenService(cfg.ViewJWTSecret, cfg.SessionTTL)
		if err != nil {
			logger.Fatal("invalid view token config", "error", err)
		}
	}

	checks := map[string]handlers.Check{"transport": engine.TransportCheck}
	for name, check := range seats.Checks {
		checks[name] = check
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	h := handlers.NewHandler(engine.Controller, stream, engine.Cues, engine.Projector)
	httpServer.RegisterRoutes(r, h, httpServer.Options{
		RoomID:        cfg.RoomID,
		Version:       version,
		AllowedOrigin: cfg.AllowedOrigin,
		Tokens:        tokens,
		ActionRate:    cfg.ActionRate,
		Redis:         seats.Redis,
		Checks:        checks,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engineDone := make(chan error, 1)
	go func() { engineDone <- engine.Run(ctx) }()

	srv := &http.Server{
		Addr:    ":" + cfg.ViewPort,
		Handler: r,
	}

	go func() {
		log.Info("view server started", "port", cfg.ViewPort, "room", cfg.RoomID, "server", cfg.ServerURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutting down")
	case err := <-engineDone:
		if err != nil {
			log.Error("transport stopped", "error", err)
		}
	}

	cancel()
	engine.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
