package http

import (
	"time"

	"ludo_client/internal/http/handlers"
	"ludo_client/internal/http/middleware"
	"ludo_client/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

type Options struct {
	RoomID        string
	Version       string
	AllowedOrigin string
	// Tokens nil leaves the view API open (local use).
	Tokens     *service.TokenService
	ActionRate float64
	// Redis, when set, adds a shared fixed-window limit on actions.
	Redis  *redis.Client
	Checks map[string]handlers.Check
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	healthHandler := handlers.NewHealthHandler(opts.Version, opts.Checks)

	r.Use(middleware.CORS(opts.AllowedOrigin))

	// Health checks (no auth, no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.ViewerAuth(opts.Tokens, opts.RoomID))

	api.GET("/view", h.View)
	api.GET("/view/stream", h.StreamView)
	api.GET("/cues", h.DrainCues)
	api.GET("/board/project", h.Project)

	actions := api.Group("")
	actions.Use(middleware.ActionRateLimit(opts.ActionRate, 5))
	if opts.Redis != nil {
		actions.Use(middleware.RedisRateLimit(opts.Redis, 120, time.Minute))
	}
	actions.POST("/roll", h.Roll)
	actions.POST("/move", h.Move)
	actions.POST("/surrender", h.Surrender)
	actions.POST("/rejoin", h.Rejoin)
	actions.POST("/alert/dismiss", h.DismissAlert)
}
