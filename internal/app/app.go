// Package app wires config into a running engine: seat store, transport and
// controller. Both the headless client and the terminal board use it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ludo_client/internal/audio"
	"ludo_client/internal/board"
	"ludo_client/internal/config"
	"ludo_client/internal/controller"
	"ludo_client/internal/db"
	"ludo_client/internal/game"
	"ludo_client/internal/http/handlers"
	"ludo_client/internal/logger"
	"ludo_client/internal/migrations"
	"ludo_client/internal/overlay"
	"ludo_client/internal/repository"
	"ludo_client/internal/sched"
	"ludo_client/internal/session"
	"ludo_client/internal/ws"

	redis "github.com/redis/go-redis/v9"
)

// Seats is an opened seat store plus what it needs to be closed and probed.
type Seats struct {
	Store  session.Store
	Redis  *redis.Client
	Checks map[string]handlers.Check
	close  []func()
}

func (s *Seats) Close() {
	for i := len(s.close) - 1; i >= 0; i-- {
		s.close[i]()
	}
}

// OpenSeats opens the configured seat store backend.
func OpenSeats(cfg *config.Config) (*Seats, error) {
	s := &Seats{Checks: map[string]handlers.Check{}}
	switch cfg.SessionBackend {
	case "redis":
		rdb, err := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		store := session.NewRedisStore(rdb, cfg.SessionTTL)
		s.Store = store
		s.Redis = rdb
		s.Checks["redis"] = handlers.Soft(store.Ping)
		s.close = append(s.close, func() { _ = rdb.Close() })

	case "postgres":
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store := session.NewPostgresStore(repository.NewSeatRepository(pool), cfg.SessionTTL)
		s.Store = store
		s.Checks["database"] = handlers.Soft(store.Ping)
		s.close = append(s.close, pool.Close)

	case "memory", "":
		s.Store = session.NewMemoryStore(cfg.SessionTTL)

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
	return s, nil
}

// Engine is one connected game view.
type Engine struct {
	Loop       *sched.Loop
	Transport  *ws.Client
	Controller *controller.Controller
	Projector  *board.Projector
	Cues       *audio.Recorder
}

type Hooks struct {
	Navigator controller.Navigator
	Alerter   controller.Alerter
}

func NewEngine(cfg *config.Config, store session.Store, hooks Hooks) *Engine {
	loop := sched.NewLoop(0)
	projector := board.NewProjector(cfg.BoardColorOffset)
	cues := audio.NewRecorder(audio.LogPlayer{Log: logger.Component("audio")})

	tr := ws.NewClient(ws.Options{
		URL:               cfg.ServerURL,
		ReconnectAttempts: cfg.ReconnectAttempts,
		ReconnectDelay:    cfg.ReconnectDelay,
		EmitRate:          cfg.EmitRate,
		EmitBurst:         cfg.EmitBurst,
	})

	if hooks.Navigator == nil {
		hooks.Navigator = LogNavigator{Log: logger.Component("nav")}
	}
	if hooks.Alerter == nil {
		hooks.Alerter = LogNavigator{Log: logger.Component("nav")}
	}

	ctrl := controller.New(tr, controller.Options{
		RoomID:     cfg.RoomID,
		RouteName:  cfg.PlayerName,
		Store:      store,
		Loop:       loop,
		Projector:  projector,
		Evaluator:  game.NewEvaluator(cfg.ExitValues...),
		Audio:      cues,
		Navigator:  hooks.Navigator,
		Alerter:    hooks.Alerter,
		TurnBudget: cfg.TurnBudget,
		TimeUnit:   cfg.TimeUnit,
		TTLs: overlay.TTLs{
			overlay.KindKill:      cfg.KillTTL,
			overlay.KindPowerUp:   cfg.PowerUpTTL,
			overlay.KindExplosion: cfg.ExplosionTTL,
			overlay.KindShake:     cfg.ShakeDuration,
		},
	})

	return &Engine{
		Loop:       loop,
		Transport:  tr,
		Controller: ctrl,
		Projector:  projector,
		Cues:       cues,
	}
}

// Run starts the loop and the transport and blocks until ctx ends or the
// transport gives up.
func (e *Engine) Run(ctx context.Context) error {
	go e.Loop.Run(ctx)
	e.Controller.Start()

	err := e.Transport.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, ws.ErrClosed) {
		return nil
	}
	return err
}

// Stop tears the engine down: subscriptions, timers, socket, loop.
func (e *Engine) Stop() {
	e.Controller.Close()
	e.Transport.Close()
	e.Loop.Stop()
}

// TransportCheck reports the socket state for readiness probes.
func (e *Engine) TransportCheck(context.Context) error {
	if !e.Transport.Connected() {
		return ws.ErrNotConnected
	}
	return nil
}

// LogNavigator logs redirects and alerts; headless clients have nowhere to go.
type LogNavigator struct {
	Log *slog.Logger
}

func (n LogNavigator) Redirect(reason string) {
	n.Log.Error("redirect to entry flow", "reason", reason)
}

func (n LogNavigator) Alert(msg string) {
	n.Log.Warn("alert", "message", msg)
}
