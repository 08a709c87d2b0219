package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"ludo_client/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerURL  string
	RoomID     string
	PlayerName string

	// local view API
	ViewPort      string
	AllowedOrigin string
	ViewJWTSecret string
	ActionRate    float64

	// seat store
	SessionBackend string // memory | redis | postgres
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	DatabaseURL    string

	// engine
	TurnBudget       int
	TimeUnit         time.Duration
	KillTTL          time.Duration
	PowerUpTTL       time.Duration
	ExplosionTTL     time.Duration
	ShakeDuration    time.Duration
	ExitValues       []int
	BoardColorOffset float64

	// transport
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	EmitRate          float64
	EmitBurst         int

	LogLevel string
	LogJSON  bool
}

// Load reads .env (if present) and the environment
func Load() *Config {
	_ = godotenv.Load()

	serverURL := os.Getenv("SERVER_URL")
	if serverURL == "" {
		logger.Fatal("SERVER_URL is not set")
	}

	backend := strings.ToLower(envString("SESSION_BACKEND", "memory"))
	switch backend {
	case "memory", "redis", "postgres":
	default:
		logger.Fatal("unknown SESSION_BACKEND", "backend", backend)
	}

	cfg := &Config{
		ServerURL:  serverURL,
		RoomID:     strings.ToUpper(strings.TrimSpace(os.Getenv("ROOM_ID"))),
		PlayerName: strings.TrimSpace(os.Getenv("PLAYER_NAME")),

		ViewPort:      envString("VIEW_PORT", "8090"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		ViewJWTSecret: os.Getenv("VIEW_JWT_SECRET"),
		ActionRate:    envFloat("ACTION_RATE", 5),

		SessionBackend: backend,
		SessionTTL:     time.Duration(envInt("SESSION_TTL_SECONDS", 86400)) * time.Second,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		TurnBudget:       envInt("TURN_BUDGET", 15),
		TimeUnit:         envMillis("TIME_UNIT_MS", 1000),
		KillTTL:          envMillis("KILL_TTL_MS", 3500),
		PowerUpTTL:       envMillis("POWERUP_TTL_MS", 3000),
		ExplosionTTL:     envMillis("EXPLOSION_TTL_MS", 3000),
		ShakeDuration:    envMillis("SHAKE_MS", 600),
		ExitValues:       parseInts(envString("EXIT_VALUES", "6")),
		BoardColorOffset: envFloat("BOARD_COLOR_OFFSET", 0),

		ReconnectAttempts: envInt("RECONNECT_ATTEMPTS", 10),
		ReconnectDelay:    envMillis("RECONNECT_DELAY_MS", 1000),
		EmitRate:          envFloat("EMIT_RATE", 5),
		EmitBurst:         envInt("EMIT_BURST", 10),

		LogLevel: envString("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",
	}

	if backend == "redis" && cfg.RedisAddr == "" {
		logger.Fatal("REDIS_ADDR is not set for redis session backend")
	}
	if backend == "postgres" && cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is not set for postgres session backend")
	}
	if len(cfg.ExitValues) == 0 {
		cfg.ExitValues = []int{6}
	}

	return cfg
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// positive ints only, anything else falls back to def
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return def
}

func envMillis(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Millisecond
}

// "6,1" -> [6 1]; values outside 1..6 are dropped
func parseInts(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if n, err := strconv.Atoi(part); err == nil && n >= 1 && n <= 6 {
			out = append(out, n)
		}
	}
	return out
}
