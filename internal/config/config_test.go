package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_URL", "ws://127.0.0.1:3001/ws")
	t.Setenv("ROOM_ID", " ab12c ")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("EXIT_VALUES", "")

	cfg := Load()
	if cfg.RoomID != "AB12C" {
		t.Fatalf("room = %q", cfg.RoomID)
	}
	if cfg.TurnBudget != 15 || cfg.TimeUnit != time.Second {
		t.Fatalf("turn defaults = %d %v", cfg.TurnBudget, cfg.TimeUnit)
	}
	if cfg.KillTTL != 3500*time.Millisecond || cfg.ShakeDuration != 600*time.Millisecond {
		t.Fatalf("overlay defaults = %v %v", cfg.KillTTL, cfg.ShakeDuration)
	}
	if !reflect.DeepEqual(cfg.ExitValues, []int{6}) {
		t.Fatalf("exit values = %v", cfg.ExitValues)
	}
	if cfg.SessionBackend != "memory" || cfg.ReconnectAttempts != 10 || cfg.ReconnectDelay != time.Second {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_URL", "ws://example/ws")
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("EXIT_VALUES", "6, 1, 9, x")
	t.Setenv("TURN_BUDGET", "20")
	t.Setenv("TIME_UNIT_MS", "250")
	t.Setenv("BOARD_COLOR_OFFSET", "1.25")
	t.Setenv("REDIS_DB", "-3")

	cfg := Load()
	if !reflect.DeepEqual(cfg.ExitValues, []int{6, 1}) {
		t.Fatalf("exit values = %v", cfg.ExitValues)
	}
	if cfg.TurnBudget != 20 || cfg.TimeUnit != 250*time.Millisecond {
		t.Fatalf("turn = %d %v", cfg.TurnBudget, cfg.TimeUnit)
	}
	if cfg.BoardColorOffset != 1.25 {
		t.Fatalf("offset = %v", cfg.BoardColorOffset)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("negative redis db should fall back, got %d", cfg.RedisDB)
	}
}
