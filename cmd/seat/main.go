// Command seat inspects or edits the remembered seat for a room, and can mint
// a token for the local view API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"ludo_client/internal/app"
	"ludo_client/internal/config"
	"ludo_client/internal/service"
	"ludo_client/internal/session"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	backend := flag.String("backend", envOr("SESSION_BACKEND", "redis"), "seat store: redis | postgres")
	room := flag.String("room", os.Getenv("ROOM_ID"), "room id")
	name := flag.String("name", "", "save this name for the room")
	forget := flag.Bool("forget", false, "forget the seat")
	token := flag.Bool("token", false, "print a view token for the seat")
	purge := flag.Bool("purge", false, "drop expired seats (postgres only)")
	ttl := flag.Duration("ttl", 24*time.Hour, "seat and token lifetime")
	flag.Parse()

	roomID := session.NormalizeRoom(*room)
	if roomID == "" && !*purge {
		log.Fatal("-room is required")
	}
	if *backend == "memory" {
		log.Fatal("memory backend does not outlive this process")
	}

	seats, err := app.OpenSeats(&config.Config{
		SessionBackend: *backend,
		SessionTTL:     *ttl,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	})
	if err != nil {
		log.Fatalf("open seat store: %v", err)
	}
	defer seats.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch {
	case *purge:
		pg, ok := seats.Store.(*session.PostgresStore)
		if !ok {
			log.Fatalf("purge is not supported by the %s backend", *backend)
		}
		n, err := pg.Purge(ctx)
		if err != nil {
			log.Fatalf("purge: %v", err)
		}
		log.Printf("purged %d expired seats", n)
		return
	case *forget:
		if err := seats.Store.Forget(ctx, roomID); err != nil {
			log.Fatalf("forget: %v", err)
		}
		log.Printf("seat for %s forgotten", roomID)
		return
	case *name != "":
		if err := seats.Store.SaveName(ctx, roomID, *name); err != nil {
			log.Fatalf("save: %v", err)
		}
		log.Printf("seat for %s saved as %q", roomID, *name)
	}

	current, err := seats.Store.LoadName(ctx, roomID)
	if errors.Is(err, session.ErrNoSeat) {
		log.Printf("no seat for %s", roomID)
		return
	}
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	fmt.Printf("room=%s name=%s\n", roomID, current)

	if *token {
		tokens, err := service.NewTokenService(os.Getenv("VIEW_JWT_SECRET"), *ttl)
		if err != nil {
			log.Fatalf("token: %v", err)
		}
		t, err := tokens.Generate(service.Viewer{Name: current, RoomID: roomID})
		if err != nil {
			log.Fatalf("token: %v", err)
		}
		fmt.Println(t)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
