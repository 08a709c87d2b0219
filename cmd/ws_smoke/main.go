// Command ws_smoke drives the lobby against a live authority: it creates or
// joins a room, optionally adds bots and starts the game, then prints every
// frame it receives.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ludo_client/internal/protocol"
	"ludo_client/internal/ws"

	"github.com/google/uuid"
)

func main() {
	url := flag.String("url", os.Getenv("SERVER_URL"), "authority websocket url")
	room := flag.String("room", "", "room id (random when creating)")
	name := flag.String("name", "smoke", "player name")
	create := flag.Bool("create", false, "create the room instead of joining it")
	bots := flag.Int("bots", 0, "bots to add after joining")
	start := flag.Bool("start", false, "start the game once bots are added")
	wait := flag.Duration("wait", 30*time.Second, "how long to listen")
	flag.Parse()

	if *url == "" {
		log.Fatal("-url or SERVER_URL is required")
	}
	if *room == "" {
		if !*create {
			log.Fatal("-room is required when joining")
		}
		*room = strings.ToUpper(uuid.NewString()[:6])
	}
	roomID := strings.ToUpper(strings.TrimSpace(*room))

	client := ws.NewClient(ws.Options{URL: *url, ReconnectAttempts: 3})

	events := append([]string{
		protocol.EventRoomCreated,
		protocol.EventRoomJoined,
		protocol.EventRoomUpdated,
		protocol.EventGameInitialized,
	}, protocol.GameEvents...)
	for _, event := range events {
		event := event
		client.On(event, func(raw json.RawMessage) {
			fmt.Printf("%s  %-16s %s\n", time.Now().Format("15:04:05.000"), event, raw)
		})
	}
	client.OnError(func(err error) { log.Printf("transport: %v", err) })

	client.OnConnect(func(id string) {
		log.Printf("connected id=%s room=%s", id, roomID)
		req := protocol.ReqJoinRoom
		if *create {
			req = protocol.ReqCreateRoom
		}
		if err := client.Emit(req, protocol.JoinRoomPayload{RoomID: roomID, PlayerName: *name}); err != nil {
			log.Printf("%s: %v", req, err)
			return
		}
		go lobby(client, roomID, *bots, *start)
	})

	ctx, cancel := context.WithTimeout(context.Background(), *wait)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("run: %v", err)
	}
	client.Close()
}

func lobby(client *ws.Client, roomID string, bots int, start bool) {
	// the emit limiter spaces these out
	for i := 0; i < bots; i++ {
		time.Sleep(200 * time.Millisecond)
		if err := client.Emit(protocol.ReqAddBot, protocol.RoomPayload{RoomID: roomID}); err != nil {
			log.Printf("addBot: %v", err)
		}
	}
	if start {
		time.Sleep(300 * time.Millisecond)
		if err := client.Emit(protocol.ReqStartGame, protocol.RoomPayload{RoomID: roomID}); err != nil {
			log.Printf("startGame: %v", err)
		}
	}
}
