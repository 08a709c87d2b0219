package protocol

import "ludo_client/internal/domain"

// server -> client
const (
	EventConnected        = "connected"
	EventGameState        = "game_state"
	EventDiceRolled       = "diceRolled"
	EventPieceMoved       = "pieceMoved"
	EventKill             = "killEvent"
	EventPowerUpActivated = "powerUpActivated"
	EventExplosion        = "explosion"
	EventTurnChanged      = "turnChanged"
	EventMessage          = "message"
	EventError            = "error"
	EventErrorJoining     = "errorJoining"

	// lobby
	EventRoomCreated     = "roomCreated"
	EventRoomJoined      = "roomJoined"
	EventRoomUpdated     = "roomUpdated"
	EventGameInitialized = "gameInitialized"
)

// client -> server
const (
	ReqJoinRoom   = "joinRoom"
	ReqRollDice   = "rollDice"
	ReqMovePiece  = "movePiece"
	ReqSurrender  = "surrender"
	ReqCreateRoom = "createRoom"
	ReqAddBot     = "addBot"
	ReqStartGame  = "startGame"
)

// GameEvents is every event the game view listens to.
var GameEvents = []string{
	EventGameState,
	EventDiceRolled,
	EventPieceMoved,
	EventKill,
	EventPowerUpActivated,
	EventExplosion,
	EventTurnChanged,
	EventMessage,
	EventError,
	EventErrorJoining,
}

type ConnectedPayload struct {
	ID string `json:"id"`
}

type GameStatePayload = domain.Snapshot

type DiceRolledPayload struct {
	Value int `json:"value"`
}

type KillPayload struct {
	Killer string `json:"killer"`
	Victim string `json:"victim"`
}

type PowerUpEffect struct {
	Msg string `json:"msg"`
}

type PowerUpActivatedPayload struct {
	Player string        `json:"player"`
	Effect PowerUpEffect `json:"effect"`
}

type ExplosionPayload struct {
	Pos int `json:"pos"`
}

type TurnChangedPayload struct {
	TurnIndex int `json:"turnIndex"`
}

type JoinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type RoomPayload struct {
	RoomID string `json:"roomId"`
}

type MovePiecePayload struct {
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId"`
	PieceIndex int    `json:"pieceIndex"`
}

// RoomInfo is what the lobby events carry.
type RoomInfo struct {
	ID      string          `json:"id"`
	Players []domain.Player `json:"players"`
	Status  string          `json:"status"`
}
