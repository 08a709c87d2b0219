package handlers

import (
	"context"

	"ludo_client/internal/audio"
	"ludo_client/internal/board"
	"ludo_client/internal/controller"
	"ludo_client/internal/realtime"
)

// Game is the controller surface the view API drives.
type Game interface {
	View(ctx context.Context) (controller.View, error)
	RollDice(ctx context.Context) error
	MovePiece(ctx context.Context, playerID string, slot int) error
	Surrender(ctx context.Context) error
	Rejoin(ctx context.Context) error
	DismissAlert(ctx context.Context) error
}

type Handler struct {
	Game      Game
	Stream    *realtime.Broadcaster
	Cues      *audio.Recorder
	Projector *board.Projector
}

func NewHandler(game Game, stream *realtime.Broadcaster, cues *audio.Recorder, projector *board.Projector) *Handler {
	if projector == nil {
		projector = board.NewProjector(0)
	}
	return &Handler{
		Game:      game,
		Stream:    stream,
		Cues:      cues,
		Projector: projector,
	}
}
