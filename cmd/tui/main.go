// Command tui plays one seat on a terminal board.
//
//	r      roll
//	1-4    move piece in that slot
//	s      surrender
//	j      rejoin after a rejected join
//	d      dismiss the alert
//	q/Esc  quit
package main

import (
	"context"
	"os"
	"strings"
	"time"

	"ludo_client/internal/app"
	"ludo_client/internal/board"
	"ludo_client/internal/config"
	"ludo_client/internal/controller"
	"ludo_client/internal/domain"
	"ludo_client/internal/logger"
	"ludo_client/internal/render"

	"github.com/nsf/termbox-go"
)

const actionTimeout = 2 * time.Second

var colors = map[domain.Color]termbox.Attribute{
	domain.ColorGreen:  termbox.ColorGreen,
	domain.ColorYellow: termbox.ColorYellow,
	domain.ColorRed:    termbox.ColorRed,
	domain.ColorBlue:   termbox.ColorBlue,
}

// navigator keeps the last redirect/alert so the board can show it.
type navigator struct {
	notes chan string
}

func (n navigator) Redirect(reason string) { n.send("redirect: " + reason) }
func (n navigator) Alert(msg string)       { n.send("alert: " + msg) }

func (n navigator) send(s string) {
	select {
	case n.notes <- s:
	default:
	}
}

func main() {
	cfg := config.Load()

	// the terminal is ours, logs go to a file
	logFile, err := os.OpenFile("ludo_tui.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Fatal("failed to open log file", "error", err)
	}
	defer logFile.Close()
	logger.InitWriter(logFile, cfg.LogLevel, cfg.LogJSON)
	log := logger.Component("tui")

	seats, err := app.OpenSeats(cfg)
	if err != nil {
		logger.Fatal("failed to open seat store", "error", err)
	}
	defer seats.Close()

	nav := navigator{notes: make(chan string, 8)}
	engine := app.NewEngine(cfg, seats.Store, app.Hooks{Navigator: nav, Alerter: nav})

	views := make(chan controller.View, 1)
	engine.Controller.OnChange(func(v controller.View) {
		// keep only the newest frame
		select {
		case <-views:
		default:
		}
		views <- v
	})

	if err := termbox.Init(); err != nil {
		logger.Fatal("termbox init failed", "error", err)
	}
	defer termbox.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := engine.Run(ctx); err != nil {
			log.Error("transport stopped", "error", err)
			nav.send("disconnected: " + err.Error())
		}
	}()
	defer engine.Stop()

	keys := make(chan termbox.Event, 8)
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			keys <- ev
		}
	}()
	defer termbox.Interrupt()

	var (
		view controller.View
		note string
	)
	draw(view, engine.Projector, note)

	for {
		select {
		case v := <-views:
			view = v
		case n := <-nav.notes:
			note = n
		case ev := <-keys:
			if ev.Type != termbox.EventKey {
				break
			}
			if ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
				return
			}
			if err := act(ctx, engine.Controller, view, ev.Ch); err != nil {
				note = err.Error()
			} else {
				note = ""
			}
		}
		draw(view, engine.Projector, note)
	}
}

// actions is the subset of the controller a key press drives.
type actions interface {
	RollDice(ctx context.Context) error
	MovePiece(ctx context.Context, playerID string, slot int) error
	Surrender(ctx context.Context) error
	Rejoin(ctx context.Context) error
	DismissAlert(ctx context.Context) error
}

type binding struct {
	keys  string
	label string
	run   func(ctx context.Context, a actions, v controller.View, ch rune) error
}

// bindings drive both the key handling and the legend under the board.
var bindings = []binding{
	{"r", "roll", func(ctx context.Context, a actions, _ controller.View, _ rune) error { return a.RollDice(ctx) }},
	{"1234", "move", func(ctx context.Context, a actions, v controller.View, ch rune) error {
		return a.MovePiece(ctx, v.MyID, int(ch-'1'))
	}},
	{"s", "surrender", func(ctx context.Context, a actions, _ controller.View, _ rune) error { return a.Surrender(ctx) }},
	{"j", "rejoin", func(ctx context.Context, a actions, _ controller.View, _ rune) error { return a.Rejoin(ctx) }},
	{"d", "dismiss", func(ctx context.Context, a actions, _ controller.View, _ rune) error { return a.DismissAlert(ctx) }},
}

func act(ctx context.Context, a actions, v controller.View, ch rune) error {
	ctx, cancel := context.WithTimeout(ctx, actionTimeout)
	defer cancel()

	for _, b := range bindings {
		if strings.ContainsRune(b.keys, ch) {
			return b.run(ctx, a, v, ch)
		}
	}
	return nil
}

func legend() string {
	parts := make([]string, 0, len(bindings)+1)
	for _, b := range bindings {
		keys := b.keys
		if len(keys) > 1 {
			keys = keys[:1] + "-" + keys[len(keys)-1:]
		}
		parts = append(parts, keys+" "+b.label)
	}
	parts = append(parts, "q quit")
	return strings.Join(parts, "  ")
}

func draw(v controller.View, p *board.Projector, note string) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	grid := render.Board(v, p)
	for row := range grid {
		for col, cell := range grid[row] {
			fg := termbox.ColorDefault
			if c, ok := colors[cell.Color]; ok {
				fg = c
			}
			bg := termbox.ColorDefault
			if cell.Movable {
				fg |= termbox.AttrBold
				bg = termbox.ColorWhite
			}
			if v.Shaking && cell.Ch == '!' {
				fg |= termbox.AttrReverse
			}
			// two columns per square keeps the board roughly square
			termbox.SetCell(col*2, row, cell.Ch, fg, bg)
			termbox.SetCell(col*2+1, row, ' ', fg, bg)
		}
	}

	x := board.GridSize*2 + 3
	y := 0
	for _, line := range render.Status(v) {
		label(x, y, line, termbox.ColorDefault)
		y++
	}
	y++
	for _, line := range render.Players(v) {
		label(x, y, line, termbox.ColorDefault)
		y++
	}
	y++
	for _, m := range v.Messages {
		label(x, y, "- "+m, termbox.ColorMagenta)
		y++
	}

	y = board.GridSize + 1
	if note != "" {
		label(0, y, note, termbox.ColorRed)
		y++
	}
	label(0, y, legend(), termbox.ColorCyan)

	termbox.Flush()
}

func label(x, y int, s string, fg termbox.Attribute) {
	for _, r := range s {
		termbox.SetCell(x, y, r, fg, termbox.ColorDefault)
		x++
	}
}
