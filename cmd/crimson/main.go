// Command crimson plays chess in the terminal, against another person at the
// same keyboard or against the bot.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/benbeisheim/crimson-chess/internal/bot"
	"github.com/benbeisheim/crimson-chess/internal/model"
)

func main() {
	botSide := flag.String("bot", "", "let the bot play white or black")
	randomness := flag.Float64("randomness", bot.DefaultConfig().Randomness, "bot score noise, 0 plays its best guess")
	aggression := flag.Float64("aggression", bot.DefaultConfig().Aggression, "bot bonus multiplier for giving check")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for the bot")
	flag.Parse()

	r := &repl{game: model.NewGame(), out: os.Stdout}
	if *botSide != "" {
		color := model.Color(strings.ToLower(*botSide))
		if !color.Valid() {
			fmt.Fprintf(os.Stderr, "-bot must be white or black, got %q\n", *botSide)
			os.Exit(2)
		}
		cfg := bot.DefaultConfig()
		cfg.Randomness = *randomness
		cfg.Aggression = *aggression
		r.bot = bot.New(r.game, color, cfg, bot.WithRand(rand.New(rand.NewSource(*seed))))
	}

	r.run(os.Stdin)
}

type repl struct {
	game *model.Game
	bot  *bot.Bot
	out  io.Writer
}

func (r *repl) run(in io.Reader) {
	r.printBoard()
	r.botTurn()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(r.out, "%s> ", r.game.Turn())
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return
		}
		if !r.handle(scanner.Text()) {
			return
		}
	}
}

// handle runs one command line and reports whether to keep reading.
func (r *repl) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch strings.ToLower(fields[0]) {
	case "exit", "quit":
		return false
	case "help":
		fmt.Fprintln(r.out, "commands: <from><to>[promotion] (e2e4, g7g8n), moves [square], undo, reset, board, exit")
	case "board":
		r.printBoard()
	case "reset":
		r.game.Reset()
		r.printBoard()
		r.botTurn()
	case "undo":
		r.undo()
	case "moves":
		r.listMoves(fields[1:])
	default:
		req, ok := model.ParseMoveRequest(strings.ToLower(fields[0]))
		if !ok {
			fmt.Fprintf(r.out, "unknown command %q, try help\n", fields[0])
			return true
		}
		if r.bot != nil && r.game.Turn() == r.bot.Color() {
			fmt.Fprintln(r.out, "it is the bot's turn")
			return true
		}
		record, err := r.game.MakeMove(req)
		if err != nil {
			fmt.Fprintf(r.out, "%s: %v\n", fields[0], err)
			return true
		}
		r.played(record)
		r.botTurn()
	}
	return true
}

// undo takes back one move, or the bot's reply and the move before it.
func (r *repl) undo() {
	if r.game.Undo() == nil {
		fmt.Fprintln(r.out, "nothing to undo")
		return
	}
	if r.bot != nil && r.game.Turn() == r.bot.Color() {
		if r.game.Undo() == nil {
			r.printBoard()
			r.botTurn()
			return
		}
	}
	r.printBoard()
}

func (r *repl) listMoves(args []string) {
	var moves []model.Move
	if len(args) > 0 {
		if _, ok := model.ParseSquare(args[0]); !ok {
			fmt.Fprintf(r.out, "bad square %q\n", args[0])
			return
		}
		moves = r.game.MovesFrom(args[0])
	} else {
		moves = r.game.LegalMoves()
	}
	names := make([]string, 0, len(moves))
	for _, m := range moves {
		names = append(names, m.UCI())
	}
	fmt.Fprintf(r.out, "%d moves: %s\n", len(names), strings.Join(names, " "))
}

func (r *repl) botTurn() {
	if r.bot == nil || r.game.Turn() != r.bot.Color() {
		return
	}
	move, ok := r.bot.ChooseMove()
	if !ok {
		return
	}
	record, err := r.game.MakeMove(model.MoveRequest{
		From:      move.From.String(),
		To:        move.To.String(),
		Promotion: move.Promotion,
	})
	if err != nil {
		fmt.Fprintf(r.out, "bot move %s rejected: %v\n", move.UCI(), err)
		return
	}
	r.played(record)
	if r.game.LastMove() == nil {
		// a finished game was reset and the bot may open the new one
		r.botTurn()
	}
}

// played prints the move and the board, and on a finished game announces
// the result and starts over.
func (r *repl) played(record *model.MoveRecord) {
	fmt.Fprintf(r.out, "%d. %s\n", record.FullmoveNumber, record.Notation)
	r.printBoard()
	switch {
	case record.Checkmate:
		fmt.Fprintf(r.out, "checkmate, %s wins\n", record.Color)
	case record.Terminal():
		fmt.Fprintf(r.out, "draw by %s\n", record.DrawReason)
	case record.Check:
		fmt.Fprintln(r.out, "check")
		return
	default:
		return
	}
	r.game.Reset()
	fmt.Fprintln(r.out, "new game")
	r.printBoard()
}

func (r *repl) printBoard() {
	board := r.game.ExportBoard()
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for y := 0; y < 8; y++ {
		rank := 8 - y
		fmt.Fprintf(&sb, "%d ", rank)
		for x := 0; x < 8; x++ {
			if piece := board[y][x]; piece != nil {
				sb.WriteString(piece.Symbol())
			} else if (model.Position{X: x, Y: y}).Light() {
				sb.WriteString("·")
			} else {
				sb.WriteString(" ")
			}
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%d\n", rank)
	}
	sb.WriteString("  a b c d e f g h\n")
	fmt.Fprint(r.out, sb.String())
}
