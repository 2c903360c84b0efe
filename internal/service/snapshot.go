package service

import (
	"github.com/benbeisheim/crimson-chess/internal/model"
)

// Sound names the cue a client plays for the latest move.
type Sound string

const (
	SoundNone    Sound = ""
	SoundMove    Sound = "move"
	SoundCapture Sound = "capture"
	SoundCheck   Sound = "check"
	SoundWin     Sound = "win"
	SoundDefeat  Sound = "defeat"
	SoundDraw    Sound = "draw"
)

// Commentary names the kind of remark the bot makes about the latest
// event. Clients pick the wording.
type Commentary string

const (
	CommentaryStart         Commentary = "start"
	CommentaryThinking      Commentary = "thinking"
	CommentaryPlayerMove    Commentary = "playerMove"
	CommentaryPlayerCapture Commentary = "playerCapture"
	CommentaryPlayerCheck   Commentary = "playerCheck"
	CommentaryNeutral       Commentary = "neutral"
	CommentaryCapture       Commentary = "capture"
	CommentaryCheck         Commentary = "check"
	CommentaryVictory       Commentary = "victory"
	CommentaryDefeat        Commentary = "defeat"
	CommentaryDraw          Commentary = "draw"
)

// CapturedPieces lists the pieces each side has taken.
type CapturedPieces struct {
	White []model.Piece `json:"white"`
	Black []model.Piece `json:"black"`
}

// MovePair is one numbered line of the move log.
type MovePair struct {
	Number int               `json:"number"`
	White  *model.MoveRecord `json:"white"`
	Black  *model.MoveRecord `json:"black"`
}

type LastMove struct {
	From model.Position `json:"from"`
	To   model.Position `json:"to"`
}

type Clocks struct {
	White int64 `json:"white"`
	Black int64 `json:"black"`
}

// GameResult is set once the game has ended. Winner is nil for draws.
type GameResult struct {
	Winner *model.Color `json:"winner"`
	Reason string       `json:"reason"`
}

// Snapshot is the client-facing view of a session.
type Snapshot struct {
	ID              string          `json:"id"`
	Version         int             `json:"version"`
	Board           model.Board     `json:"board"`
	ToMove          model.Color     `json:"toMove"`
	HumanColor      model.Color     `json:"humanColor"`
	Status          model.Status    `json:"status"`
	IsCheck         bool            `json:"isCheck"`
	CheckSquare     *model.Position `json:"checkSquare"`
	EnPassantTarget *model.Position `json:"enPassantTarget"`
	Castling        model.Castling  `json:"castling"`
	HalfmoveClock   int             `json:"halfmoveClock"`
	FullmoveNumber  int             `json:"fullmoveNumber"`
	LastMove        *LastMove       `json:"lastMove"`
	MoveHistory     []MovePair      `json:"moveHistory"`
	CapturedPieces  CapturedPieces  `json:"capturedPieces"`
	Result          *GameResult     `json:"result"`
	Sound           Sound           `json:"sound"`
	Commentary      Commentary      `json:"commentary"`
	Thinking        bool            `json:"thinking"`
	Clocks          Clocks          `json:"clocks"`
}

func groupMoves(history []model.MoveRecord) []MovePair {
	pairs := []MovePair{}
	for i := range history {
		record := history[i]
		if record.Color == model.White || len(pairs) == 0 || pairs[len(pairs)-1].Number != record.FullmoveNumber {
			pairs = append(pairs, MovePair{Number: record.FullmoveNumber})
		}
		pair := &pairs[len(pairs)-1]
		if record.Color == model.White {
			pair.White = &record
		} else {
			pair.Black = &record
		}
	}
	return pairs
}

func capturedPieces(history []model.MoveRecord) CapturedPieces {
	captured := CapturedPieces{White: []model.Piece{}, Black: []model.Piece{}}
	for _, record := range history {
		if record.CapturedPiece == nil {
			continue
		}
		if record.Color == model.White {
			captured.White = append(captured.White, *record.CapturedPiece)
		} else {
			captured.Black = append(captured.Black, *record.CapturedPiece)
		}
	}
	return captured
}

func resultOf(last *model.MoveRecord) *GameResult {
	if last == nil || !last.Terminal() {
		return nil
	}
	if last.Checkmate {
		winner := last.Color
		return &GameResult{Winner: &winner, Reason: "checkmate"}
	}
	reason := string(last.DrawReason)
	if reason == "" && last.Stalemate {
		reason = string(model.DrawStalemate)
	}
	return &GameResult{Reason: reason}
}

// soundFor picks the cue for the last move as heard by the human side.
func soundFor(last *model.MoveRecord, human model.Color) Sound {
	switch {
	case last == nil:
		return SoundNone
	case last.Checkmate:
		if last.Color == human {
			return SoundWin
		}
		return SoundDefeat
	case last.Terminal():
		return SoundDraw
	case last.Check:
		return SoundCheck
	case last.Flags.Capture:
		return SoundCapture
	}
	return SoundMove
}

// commentaryFor reacts to the last move, from the bot's side. Victory is the
// human's. Before any move it is start, or thinking while the bot opens.
func commentaryFor(last *model.MoveRecord, human model.Color, thinking bool) Commentary {
	if last == nil {
		if thinking {
			return CommentaryThinking
		}
		return CommentaryStart
	}
	if last.Checkmate {
		if last.Color == human {
			return CommentaryVictory
		}
		return CommentaryDefeat
	}
	if last.Terminal() {
		return CommentaryDraw
	}
	if last.Color == human {
		switch {
		case last.Check:
			return CommentaryPlayerCheck
		case last.Flags.Capture:
			return CommentaryPlayerCapture
		}
		return CommentaryPlayerMove
	}
	switch {
	case last.Check:
		return CommentaryCheck
	case last.Flags.Capture:
		return CommentaryCapture
	}
	return CommentaryNeutral
}

func checkSquare(game *model.Game) *model.Position {
	if !game.InCheck() {
		return nil
	}
	for _, placed := range game.Pieces(game.Turn()) {
		if placed.Type == model.King {
			square := placed.Square
			return &square
		}
	}
	return nil
}
