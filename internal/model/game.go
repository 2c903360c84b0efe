package model

import "errors"

// ErrIllegalMove is returned by MakeMove when no legal move matches the
// request. The game is left untouched.
var ErrIllegalMove = errors.New("illegal move")

// Game is the rules engine. It owns the authoritative GameState and the
// undo history and is not safe for concurrent use; callers serialise access.
//
// The engine does not refuse moves after checkmate, stalemate or a draw.
// Callers stop issuing moves once a MoveRecord reports a terminal result.
type Game struct {
	state   GameState
	history []MoveRecord
}

func NewGame() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// NewGameFromState starts a game from an arbitrary position. The state is
// cloned, so the caller may keep using its copy.
func NewGameFromState(state GameState) *Game {
	return &Game{state: state.Clone()}
}

// Reset restores the standard starting position and clears history.
func (g *Game) Reset() {
	g.state = newGameState()
	g.history = nil
}

func (g *Game) Turn() Color {
	return g.state.Turn
}

// Piece returns a copy of the piece on square, or nil for an empty or invalid
// square.
func (g *Game) Piece(square string) *Piece {
	pos, ok := ParseSquare(square)
	if !ok {
		return nil
	}
	return copyPiece(g.state.Board.At(pos))
}

type PlacedPiece struct {
	Piece
	Square Position `json:"square"`
}

// Pieces lists the pieces of color in board order, rank 8 to rank 1.
func (g *Game) Pieces(color Color) []PlacedPiece {
	pieces := []PlacedPiece{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if piece := g.state.Board[y][x]; piece != nil && piece.Color == color {
				pieces = append(pieces, PlacedPiece{Piece: *piece, Square: Position{X: x, Y: y}})
			}
		}
	}
	return pieces
}

// LegalMoves returns every legal move for the side to move.
func (g *Game) LegalMoves() []Move {
	return legalMoves(&g.state)
}

// MovesFrom returns the legal moves of the piece on square. An invalid or
// empty square, or a piece of the side not to move, gives an empty slice.
func (g *Game) MovesFrom(square string) []Move {
	pos, ok := ParseSquare(square)
	if !ok {
		return []Move{}
	}
	return filterLegalMoves(&g.state, pseudoMovesFrom(&g.state, pos))
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return isKingInCheck(&g.state, g.state.Turn)
}

// IsSquareAttacked reports whether attacker attacks square in the current
// position. Invalid squares are never attacked.
func (g *Game) IsSquareAttacked(square string, attacker Color) bool {
	pos, ok := ParseSquare(square)
	if !ok {
		return false
	}
	return isSquareAttacked(&g.state, pos, attacker)
}

// MakeMove commits the legal move matching req. A promotion that is required
// but not specified defaults to a queen; a promotion given for a move that
// does not promote does not match.
func (g *Game) MakeMove(req MoveRequest) (*MoveRecord, error) {
	to, ok := ParseSquare(req.To)
	if !ok {
		return nil, ErrIllegalMove
	}
	var selected *Move
	for _, move := range g.MovesFrom(req.From) {
		if move.To != to {
			continue
		}
		if move.Promotion != "" {
			want := req.Promotion
			if want == "" {
				want = Queen
			}
			if move.Promotion != want {
				continue
			}
		} else if req.Promotion != "" {
			continue
		}
		m := move
		selected = &m
		break
	}
	if selected == nil {
		return nil, ErrIllegalMove
	}

	previous := g.state.Clone()
	result := applyMove(g.state.Clone(), *selected, false)
	g.state = result.state

	fullmove := g.state.FullmoveNumber
	if g.state.Turn == White {
		fullmove--
	}
	record := MoveRecord{
		Move:           *selected,
		Notation:       getNotation(*selected, result),
		Check:          result.check,
		Checkmate:      result.checkmate,
		Stalemate:      result.stalemate,
		Draw:           result.draw,
		DrawReason:     result.drawReason,
		CapturedPiece:  result.capturedPiece,
		FullmoveNumber: fullmove,
		PreviousState:  &previous,
	}
	g.history = append(g.history, record)
	out := record.detached()
	return &out, nil
}

// Undo reverts the last committed move and returns its record, or nil when
// there is nothing to undo.
func (g *Game) Undo() *MoveRecord {
	if len(g.history) == 0 {
		return nil
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	if last.PreviousState != nil {
		g.state = last.PreviousState.Clone()
	}
	out := last.detached()
	return &out
}

// History returns the committed moves, oldest first.
func (g *Game) History() []MoveRecord {
	out := make([]MoveRecord, len(g.history))
	for i := range g.history {
		out[i] = g.history[i].detached()
	}
	return out
}

// LastMove returns the most recent record, or nil.
func (g *Game) LastMove() *MoveRecord {
	if len(g.history) == 0 {
		return nil
	}
	last := g.history[len(g.history)-1].detached()
	return &last
}

// ExportBoard returns a deep copy of the board that callers may modify.
func (g *Game) ExportBoard() Board {
	return g.state.Board.Clone()
}

// State returns a deep copy of the current game state.
func (g *Game) State() GameState {
	return g.state.Clone()
}

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCheck      Status = "check"
	StatusCheckmate  Status = "checkmate"
	StatusStalemate  Status = "stalemate"
	StatusDraw       Status = "draw"
)

// Status derives the game status from the last committed move. A game
// started from a custom position with no history reports InProgress or
// Check.
func (g *Game) Status() Status {
	last := g.LastMove()
	switch {
	case last == nil:
		if g.InCheck() {
			return StatusCheck
		}
		return StatusInProgress
	case last.Checkmate:
		return StatusCheckmate
	case last.Stalemate:
		return StatusStalemate
	case last.Draw:
		return StatusDraw
	case last.Check:
		return StatusCheck
	}
	return StatusInProgress
}
