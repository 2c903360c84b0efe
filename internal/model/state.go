package model

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// homeRow is the board row holding the color's king and rooks at the start.
func (c Color) homeRow() int {
	if c == White {
		return 7
	}
	return 0
}

// forward is the Y step a pawn of this color moves by.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

type CastlingRights struct {
	KingSide  bool `json:"kingSide"`
	QueenSide bool `json:"queenSide"`
}

type Castling struct {
	White CastlingRights `json:"white"`
	Black CastlingRights `json:"black"`
}

func (c *Castling) For(color Color) *CastlingRights {
	if color == White {
		return &c.White
	}
	return &c.Black
}

// GameState is the unit of snapshot, undo and legality simulation. Copies
// made with Clone share nothing with the original.
type GameState struct {
	Board          Board     `json:"board"`
	Turn           Color     `json:"turn"`
	Castling       Castling  `json:"castling"`
	EnPassant      *Position `json:"enPassant"`
	HalfmoveClock  int       `json:"halfmoveClock"`
	FullmoveNumber int       `json:"fullmoveNumber"`
}

func newGameState() GameState {
	return GameState{
		Board: newBoard(),
		Turn:  White,
		Castling: Castling{
			White: CastlingRights{KingSide: true, QueenSide: true},
			Black: CastlingRights{KingSide: true, QueenSide: true},
		},
		EnPassant:      nil,
		HalfmoveClock:  0,
		FullmoveNumber: 1,
	}
}

// NewEmptyState returns a state with no pieces, white to move and no
// castling rights. Callers populate it with Board.Place.
func NewEmptyState() GameState {
	return GameState{Turn: White, FullmoveNumber: 1}
}

func (s *GameState) Clone() GameState {
	clone := GameState{
		Board:          s.Board.Clone(),
		Turn:           s.Turn,
		Castling:       s.Castling,
		HalfmoveClock:  s.HalfmoveClock,
		FullmoveNumber: s.FullmoveNumber,
	}
	if s.EnPassant != nil {
		ep := *s.EnPassant
		clone.EnPassant = &ep
	}
	return clone
}

// Equal compares two states by value.
func (s *GameState) Equal(other *GameState) bool {
	if !s.Board.Equal(&other.Board) {
		return false
	}
	if (s.EnPassant == nil) != (other.EnPassant == nil) {
		return false
	}
	if s.EnPassant != nil && *s.EnPassant != *other.EnPassant {
		return false
	}
	return s.Turn == other.Turn &&
		s.Castling == other.Castling &&
		s.HalfmoveClock == other.HalfmoveClock &&
		s.FullmoveNumber == other.FullmoveNumber
}
