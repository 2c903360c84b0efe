package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// PromotionTypes lists the piece types a pawn may promote to, in generation order.
var PromotionTypes = []PieceType{Queen, Rook, Bishop, Knight}

// Letter returns the lowercase coordinate-notation letter for the piece type.
func (p PieceType) Letter() string {
	switch p {
	case King:
		return "k"
	case Queen:
		return "q"
	case Rook:
		return "r"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	case Pawn:
		return "p"
	}
	return ""
}

// ParsePieceType accepts either the full name ("queen") or the letter ("q").
func ParsePieceType(s string) (PieceType, bool) {
	switch s {
	case "k", "K", string(King):
		return King, true
	case "q", "Q", string(Queen):
		return Queen, true
	case "r", "R", string(Rook):
		return Rook, true
	case "b", "B", string(Bishop):
		return Bishop, true
	case "n", "N", string(Knight):
		return Knight, true
	case "p", "P", string(Pawn):
		return Pawn, true
	}
	return "", false
}

type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

// Symbol returns the Unicode chess glyph for the piece.
func (p Piece) Symbol() string {
	white := p.Color == White
	switch p.Type {
	case King:
		return pick(white, "♔", "♚")
	case Queen:
		return pick(white, "♕", "♛")
	case Rook:
		return pick(white, "♖", "♜")
	case Bishop:
		return pick(white, "♗", "♝")
	case Knight:
		return pick(white, "♘", "♞")
	case Pawn:
		return pick(white, "♙", "♟")
	}
	return "?"
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// Position addresses a square. X is the file (0 = a), Y is the row counted
// from black's back rank (0 = rank 8, 7 = rank 1).
type Position struct {
	X int
	Y int
}

// ParseSquare converts a coordinate such as "e4" into a Position. Anything
// that is not a file letter a-h followed by a rank digit 1-8 yields false.
func ParseSquare(square string) (Position, bool) {
	if len(square) != 2 {
		return Position{}, false
	}
	file, rank := square[0], square[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Position{}, false
	}
	return Position{X: int(file - 'a'), Y: 8 - int(rank-'0')}, true
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(square string) Position {
	pos, ok := ParseSquare(square)
	if !ok {
		panic(fmt.Sprintf("model: invalid square %q", square))
	}
	return pos
}

func (p Position) String() string {
	if !boundaryCheck(p) {
		return "-"
	}
	return fmt.Sprintf("%c%d", p.X+97, 8-p.Y)
}

func (p Position) MarshalText() ([]byte, error) {
	if !boundaryCheck(p) {
		return nil, fmt.Errorf("model: position %d,%d is off the board", p.X, p.Y)
	}
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	pos, ok := ParseSquare(string(text))
	if !ok {
		return fmt.Errorf("model: invalid square %q", text)
	}
	*p = pos
	return nil
}

// Light reports whether the square is a light square.
func (p Position) Light() bool {
	return (p.X+p.Y)%2 == 0
}

func (p Position) add(dir Position) Position {
	return Position{X: p.X + dir.X, Y: p.Y + dir.Y}
}

func boundaryCheck(position Position) bool {
	return position.X >= 0 && position.X < 8 && position.Y >= 0 && position.Y < 8
}

// Board is indexed [Y][X]. Empty squares are nil.
type Board [8][8]*Piece

func (b *Board) At(pos Position) *Piece {
	if !boundaryCheck(pos) {
		return nil
	}
	return b[pos.Y][pos.X]
}

func (b *Board) set(pos Position, piece *Piece) {
	b[pos.Y][pos.X] = piece
}

// Place puts a copy of piece on square, or clears the square when piece is
// nil. It reports false for an invalid square.
func (b *Board) Place(square string, piece *Piece) bool {
	pos, ok := ParseSquare(square)
	if !ok {
		return false
	}
	if piece == nil {
		b.set(pos, nil)
		return true
	}
	p := *piece
	b.set(pos, &p)
	return true
}

// Clone returns a deep copy; no Piece pointer is shared with the receiver.
func (b *Board) Clone() Board {
	var clone Board
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if piece := b[y][x]; piece != nil {
				p := *piece
				clone[y][x] = &p
			}
		}
	}
	return clone
}

// Equal compares boards by piece value.
func (b *Board) Equal(other *Board) bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p, q := b[y][x], other[y][x]
			if (p == nil) != (q == nil) {
				return false
			}
			if p != nil && *p != *q {
				return false
			}
		}
	}
	return true
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func newBoard() Board {
	var board Board
	for x := 0; x < 8; x++ {
		board[0][x] = &Piece{Type: backRank[x], Color: Black}
		board[1][x] = &Piece{Type: Pawn, Color: Black}
		board[6][x] = &Piece{Type: Pawn, Color: White}
		board[7][x] = &Piece{Type: backRank[x], Color: White}
	}
	return board
}
