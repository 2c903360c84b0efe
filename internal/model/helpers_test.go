package model

import (
	"strings"
	"testing"
)

// stateFromPlacement builds a state from a board diagram written rank 8 to
// rank 1, ranks separated by '/', digits for runs of empty squares and
// upper case for white.
func stateFromPlacement(t *testing.T, placement string, turn Color, castling Castling) GameState {
	t.Helper()
	state := NewEmptyState()
	state.Turn = turn
	state.Castling = castling
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		t.Fatalf("placement %q has %d ranks", placement, len(rows))
	}
	for y, row := range rows {
		x := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				x += int(ch - '0')
				continue
			}
			pt, ok := ParsePieceType(string(ch))
			if !ok {
				t.Fatalf("bad piece %q in placement", ch)
			}
			color := Black
			if ch >= 'A' && ch <= 'Z' {
				color = White
			}
			if x > 7 {
				t.Fatalf("rank %d of %q overflows", 8-y, placement)
			}
			state.Board[y][x] = &Piece{Type: pt, Color: color}
			x++
		}
		if x != 8 {
			t.Fatalf("rank %d of %q has %d files", 8-y, placement, x)
		}
	}
	return state
}

var allCastling = Castling{
	White: CastlingRights{KingSide: true, QueenSide: true},
	Black: CastlingRights{KingSide: true, QueenSide: true},
}

func play(t *testing.T, g *Game, moves ...string) *MoveRecord {
	t.Helper()
	var last *MoveRecord
	for _, s := range moves {
		req, ok := ParseMoveRequest(s)
		if !ok {
			t.Fatalf("bad move literal %q", s)
		}
		record, err := g.MakeMove(req)
		if err != nil {
			t.Fatalf("move %s: %v", s, err)
		}
		last = record
	}
	return last
}

func hasMove(moves []Move, uci string) bool {
	for _, m := range moves {
		if m.UCI() == uci {
			return true
		}
	}
	return false
}

func requestFor(m Move) MoveRequest {
	return MoveRequest{From: m.From.String(), To: m.To.String(), Promotion: m.Promotion}
}
