package model

import "fmt"

// getNotation renders a move for the move log. It is deliberately not SAN:
// every move names its origin square, so no disambiguation is needed.
//
//	♘ g1 – f3
//	♙ e7 × d8 (= ♕) +
//	O-O
func getNotation(move Move, result application) string {
	switch move.Flags.Castle {
	case KingSide:
		return "O-O"
	case QueenSide:
		return "O-O-O"
	}
	glyph := "–"
	if move.Flags.Capture {
		glyph = "×"
	}
	notation := fmt.Sprintf("%s %s %s %s", Piece{Type: move.Piece, Color: move.Color}.Symbol(), move.From, glyph, move.To)
	if move.Promotion != "" {
		notation += fmt.Sprintf(" (= %s)", Piece{Type: move.Promotion, Color: move.Color}.Symbol())
	}
	switch {
	case result.checkmate:
		notation += " #"
	case result.check:
		notation += " +"
	case result.stalemate || result.draw:
		notation += " ½"
	}
	return notation
}
