package model

// application is the outcome of applyMove. The terminal fields are only
// populated for committed (non-simulated) moves.
type application struct {
	state         GameState
	capturedPiece *Piece
	check         bool
	checkmate     bool
	stalemate     bool
	draw          bool
	drawReason    DrawReason
}

// applyMove plays move on state, which the caller must own (normally a
// clone). With simulate set, only the board and bookkeeping are updated; the
// opponent's replies are not generated.
func applyMove(state GameState, move Move, simulate bool) application {
	board := &state.Board
	movingPiece := board.At(move.From)
	board.set(move.From, nil)

	var capturedPiece *Piece
	capturePos := move.To
	if move.Flags.EnPassant && move.CaptureSquare != nil {
		capturePos = *move.CaptureSquare
		capturedPiece = board.At(capturePos)
		board.set(capturePos, nil)
	} else {
		capturedPiece = board.At(move.To)
	}

	pieceToPlace := movingPiece
	if move.Promotion != "" {
		pieceToPlace = &Piece{Type: move.Promotion, Color: move.Color}
	}
	board.set(move.To, pieceToPlace)

	switch move.Flags.Castle {
	case KingSide:
		rookFrom := Position{X: 7, Y: move.From.Y}
		board.set(Position{X: move.To.X - 1, Y: move.From.Y}, board.At(rookFrom))
		board.set(rookFrom, nil)
	case QueenSide:
		rookFrom := Position{X: 0, Y: move.From.Y}
		board.set(Position{X: move.To.X + 1, Y: move.From.Y}, board.At(rookFrom))
		board.set(rookFrom, nil)
	}

	state.EnPassant = nil
	if move.Flags.DoublePush {
		state.EnPassant = &Position{X: move.To.X, Y: (move.From.Y + move.To.Y) / 2}
	}

	updateCastlingRights(&state, movingPiece, move.From, capturedPiece, capturePos)

	if movingPiece.Type == Pawn || capturedPiece != nil {
		state.HalfmoveClock = 0
	} else {
		state.HalfmoveClock++
	}
	if movingPiece.Color == Black {
		state.FullmoveNumber++
	}
	state.Turn = move.Color.Opposite()

	result := application{
		state:         state,
		capturedPiece: copyPiece(capturedPiece),
	}
	if simulate {
		return result
	}

	result.check = isKingInCheck(&result.state, result.state.Turn)
	noMoves := len(legalMoves(&result.state)) == 0
	result.checkmate = noMoves && result.check
	result.stalemate = noMoves && !result.check
	switch {
	case result.stalemate:
		result.draw, result.drawReason = true, DrawStalemate
	case result.checkmate:
	case insufficientMaterial(&result.state):
		result.draw, result.drawReason = true, DrawInsufficient
	case result.state.HalfmoveClock >= 100:
		result.draw, result.drawReason = true, DrawFiftyMove
	}
	return result
}

// Rights are only ever removed: by a king move, by a rook leaving its home
// corner, or by a rook being captured on its home corner.
func updateCastlingRights(state *GameState, moved *Piece, from Position, captured *Piece, capturePos Position) {
	if moved.Type == King {
		rights := state.Castling.For(moved.Color)
		rights.KingSide, rights.QueenSide = false, false
	}
	if moved.Type == Rook {
		clearCornerRight(state, moved.Color, from)
	}
	if captured != nil && captured.Type == Rook {
		clearCornerRight(state, captured.Color, capturePos)
	}
}

func clearCornerRight(state *GameState, color Color, pos Position) {
	if pos.Y != color.homeRow() {
		return
	}
	rights := state.Castling.For(color)
	switch pos.X {
	case 0:
		rights.QueenSide = false
	case 7:
		rights.KingSide = false
	}
}

// isLegalMove plays move on a throwaway clone and rejects it when the
// mover's king ends up attacked. Pins fall out of this for free.
func isLegalMove(state *GameState, move Move) bool {
	result := applyMove(state.Clone(), move, true)
	return !isKingInCheck(&result.state, move.Color)
}

func filterLegalMoves(state *GameState, pseudo []Move) []Move {
	legal := []Move{}
	for _, move := range pseudo {
		if isLegalMove(state, move) {
			legal = append(legal, move)
		}
	}
	return legal
}

func legalMoves(state *GameState) []Move {
	return filterLegalMoves(state, pseudoMoves(state))
}

// insufficientMaterial: no pawns, rooks or queens, and either at most a single
// knight with no bishops, or only bishops all standing on one square color.
func insufficientMaterial(state *GameState) bool {
	bishops, knights := 0, 0
	lightBishops, darkBishops := 0, 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := state.Board[y][x]
			if piece == nil {
				continue
			}
			switch piece.Type {
			case Pawn, Rook, Queen:
				return false
			case Knight:
				knights++
			case Bishop:
				bishops++
				if (Position{X: x, Y: y}).Light() {
					lightBishops++
				} else {
					darkBishops++
				}
			}
		}
	}
	if bishops == 0 && knights <= 1 {
		return true
	}
	if knights == 0 && bishops > 0 {
		return lightBishops == 0 || darkBishops == 0
	}
	return false
}
