package model

// isSquareAttacked reports whether any piece of attackingColor attacks
// position, regardless of whose turn it is.
func isSquareAttacked(state *GameState, position Position, attackingColor Color) bool {
	board := &state.Board
	for _, dir := range rookDirs {
		targetPos := position.add(dir)
		for boundaryCheck(targetPos) {
			if piece := board.At(targetPos); piece != nil {
				if piece.Color == attackingColor && (piece.Type == Queen || piece.Type == Rook) {
					return true
				}
				break
			}
			targetPos = targetPos.add(dir)
		}
	}
	for _, dir := range bishopDirs {
		targetPos := position.add(dir)
		for boundaryCheck(targetPos) {
			if piece := board.At(targetPos); piece != nil {
				if piece.Color == attackingColor && (piece.Type == Queen || piece.Type == Bishop) {
					return true
				}
				break
			}
			targetPos = targetPos.add(dir)
		}
	}
	for _, dir := range knightDirs {
		if piece := board.At(position.add(dir)); piece != nil && piece.Color == attackingColor && piece.Type == Knight {
			return true
		}
	}
	for _, dir := range kingDirs {
		if piece := board.At(position.add(dir)); piece != nil && piece.Color == attackingColor && piece.Type == King {
			return true
		}
	}
	// a pawn attacks diagonally forward, so look one row behind the square
	// from the attacker's point of view
	pawnRow := position.Y - attackingColor.forward()
	for _, dx := range []int{-1, 1} {
		if piece := board.At(Position{X: position.X + dx, Y: pawnRow}); piece != nil && piece.Color == attackingColor && piece.Type == Pawn {
			return true
		}
	}
	return false
}

func findKing(state *GameState, color Color) (Position, bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := state.Board[y][x]
			if piece != nil && piece.Type == King && piece.Color == color {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// isKingInCheck is false when color has no king on the board.
func isKingInCheck(state *GameState, color Color) bool {
	kingPos, ok := findKing(state, color)
	if !ok {
		return false
	}
	return isSquareAttacked(state, kingPos, color.Opposite())
}
