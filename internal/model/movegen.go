package model

var (
	rookDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	queenDirs  = append(append([]Position{}, rookDirs...), bishopDirs...)
	knightDirs = []Position{{X: 1, Y: 2}, {X: 2, Y: 1}, {X: -1, Y: 2}, {X: -2, Y: 1}, {X: 1, Y: -2}, {X: 2, Y: -1}, {X: -1, Y: -2}, {X: -2, Y: -1}}
	kingDirs   = queenDirs
)

// pseudoMoves generates moves for the side to move that obey piece movement
// rules but may leave the mover's own king attacked.
func pseudoMoves(state *GameState) []Move {
	moves := []Move{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := state.Board[y][x]
			if piece != nil && piece.Color == state.Turn {
				moves = append(moves, pseudoPieceMoves(state, Position{X: x, Y: y})...)
			}
		}
	}
	return moves
}

// pseudoMovesFrom generates moves for the piece on from. It is empty unless
// that piece belongs to the side to move.
func pseudoMovesFrom(state *GameState, from Position) []Move {
	piece := state.Board.At(from)
	if piece == nil || piece.Color != state.Turn {
		return []Move{}
	}
	return pseudoPieceMoves(state, from)
}

func pseudoPieceMoves(state *GameState, from Position) []Move {
	piece := state.Board.At(from)
	switch piece.Type {
	case Pawn:
		return pseudoPawnMoves(state, from, piece)
	case Knight:
		return pseudoStepMoves(state, from, piece, knightDirs)
	case Bishop:
		return pseudoSlidingMoves(state, from, piece, bishopDirs)
	case Rook:
		return pseudoSlidingMoves(state, from, piece, rookDirs)
	case Queen:
		return pseudoSlidingMoves(state, from, piece, queenDirs)
	case King:
		return append(pseudoStepMoves(state, from, piece, kingDirs), castlingMoves(state, from, piece)...)
	default:
		return []Move{}
	}
}

func pseudoPawnMoves(state *GameState, from Position, piece *Piece) []Move {
	pawnMoves := []Move{}
	dir := piece.Color.forward()
	startRow := piece.Color.homeRow() + dir

	// single and double push
	one := Position{X: from.X, Y: from.Y + dir}
	if boundaryCheck(one) && state.Board.At(one) == nil {
		pawnMoves = append(pawnMoves, pawnMove(from, one, piece.Color, nil, MoveFlags{})...)
		two := Position{X: from.X, Y: from.Y + 2*dir}
		if from.Y == startRow && state.Board.At(two) == nil {
			pawnMoves = append(pawnMoves, Move{
				From:  from,
				To:    two,
				Piece: Pawn,
				Color: piece.Color,
				Flags: MoveFlags{DoublePush: true},
			})
		}
	}

	// captures, including en passant
	for _, dx := range []int{-1, 1} {
		target := Position{X: from.X + dx, Y: from.Y + dir}
		if !boundaryCheck(target) {
			continue
		}
		occupant := state.Board.At(target)
		if occupant != nil {
			if occupant.Color != piece.Color {
				victim := *occupant
				pawnMoves = append(pawnMoves, pawnMove(from, target, piece.Color, &victim, MoveFlags{Capture: true})...)
			}
			continue
		}
		if state.EnPassant == nil || *state.EnPassant != target {
			continue
		}
		victimSquare := Position{X: target.X, Y: from.Y}
		victim := state.Board.At(victimSquare)
		if victim == nil || victim.Type != Pawn || victim.Color == piece.Color {
			continue
		}
		captured := *victim
		pawnMoves = append(pawnMoves, Move{
			From:          from,
			To:            target,
			Piece:         Pawn,
			Color:         piece.Color,
			Captured:      &captured,
			Flags:         MoveFlags{Capture: true, EnPassant: true},
			CaptureSquare: &victimSquare,
		})
	}
	return pawnMoves
}

// pawnMove expands a move onto the far rank into one move per promotion type.
func pawnMove(from, to Position, color Color, captured *Piece, flags MoveFlags) []Move {
	if to.Y != color.Opposite().homeRow() {
		return []Move{{From: from, To: to, Piece: Pawn, Color: color, Captured: captured, Flags: flags}}
	}
	flags.Promotion = true
	moves := make([]Move, 0, len(PromotionTypes))
	for _, promo := range PromotionTypes {
		moves = append(moves, Move{
			From:      from,
			To:        to,
			Piece:     Pawn,
			Color:     color,
			Captured:  copyPiece(captured),
			Promotion: promo,
			Flags:     flags,
		})
	}
	return moves
}

func pseudoStepMoves(state *GameState, from Position, piece *Piece, dirs []Position) []Move {
	stepMoves := []Move{}
	for _, dir := range dirs {
		targetPos := from.add(dir)
		if !boundaryCheck(targetPos) {
			continue
		}
		target := state.Board.At(targetPos)
		if target == nil {
			stepMoves = append(stepMoves, Move{From: from, To: targetPos, Piece: piece.Type, Color: piece.Color})
		} else if target.Color != piece.Color {
			stepMoves = append(stepMoves, Move{
				From:     from,
				To:       targetPos,
				Piece:    piece.Type,
				Color:    piece.Color,
				Captured: copyPiece(target),
				Flags:    MoveFlags{Capture: true},
			})
		}
	}
	return stepMoves
}

func pseudoSlidingMoves(state *GameState, from Position, piece *Piece, dirs []Position) []Move {
	slidingMoves := []Move{}
	for _, dir := range dirs {
		targetPos := from.add(dir)
		for boundaryCheck(targetPos) {
			target := state.Board.At(targetPos)
			if target == nil {
				slidingMoves = append(slidingMoves, Move{From: from, To: targetPos, Piece: piece.Type, Color: piece.Color})
			} else {
				if target.Color != piece.Color {
					slidingMoves = append(slidingMoves, Move{
						From:     from,
						To:       targetPos,
						Piece:    piece.Type,
						Color:    piece.Color,
						Captured: copyPiece(target),
						Flags:    MoveFlags{Capture: true},
					})
				}
				break
			}
			targetPos = targetPos.add(dir)
		}
	}
	return slidingMoves
}

// castlingMoves only yields a castle when every precondition holds: the right
// is still held, the king and rook stand on their home squares, the squares
// between them are empty and none of the king's squares is attacked.
func castlingMoves(state *GameState, from Position, piece *Piece) []Move {
	castleMoves := []Move{}
	row := piece.Color.homeRow()
	if from != (Position{X: 4, Y: row}) {
		return castleMoves
	}
	rights := state.Castling.For(piece.Color)
	enemy := piece.Color.Opposite()

	sides := []struct {
		side    CastleSide
		allowed bool
		rookX   int
		empty   []int
		path    []int
	}{
		{side: KingSide, allowed: rights.KingSide, rookX: 7, empty: []int{5, 6}, path: []int{4, 5, 6}},
		{side: QueenSide, allowed: rights.QueenSide, rookX: 0, empty: []int{1, 2, 3}, path: []int{4, 3, 2}},
	}
	for _, s := range sides {
		if !s.allowed {
			continue
		}
		rook := state.Board[row][s.rookX]
		if rook == nil || rook.Type != Rook || rook.Color != piece.Color {
			continue
		}
		clear := true
		for _, x := range s.empty {
			if state.Board[row][x] != nil {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		safe := true
		for _, x := range s.path {
			if isSquareAttacked(state, Position{X: x, Y: row}, enemy) {
				safe = false
				break
			}
		}
		if !safe {
			continue
		}
		castleMoves = append(castleMoves, Move{
			From:  from,
			To:    Position{X: s.path[len(s.path)-1], Y: row},
			Piece: King,
			Color: piece.Color,
			Flags: MoveFlags{Castle: s.side},
		})
	}
	return castleMoves
}

func copyPiece(p *Piece) *Piece {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
