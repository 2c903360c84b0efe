package bot

import "github.com/benbeisheim/crimson-chess/internal/model"

var pieceValues = map[model.PieceType]float64{
	model.Pawn:   100,
	model.Knight: 305,
	model.Bishop: 315,
	model.Rook:   500,
	model.Queen:  900,
	model.King:   20000,
}

// Piece-square tables from black's point of view, indexed row*8+file with
// row 0 being rank 8. White uses the same tables reversed.
var (
	pawnTable = [64]float64{
		0, 5, 5, 0, 5, 10, 50, 0,
		0, 10, -5, 0, 5, 10, 10, 0,
		0, 10, -10, 20, 25, 5, 10, 0,
		5, 5, 10, 25, 30, 10, 5, 5,
		10, 10, 20, 30, 35, 20, 10, 10,
		15, 15, 20, 25, 25, 20, 15, 15,
		30, 30, 30, 35, 35, 30, 30, 30,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	knightTable = [64]float64{
		-30, -20, -10, -10, -10, -10, -20, -30,
		-20, -5, 0, 5, 5, 0, -5, -20,
		-10, 5, 10, 15, 15, 10, 5, -10,
		-10, 0, 15, 20, 20, 15, 0, -10,
		-10, 5, 15, 20, 20, 15, 5, -10,
		-10, 0, 10, 15, 15, 10, 0, -10,
		-20, -5, 0, 0, 0, 0, -5, -20,
		-30, -20, -10, -10, -10, -10, -20, -30,
	}
	bishopTable = [64]float64{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 10, 0, 0, 10, 0, -10,
		-10, 10, 5, 10, 10, 5, 10, -10,
		-5, 0, 10, 10, 10, 10, 0, -5,
		0, 5, 10, 10, 10, 10, 5, 0,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	}
	rookTable = [64]float64{
		0, 0, 5, 10, 10, 5, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 5, 5, 0, 0, 0,
	}
	queenTable = [64]float64{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 5, 0, -10,
		-10, 5, 5, 5, 5, 5, 5, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 5, -10,
		-10, 0, 5, 0, 0, 5, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	}
	kingTable = [64]float64{
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	}
)

type pieceSquareTables map[model.Color]map[model.PieceType][64]float64

func mirror(table [64]float64) [64]float64 {
	var out [64]float64
	for i, v := range table {
		out[63-i] = v
	}
	return out
}

func newPieceSquareTables() pieceSquareTables {
	black := map[model.PieceType][64]float64{
		model.Pawn:   pawnTable,
		model.Knight: knightTable,
		model.Bishop: bishopTable,
		model.Rook:   rookTable,
		model.Queen:  queenTable,
		model.King:   kingTable,
	}
	white := make(map[model.PieceType][64]float64, len(black))
	for pt, table := range black {
		white[pt] = mirror(table)
	}
	return pieceSquareTables{model.White: white, model.Black: black}
}

// Evaluator scores a board statically in centipawns from one color's point
// of view: material plus a weighted piece-square bonus, own pieces positive.
type Evaluator struct {
	color            model.Color
	tables           pieceSquareTables
	positionalWeight float64
}

func NewEvaluator(color model.Color, positionalWeight float64) *Evaluator {
	return &Evaluator{
		color:            color,
		tables:           newPieceSquareTables(),
		positionalWeight: positionalWeight,
	}
}

func (e *Evaluator) Evaluate(board model.Board) float64 {
	total := 0.0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := board[y][x]
			if piece == nil {
				continue
			}
			value := pieceValues[piece.Type] + e.tables[piece.Color][piece.Type][y*8+x]*e.positionalWeight
			if piece.Color == e.color {
				total += value
			} else {
				total -= value
			}
		}
	}
	return total
}

// PieceValue returns the material value of a piece type.
func PieceValue(pt model.PieceType) float64 {
	return pieceValues[pt]
}
