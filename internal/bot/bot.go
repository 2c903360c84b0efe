// Package bot picks moves for one side by scoring every legal move one ply
// deep and choosing at random among the near-best.
package bot

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/benbeisheim/crimson-chess/internal/model"
)

// Engine is the part of the rules engine the bot drives. The bot only makes
// and takes back moves through it and never touches the board directly.
type Engine interface {
	Turn() model.Color
	Pieces(color model.Color) []model.PlacedPiece
	MovesFrom(square string) []model.Move
	MakeMove(req model.MoveRequest) (*model.MoveRecord, error)
	Undo() *model.MoveRecord
	ExportBoard() model.Board
}

// Rand is the random source used for noise and tie-breaking. *rand.Rand
// satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type Config struct {
	// Randomness scales the uniform noise added to each score, roughly 0..1.
	Randomness float64 `json:"randomness"`
	// Aggression multiplies the bonus for giving check.
	Aggression float64 `json:"aggression"`

	CaptureWeight       float64 `json:"captureWeight"`
	NonPawnCaptureBonus float64 `json:"nonPawnCaptureBonus"`
	CheckBonus          float64 `json:"checkBonus"`
	DrawPenalty         float64 `json:"drawPenalty"`
	CastleBonus         float64 `json:"castleBonus"`
	NoiseScale          float64 `json:"noiseScale"`
	PositionalWeight    float64 `json:"positionalWeight"`
	// SoftMargin is how far below the best score a move may be and still be
	// picked.
	SoftMargin float64 `json:"softMargin"`
}

func DefaultConfig() Config {
	return Config{
		Randomness:          0.35,
		Aggression:          1.1,
		CaptureWeight:       0.9,
		NonPawnCaptureBonus: 25,
		CheckBonus:          35,
		DrawPenalty:         120,
		CastleBonus:         15,
		NoiseScale:          120,
		PositionalWeight:    0.6,
		SoftMargin:          140,
	}
}

type Option func(*Bot)

// WithRand replaces the time-seeded random source.
func WithRand(r Rand) Option {
	return func(b *Bot) {
		b.rng = r
	}
}

type Bot struct {
	game      Engine
	color     model.Color
	config    Config
	evaluator *Evaluator
	rng       Rand
}

func New(game Engine, color model.Color, config Config, opts ...Option) *Bot {
	b := &Bot{
		game:      game,
		color:     color,
		config:    config,
		evaluator: NewEvaluator(color, config.PositionalWeight),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bot) Color() model.Color {
	return b.color
}

func (b *Bot) Config() Config {
	return b.config
}

type ScoredMove struct {
	Move  model.Move `json:"move"`
	Score float64    `json:"score"`
}

// ChooseMove returns a legal move for the bot's color, or false when it is
// not the bot's turn or there is no legal move. The engine is left exactly as
// it was found.
func (b *Bot) ChooseMove() (model.Move, bool) {
	if b.game.Turn() != b.color {
		return model.Move{}, false
	}
	scored := b.ScoreMoves()
	if len(scored) == 0 {
		return model.Move{}, false
	}

	best := scored[0].Score
	candidates := []ScoredMove{}
	for _, s := range scored {
		if s.Score >= best-b.config.SoftMargin {
			candidates = append(candidates, s)
		}
	}
	return candidates[b.rng.Intn(len(candidates))].Move, true
}

// ScoreMoves scores every legal move for the bot's color, best first.
func (b *Bot) ScoreMoves() []ScoredMove {
	moves := b.collectLegalMoves()
	scored := make([]ScoredMove, 0, len(moves))
	for _, move := range moves {
		scored = append(scored, ScoredMove{Move: move, Score: b.scoreMove(move)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func (b *Bot) collectLegalMoves() []model.Move {
	moves := []model.Move{}
	for _, placed := range b.game.Pieces(b.color) {
		moves = append(moves, b.game.MovesFrom(placed.Square.String())...)
	}
	return moves
}

// scoreMove plays move, scores the resulting position and takes it back.
func (b *Bot) scoreMove(move model.Move) float64 {
	record, err := b.game.MakeMove(model.MoveRequest{
		From:      move.From.String(),
		To:        move.To.String(),
		Promotion: move.Promotion,
	})
	if err != nil {
		return math.Inf(-1)
	}
	defer b.game.Undo()

	score := b.evaluator.Evaluate(b.game.ExportBoard())
	if record.Checkmate {
		score = math.Inf(1)
	} else {
		if record.CapturedPiece != nil {
			score += pieceValues[record.CapturedPiece.Type] * b.config.CaptureWeight
		}
		if record.Flags.Capture && record.Piece != model.Pawn {
			score += b.config.NonPawnCaptureBonus
		}
		if record.Check {
			score += b.config.CheckBonus * b.config.Aggression
		}
		if record.Draw {
			score -= b.config.DrawPenalty
		}
		if record.Flags.Castle != "" {
			score += b.config.CastleBonus
		}
	}
	return score + (b.rng.Float64()-0.5)*b.config.Randomness*b.config.NoiseScale
}
