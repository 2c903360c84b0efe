package bot

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/benbeisheim/crimson-chess/internal/model"
)

// gameFrom builds a game from a board diagram, rank 8 first, upper case
// for white.
func gameFrom(t *testing.T, placement string, turn model.Color) *model.Game {
	t.Helper()
	return model.NewGameFromState(stateFrom(t, placement, turn))
}

func stateFrom(t *testing.T, placement string, turn model.Color) model.GameState {
	t.Helper()
	state := model.NewEmptyState()
	state.Turn = turn
	for y, row := range strings.Split(placement, "/") {
		x := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				x += int(ch - '0')
				continue
			}
			pt, ok := model.ParsePieceType(string(ch))
			if !ok {
				t.Fatalf("bad piece %q", ch)
			}
			color := model.Black
			if ch >= 'A' && ch <= 'Z' {
				color = model.White
			}
			state.Board[y][x] = &model.Piece{Type: pt, Color: color}
			x++
		}
	}
	return state
}

func seeded(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func TestChooseMoveNotOurTurn(t *testing.T) {
	g := model.NewGame()
	b := New(g, model.Black, DefaultConfig(), seeded(1))
	if _, ok := b.ChooseMove(); ok {
		t.Fatalf("black bot moved on white's turn")
	}
}

func TestChooseMoveNoLegalMoves(t *testing.T) {
	// black king h8 is stalemated
	g := gameFrom(t, "7k/8/5KQ1/8/8/8/8/8", model.Black)
	b := New(g, model.Black, DefaultConfig(), seeded(1))
	if m, ok := b.ChooseMove(); ok {
		t.Fatalf("bot returned %s with no legal moves", m.UCI())
	}
}

func TestChooseMoveReturnsLegalMoveAndRestoresGame(t *testing.T) {
	g := model.NewGame()
	if _, err := g.MakeMove(model.MoveRequest{From: "e2", To: "e4"}); err != nil {
		t.Fatal(err)
	}
	before := g.State()
	historyLen := len(g.History())

	b := New(g, model.Black, DefaultConfig(), seeded(42))
	m, ok := b.ChooseMove()
	if !ok {
		t.Fatalf("bot found no move")
	}
	after := g.State()
	if !before.Equal(&after) || len(g.History()) != historyLen {
		t.Fatalf("ChooseMove left the game changed")
	}
	legal := false
	for _, lm := range g.LegalMoves() {
		if lm.UCI() == m.UCI() {
			legal = true
		}
	}
	if !legal {
		t.Fatalf("bot chose illegal move %s", m.UCI())
	}
}

func TestBotAlwaysTakesMateInOne(t *testing.T) {
	// Black to move: Ra1 is the only mate against the boxed-in white king.
	placement := "r5k1/5ppp/8/8/8/8/5PPP/6K1"
	for seed := int64(0); seed < 25; seed++ {
		g := gameFrom(t, placement, model.Black)
		cfg := DefaultConfig()
		cfg.Randomness = 1
		cfg.Aggression = 3
		b := New(g, model.Black, cfg, seeded(seed))
		m, ok := b.ChooseMove()
		if !ok {
			t.Fatalf("seed %d: no move", seed)
		}
		if m.UCI() != "a8a1" {
			t.Fatalf("seed %d: chose %s instead of mate", seed, m.UCI())
		}
	}
}

func TestBotPlaysForWhite(t *testing.T) {
	placement := "6k1/5ppp/8/8/8/8/5PPP/R5K1"
	g := gameFrom(t, placement, model.White)
	b := New(g, model.White, DefaultConfig(), seeded(3))
	m, ok := b.ChooseMove()
	if !ok || m.UCI() != "a1a8" {
		t.Fatalf("white bot chose %v, %v; want a1a8", m.UCI(), ok)
	}
}

func TestBotTakesHangingQueenWithoutNoise(t *testing.T) {
	// white queen on d5 is undefended and attacked by the e6 pawn
	g := gameFrom(t, "4k3/8/4p3/3Q4/8/8/8/4K3", model.Black)
	cfg := DefaultConfig()
	cfg.Randomness = 0
	b := New(g, model.Black, cfg, seeded(9))
	m, ok := b.ChooseMove()
	if !ok || m.UCI() != "e6d5" {
		t.Fatalf("bot chose %v, %v; want e6d5", m.UCI(), ok)
	}
}

func TestScoreMovesSortedBestFirst(t *testing.T) {
	g := model.NewGame()
	b := New(g, model.White, DefaultConfig(), seeded(5))
	scored := b.ScoreMoves()
	if len(scored) != 20 {
		t.Fatalf("scored %d moves, want 20", len(scored))
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[i-1].Score {
			t.Fatalf("scores not descending at %d", i)
		}
	}
}

func TestSameSeedSameChoice(t *testing.T) {
	choose := func() string {
		g := model.NewGame()
		b := New(g, model.White, DefaultConfig(), seeded(77))
		m, _ := b.ChooseMove()
		return m.UCI()
	}
	first := choose()
	for i := 0; i < 5; i++ {
		if got := choose(); got != first {
			t.Fatalf("seeded bot chose %s then %s", first, got)
		}
	}
}

func TestEvaluatorPerspective(t *testing.T) {
	g := gameFrom(t, "4k3/8/8/8/8/8/8/3QK3", model.White)
	board := g.ExportBoard()
	white := NewEvaluator(model.White, 0.6).Evaluate(board)
	black := NewEvaluator(model.Black, 0.6).Evaluate(board)
	if white <= 0 {
		t.Fatalf("white evaluation %v should favour the side with the queen", white)
	}
	if white != -black {
		t.Fatalf("evaluations are not opposite: %v vs %v", white, black)
	}
}

func TestMirroredTables(t *testing.T) {
	tables := newPieceSquareTables()
	// a black pawn about to promote and a white pawn about to promote see the
	// same bonus
	if tables[model.Black][model.Pawn][6*8+3] != tables[model.White][model.Pawn][63-(6*8+3)] {
		t.Fatalf("white table is not the mirror of the black table")
	}
}

// scoreOf scores uci in a fresh game built by newGame.
func scoreOf(t *testing.T, newGame func() *model.Game, color model.Color, cfg Config, uci string) float64 {
	t.Helper()
	b := New(newGame(), color, cfg, seeded(1))
	for _, s := range b.ScoreMoves() {
		if s.Move.UCI() == uci {
			return s.Score
		}
	}
	t.Fatalf("%s is not a legal move", uci)
	return 0
}

func TestScoreBonuses(t *testing.T) {
	castling := func() *model.Game {
		state := stateFrom(t, "4k3/8/8/8/8/8/8/4K2R", model.White)
		state.Castling.White.KingSide = true
		return model.NewGameFromState(state)
	}
	fromPlacement := func(placement string) func() *model.Game {
		return func() *model.Game { return gameFrom(t, placement, model.White) }
	}
	rookCheck := fromPlacement("4k3/8/8/8/8/8/8/R3K3")
	// Kxd2 leaves bare kings
	kingTakesRook := fromPlacement("4k3/8/8/8/8/8/3r4/4K3")
	pawnTakesRook := fromPlacement("4k3/8/8/8/8/3r4/4P3/4K3")

	tests := []struct {
		name    string
		game    func() *model.Game
		uci     string
		tune    func(*Config)
		without func(*Config)
		want    float64
	}{
		{"castle", castling, "e1g1", nil, func(c *Config) { c.CastleBonus = 0 }, 15},
		{"rook lift earns no castle bonus", castling, "h1f1", nil, func(c *Config) { c.CastleBonus = 0 }, 0},
		{"check", rookCheck, "a1a8", nil, func(c *Config) { c.CheckBonus = 0 }, 35 * 1.1},
		{"check with aggression 2", rookCheck, "a1a8", func(c *Config) { c.Aggression = 2 }, func(c *Config) { c.CheckBonus = 0 }, 70},
		{"quiet move earns no check bonus", rookCheck, "a1a2", nil, func(c *Config) { c.CheckBonus = 0 }, 0},
		{"draw", kingTakesRook, "e1d2", nil, func(c *Config) { c.DrawPenalty = 0 }, -120},
		{"non-pawn capture", kingTakesRook, "e1d2", nil, func(c *Config) { c.NonPawnCaptureBonus = 0 }, 25},
		{"pawn capture earns no non-pawn bonus", pawnTakesRook, "e2d3", nil, func(c *Config) { c.NonPawnCaptureBonus = 0 }, 0},
		{"captured value", pawnTakesRook, "e2d3", nil, func(c *Config) { c.CaptureWeight = 0 }, 500 * 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Randomness = 0
			if tt.tune != nil {
				tt.tune(&cfg)
			}
			with := scoreOf(t, tt.game, model.White, cfg, tt.uci)
			tt.without(&cfg)
			without := scoreOf(t, tt.game, model.White, cfg, tt.uci)
			if got := with - without; math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("%s: bonus %.2f, want %.2f (scores %.2f and %.2f)", tt.uci, got, tt.want, with, without)
			}
		})
	}
}

func TestCheckmateScoresInfinite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Randomness = 0
	game := func() *model.Game { return gameFrom(t, "r5k1/5ppp/8/8/8/8/5PPP/6K1", model.Black) }
	if got := scoreOf(t, game, model.Black, cfg, "a8a1"); !math.IsInf(got, 1) {
		t.Fatalf("mate scored %v", got)
	}
}

// fixedRand returns mid-range noise and picks the last candidate offered.
type fixedRand struct {
	offered []int
}

func (r *fixedRand) Float64() float64 { return 0.5 }

func (r *fixedRand) Intn(n int) int {
	r.offered = append(r.offered, n)
	return n - 1
}

func TestChooseMoveSoftMargin(t *testing.T) {
	// e6xd5 wins the queen; nothing else comes within 140 of it
	const placement = "4k3/8/4p3/3Q4/8/8/8/4K3"

	tests := []struct {
		name       string
		margin     float64
		candidates func(all int) int
	}{
		{"default margin", 140, func(int) int { return 1 }},
		{"no margin", 0, func(int) int { return 1 }},
		{"everything within margin", 1e6, func(all int) int { return all }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SoftMargin = tt.margin
			rng := &fixedRand{}
			b := New(gameFrom(t, placement, model.Black), model.Black, cfg, WithRand(rng))
			scored := b.ScoreMoves()
			best := scored[0].Score

			m, ok := b.ChooseMove()
			if !ok {
				t.Fatal("no move")
			}
			if len(rng.offered) != 1 {
				t.Fatalf("Intn called %d times", len(rng.offered))
			}
			if want := tt.candidates(len(scored)); rng.offered[0] != want {
				t.Fatalf("offered %d candidates, want %d", rng.offered[0], want)
			}
			var chosen float64
			for _, s := range scored {
				if s.Move.UCI() == m.UCI() {
					chosen = s.Score
				}
			}
			if chosen < best-tt.margin {
				t.Errorf("chose %s at %.1f, more than %.0f below best %.1f", m.UCI(), chosen, tt.margin, best)
			}
			if tt.margin == 140 && m.UCI() != "e6d5" {
				t.Errorf("chose %s, want e6d5", m.UCI())
			}
			if tt.margin == 1e6 && m.UCI() == "e6d5" {
				t.Errorf("the worst move was offered but the best was chosen")
			}
		})
	}
}
