package model

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/notnil/chess"
)

// TestLegalMovesMatchReferenceGenerator plays seeded random games and checks
// at every ply that the engine offers exactly the moves an independent
// generator offers.
func TestLegalMovesMatchReferenceGenerator(t *testing.T) {
	rng := rand.New(rand.NewSource(20240611))
	notation := chess.UCINotation{}

	for game := 0; game < 8; game++ {
		g := NewGame()
		ref := chess.NewGame(chess.UseNotation(notation))

		for ply := 0; ply < 120; ply++ {
			ours := g.LegalMoves()
			oursUCI := make([]string, 0, len(ours))
			for _, m := range ours {
				oursUCI = append(oursUCI, m.UCI())
			}
			theirs := ref.ValidMoves()
			theirsUCI := make([]string, 0, len(theirs))
			for _, m := range theirs {
				theirsUCI = append(theirsUCI, notation.Encode(ref.Position(), m))
			}
			sort.Strings(oursUCI)
			sort.Strings(theirsUCI)

			if len(oursUCI) != len(theirsUCI) {
				t.Fatalf("game %d ply %d: %d moves, reference has %d\nours   %v\ntheirs %v",
					game, ply, len(oursUCI), len(theirsUCI), oursUCI, theirsUCI)
			}
			for i := range oursUCI {
				if oursUCI[i] != theirsUCI[i] {
					t.Fatalf("game %d ply %d: move sets differ\nours   %v\ntheirs %v", game, ply, oursUCI, theirsUCI)
				}
			}
			if len(ours) == 0 {
				break
			}

			m := ours[rng.Intn(len(ours))]
			record, err := g.MakeMove(requestFor(m))
			if err != nil {
				t.Fatalf("game %d ply %d: %s rejected: %v", game, ply, m.UCI(), err)
			}
			if err := ref.MoveStr(m.UCI()); err != nil {
				t.Fatalf("game %d ply %d: reference rejected %s: %v", game, ply, m.UCI(), err)
			}
			if record.Checkmate != (ref.Method() == chess.Checkmate) {
				t.Fatalf("game %d ply %d: checkmate flag %v disagrees with reference", game, ply, record.Checkmate)
			}
			if record.Terminal() || ref.Outcome() != chess.NoOutcome {
				break
			}
		}
	}
}
