package service

import (
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/crimson-chess/internal/bot"
	"github.com/benbeisheim/crimson-chess/internal/model"
)

func newTestService(t *testing.T) (*GameService, *GameManager) {
	t.Helper()
	store := openStore(t)
	gm := NewGameManager(store)
	t.Cleanup(gm.Close)
	gs := NewGameService(gm, store, Defaults{
		Bot:      bot.DefaultConfig(),
		BotDelay: time.Hour,
	})
	return gs, gm
}

func TestCreateGame(t *testing.T) {
	gs, gm := newTestService(t)

	tests := []struct {
		name    string
		color   string
		want    model.Color
		wantErr error
	}{
		{name: "default", color: "", want: model.White},
		{name: "white", color: "white", want: model.White},
		{name: "black", color: "Black", want: model.Black},
		{name: "purple", color: "purple", wantErr: ErrInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := gs.CreateGame(owner, CreateGameRequest{Color: tt.color})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if session.HumanColor() != tt.want {
				t.Errorf("human color = %s, want %s", session.HumanColor(), tt.want)
			}
			if _, err := gm.GetGame(session.ID); err != nil {
				t.Errorf("created game not registered: %v", err)
			}
		})
	}

	random, err := gs.CreateGame(owner, CreateGameRequest{Color: "random"})
	if err != nil || !random.HumanColor().Valid() {
		t.Fatalf("random color: %v, %v", random, err)
	}
	if got := len(gm.GamesOf(owner)); got != 4 {
		t.Errorf("owner has %d games, want 4", got)
	}
}

func TestCreateGameBotOverrides(t *testing.T) {
	gs, _ := newTestService(t)
	randomness, aggression := 0.0, 2.5
	session, err := gs.CreateGame(owner, CreateGameRequest{Randomness: &randomness, Aggression: &aggression})
	if err != nil {
		t.Fatal(err)
	}
	cfg := session.bot.Config()
	if cfg.Randomness != 0 || cfg.Aggression != 2.5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.SoftMargin != bot.DefaultConfig().SoftMargin {
		t.Errorf("defaults lost")
	}

	negative := -1.0
	if _, err := gs.CreateGame(owner, CreateGameRequest{Randomness: &negative}); err == nil {
		t.Errorf("negative randomness accepted")
	}
}

func TestServiceUnknownGame(t *testing.T) {
	gs, _ := newTestService(t)

	if _, err := gs.GetGameState("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGameState: %v", err)
	}
	if _, err := gs.HandleMove("missing", owner, move("e2", "e4")); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("HandleMove: %v", err)
	}
	if _, err := gs.Undo("missing", owner); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Undo: %v", err)
	}
	if err := gs.DeleteGame("missing", owner); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("DeleteGame: %v", err)
	}
}

func TestDeleteGame(t *testing.T) {
	gs, gm := newTestService(t)
	session, err := gs.CreateGame(owner, CreateGameRequest{})
	if err != nil {
		t.Fatal(err)
	}

	if err := gs.DeleteGame(session.ID, "intruder"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("stranger deleted the game: %v", err)
	}
	if err := gs.DeleteGame(session.ID, owner); err != nil {
		t.Fatal(err)
	}
	if _, err := gm.GetGame(session.ID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("deleted game still registered")
	}
	if _, err := session.HumanMove(owner, move("e2", "e4")); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("deleted session accepted a move: %v", err)
	}
}

func TestServicePlaysThrough(t *testing.T) {
	gs, _ := newTestService(t)
	session, err := gs.CreateGame(owner, CreateGameRequest{Color: "white"})
	if err != nil {
		t.Fatal(err)
	}

	result, err := gs.HandleMove(session.ID, owner, move("e2", "e4"))
	if err != nil {
		t.Fatal(err)
	}
	if result.State.ToMove != model.Black || !result.State.Thinking {
		t.Fatalf("bot should be on move: %+v", result.State)
	}
	moves, err := gs.LegalMoves(session.ID, "e4")
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 0 {
		t.Errorf("white pawn listed moves on black's turn")
	}
	snapshot, err := gs.Undo(session.ID, owner)
	if err != nil {
		t.Fatal(err)
	}
	if plies(snapshot) != 0 {
		t.Errorf("undo left %d plies", plies(snapshot))
	}

	stats, err := gs.Stats(owner)
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 0 {
		t.Errorf("unfinished game counted")
	}
}

func TestGroupMoves(t *testing.T) {
	g := gameFrom(t, "4k3/8/8/8/8/8/4P3/4K3", model.Black)
	// history starting with black's move opens a line with no white move
	for _, uci := range []string{"e8d8", "e2e4", "d8e8"} {
		req, _ := model.ParseMoveRequest(uci)
		if _, err := g.MakeMove(req); err != nil {
			t.Fatal(err)
		}
	}
	pairs := groupMoves(g.History())
	if len(pairs) != 2 {
		t.Fatalf("got %d lines, want 2", len(pairs))
	}
	if pairs[0].White != nil || pairs[0].Black == nil {
		t.Errorf("first line should hold only black's move")
	}
	if pairs[1].White == nil || pairs[1].Black == nil || pairs[1].Number != pairs[0].Number+1 {
		t.Errorf("second line = %+v", pairs[1])
	}
}

func TestSoundFor(t *testing.T) {
	tests := []struct {
		name   string
		record *model.MoveRecord
		want   Sound
	}{
		{"none", nil, SoundNone},
		{"quiet", &model.MoveRecord{}, SoundMove},
		{"capture", &model.MoveRecord{Move: model.Move{Flags: model.MoveFlags{Capture: true}}}, SoundCapture},
		{"check", &model.MoveRecord{Check: true, Move: model.Move{Flags: model.MoveFlags{Capture: true}}}, SoundCheck},
		{"win", &model.MoveRecord{Checkmate: true, Move: model.Move{Color: model.White}}, SoundWin},
		{"defeat", &model.MoveRecord{Checkmate: true, Move: model.Move{Color: model.Black}}, SoundDefeat},
		{"draw", &model.MoveRecord{Draw: true, DrawReason: model.DrawFiftyMove}, SoundDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := soundFor(tt.record, model.White); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommentaryFor(t *testing.T) {
	capture := model.Move{Flags: model.MoveFlags{Capture: true}}
	tests := []struct {
		name     string
		record   *model.MoveRecord
		thinking bool
		want     Commentary
	}{
		{"start", nil, false, CommentaryStart},
		{"bot opening", nil, true, CommentaryThinking},
		{"player move", &model.MoveRecord{Move: model.Move{Color: model.White}}, true, CommentaryPlayerMove},
		{"player capture", &model.MoveRecord{Move: model.Move{Color: model.White, Flags: capture.Flags}}, true, CommentaryPlayerCapture},
		{"player check", &model.MoveRecord{Check: true, Move: model.Move{Color: model.White, Flags: capture.Flags}}, true, CommentaryPlayerCheck},
		{"bot move", &model.MoveRecord{Move: model.Move{Color: model.Black}}, false, CommentaryNeutral},
		{"bot capture", &model.MoveRecord{Move: model.Move{Color: model.Black, Flags: capture.Flags}}, false, CommentaryCapture},
		{"bot check", &model.MoveRecord{Check: true, Move: model.Move{Color: model.Black}}, false, CommentaryCheck},
		{"victory", &model.MoveRecord{Checkmate: true, Check: true, Move: model.Move{Color: model.White}}, false, CommentaryVictory},
		{"defeat", &model.MoveRecord{Checkmate: true, Check: true, Move: model.Move{Color: model.Black}}, false, CommentaryDefeat},
		{"stalemate", &model.MoveRecord{Stalemate: true, Move: model.Move{Color: model.Black}}, false, CommentaryDraw},
		{"fifty moves", &model.MoveRecord{Draw: true, DrawReason: model.DrawFiftyMove, Move: model.Move{Color: model.White}}, false, CommentaryDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commentaryFor(tt.record, model.White, tt.thinking); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommentaryFollowsTheGame(t *testing.T) {
	gs, _ := newTestService(t)
	session, err := gs.CreateGame(owner, CreateGameRequest{Color: "white"})
	if err != nil {
		t.Fatal(err)
	}
	if got := session.Snapshot().Commentary; got != CommentaryStart {
		t.Errorf("new game commentary = %q", got)
	}
	result, err := gs.HandleMove(session.ID, owner, move("e2", "e4"))
	if err != nil {
		t.Fatal(err)
	}
	if result.State.Commentary != CommentaryPlayerMove || !result.State.Thinking {
		t.Errorf("after e4: commentary %q thinking %v", result.State.Commentary, result.State.Thinking)
	}
}

func TestClock(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewClock()
	c.now = func() time.Time { return now }

	c.Start()
	now = now.Add(3 * time.Second)
	if c.Spent() != 3*time.Second {
		t.Fatalf("running clock spent %v", c.Spent())
	}
	c.Stop()
	now = now.Add(time.Minute)
	if c.Spent() != 3*time.Second || c.Running() {
		t.Fatalf("stopped clock kept counting: %v", c.Spent())
	}
	c.Start()
	now = now.Add(2 * time.Second)
	c.Stop()
	if c.Spent() != 5*time.Second {
		t.Fatalf("spent %v, want 5s", c.Spent())
	}
	c.Reset()
	if c.Spent() != 0 {
		t.Fatalf("reset clock spent %v", c.Spent())
	}
}
