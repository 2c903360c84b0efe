package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/benbeisheim/crimson-chess/internal/bot"
	"github.com/benbeisheim/crimson-chess/internal/model"
	"github.com/benbeisheim/crimson-chess/internal/storage"
	"github.com/benbeisheim/crimson-chess/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// ResultRecorder receives one result per finished game.
type ResultRecorder interface {
	RecordResult(playerID string, result storage.Result) error
}

// Options configure a new session.
type Options struct {
	HumanColor model.Color
	Bot        bot.Config
	// The bot replies after BotDelay plus a uniform share of BotJitter.
	BotDelay  time.Duration
	BotJitter time.Duration
	// Rand drives the bot and the reply jitter. It is only used under the
	// session lock.
	Rand bot.Rand
}

// MoveResult is returned for an accepted human move.
type MoveResult struct {
	Move  *model.MoveRecord `json:"move"`
	State Snapshot          `json:"state"`
}

// Session is one game between its owner and the bot.
type Session struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time

	mu        sync.Mutex
	game      *model.Game
	bot       *bot.Bot
	human     model.Color
	opts      Options
	rng       bot.Rand
	timer     *time.Timer
	botGen    uint64
	thinking  bool
	recorded  bool
	closed    bool
	version   int
	startedAt time.Time
	clocks    map[model.Color]*Clock
	conns     *connections
	results   ResultRecorder
}

func newSession(id, ownerID string, opts Options, results ResultRecorder) *Session {
	return newSessionWithGame(id, ownerID, opts, results, model.NewGame())
}

func newSessionWithGame(id, ownerID string, opts Options, results ResultRecorder, game *model.Game) *Session {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Session{
		ID:        id,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		game:      game,
		bot:       bot.New(game, opts.HumanColor.Opposite(), opts.Bot, bot.WithRand(rng)),
		human:     opts.HumanColor,
		opts:      opts,
		rng:       rng,
		clocks: map[model.Color]*Clock{
			model.White: NewClock(),
			model.Black: NewClock(),
		},
		conns:   newConnections(),
		results: results,
	}

	s.mu.Lock()
	s.startLocked()
	s.mu.Unlock()
	return s
}

func (s *Session) HumanColor() model.Color {
	return s.human
}

// HumanMove plays req for the owner and, unless the game ended, schedules
// the bot's reply.
func (s *Session) HumanMove(playerID string, req model.MoveRequest) (*MoveResult, error) {
	s.mu.Lock()
	record, err := s.humanMoveLocked(playerID, req)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.conns.broadcast(snapshot)
	return &MoveResult{Move: record, State: snapshot}, nil
}

func (s *Session) humanMoveLocked(playerID string, req model.MoveRequest) (*model.MoveRecord, error) {
	if err := s.checkLocked(playerID); err != nil {
		return nil, err
	}
	if s.overLocked() {
		return nil, ErrGameOver
	}
	if s.game.Turn() != s.human {
		return nil, ErrNotYourTurn
	}

	record, err := s.commitLocked(req)
	if err != nil {
		return nil, fmt.Errorf("%s-%s: %w", req.From, req.To, err)
	}
	if !record.Terminal() {
		s.scheduleBotLocked()
	}
	return record, nil
}

// Undo takes back moves until it is the human's turn again, normally the
// bot's reply and the human move before it.
func (s *Session) Undo(playerID string) (Snapshot, error) {
	s.mu.Lock()
	if err := s.undoLocked(playerID); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.conns.broadcast(snapshot)
	return snapshot, nil
}

func (s *Session) undoLocked(playerID string) error {
	if err := s.checkLocked(playerID); err != nil {
		return err
	}
	humanMoved := false
	for _, record := range s.game.History() {
		if record.Color == s.human {
			humanMoved = true
			break
		}
	}
	if !humanMoved {
		return ErrNothingToUndo
	}

	s.cancelBotLocked()
	for {
		record := s.game.Undo()
		if record == nil || s.game.Turn() == s.human {
			break
		}
	}
	s.version++
	s.switchClocksLocked()
	log.Debugf("game %s: undo, %d moves left", s.ID, len(s.game.History()))
	return nil
}

// Reset starts a new game in the same session with the same colors.
func (s *Session) Reset(playerID string) (Snapshot, error) {
	s.mu.Lock()
	if err := s.checkLocked(playerID); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.cancelBotLocked()
	s.game.Reset()
	s.recorded = false
	for _, clock := range s.clocks {
		clock.Reset()
	}
	s.startLocked()
	s.version++
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	log.Infof("game %s: reset", s.ID)
	s.conns.broadcast(snapshot)
	return snapshot, nil
}

// LegalMoves lists the moves of the side to move, all of them or only
// those from square.
func (s *Session) LegalMoves(square string) ([]model.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if square == "" {
		return s.game.LegalMoves(), nil
	}
	if _, ok := model.ParseSquare(square); !ok {
		return nil, fmt.Errorf("%q: %w", square, ErrInvalidSquare)
	}
	return s.game.MovesFrom(square), nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) RegisterConnection(playerID string, conn Conn) error {
	return s.conns.register(playerID, conn, s.Snapshot)
}

func (s *Session) UnregisterConnection(playerID string, conn Conn) {
	s.conns.unregister(playerID, conn)
}

// Send writes msg to the player's socket, if it has one.
func (s *Session) Send(playerID string, msg ws.Message) error {
	return s.conns.send(playerID, msg)
}

// Close stops the bot and drops every socket. A closed session refuses
// further changes.
func (s *Session) Close() {
	s.mu.Lock()
	s.cancelBotLocked()
	s.closed = true
	s.mu.Unlock()

	s.conns.closeAll()
}

func (s *Session) checkLocked(playerID string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if playerID != s.OwnerID {
		return ErrNotOwner
	}
	return nil
}

func (s *Session) overLocked() bool {
	last := s.game.LastMove()
	return last != nil && last.Terminal()
}

// startLocked starts the clock of the side to move and lets the bot open
// when it has white.
func (s *Session) startLocked() {
	s.startedAt = time.Now()
	s.clocks[s.game.Turn()].Start()
	s.scheduleBotLocked()
}

func (s *Session) switchClocksLocked() {
	for _, clock := range s.clocks {
		clock.Stop()
	}
	if !s.overLocked() {
		s.clocks[s.game.Turn()].Start()
	}
}

// commitLocked makes a move for whichever side is to move.
func (s *Session) commitLocked(req model.MoveRequest) (*model.MoveRecord, error) {
	record, err := s.game.MakeMove(req)
	if err != nil {
		return nil, err
	}
	s.version++
	s.switchClocksLocked()
	if record.Terminal() {
		s.finishLocked(record)
	}
	return record, nil
}

func (s *Session) finishLocked(last *model.MoveRecord) {
	s.cancelBotLocked()
	result := resultOf(last)
	log.Infof("game %s: finished, %s", s.ID, result.Reason)
	if s.recorded || s.results == nil {
		return
	}
	s.recorded = true

	outcome := storage.OutcomeDraw
	if result.Winner != nil {
		outcome = storage.OutcomeLoss
		if *result.Winner == s.human {
			outcome = storage.OutcomeWin
		}
	}
	err := s.results.RecordResult(s.OwnerID, storage.Result{
		Outcome:  outcome,
		Reason:   result.Reason,
		Moves:    len(s.game.History()),
		Duration: time.Since(s.startedAt),
	})
	if err != nil {
		log.Warnf("game %s: record result: %v", s.ID, err)
	}
}

func (s *Session) scheduleBotLocked() {
	s.cancelBotLocked()
	if s.closed || s.overLocked() || s.game.Turn() == s.human {
		return
	}

	delay := s.opts.BotDelay
	if s.opts.BotJitter > 0 {
		delay += time.Duration(s.rng.Float64() * float64(s.opts.BotJitter))
	}
	s.thinking = true
	gen := s.botGen
	s.timer = time.AfterFunc(delay, func() {
		s.playBotMove(gen)
	})
}

// cancelBotLocked stops a pending reply. A timer that already fired sees
// the bumped generation and does nothing.
func (s *Session) cancelBotLocked() {
	s.botGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.thinking = false
}

func (s *Session) playBotMove(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.botGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.thinking = false

	move, ok := s.bot.ChooseMove()
	if !ok {
		s.mu.Unlock()
		return
	}
	record, err := s.commitLocked(model.MoveRequest{
		From:      move.From.String(),
		To:        move.To.String(),
		Promotion: move.Promotion,
	})
	if err != nil {
		s.mu.Unlock()
		log.Errorf("game %s: bot move %s rejected: %v", s.ID, move.UCI(), err)
		return
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	log.Debugf("game %s: bot played %s", s.ID, record.Notation)
	s.conns.broadcast(snapshot)
}

func (s *Session) snapshotLocked() Snapshot {
	state := s.game.State()
	history := s.game.History()
	last := s.game.LastMove()

	snapshot := Snapshot{
		ID:              s.ID,
		Version:         s.version,
		Board:           state.Board,
		ToMove:          state.Turn,
		HumanColor:      s.human,
		Status:          s.game.Status(),
		IsCheck:         s.game.InCheck(),
		CheckSquare:     checkSquare(s.game),
		EnPassantTarget: state.EnPassant,
		Castling:        state.Castling,
		HalfmoveClock:   state.HalfmoveClock,
		FullmoveNumber:  state.FullmoveNumber,
		MoveHistory:     groupMoves(history),
		CapturedPieces:  capturedPieces(history),
		Result:          resultOf(last),
		Sound:           soundFor(last, s.human),
		Commentary:      commentaryFor(last, s.human, s.thinking),
		Thinking:        s.thinking,
		Clocks: Clocks{
			White: s.clocks[model.White].Spent().Milliseconds(),
			Black: s.clocks[model.Black].Spent().Milliseconds(),
		},
	}
	if last != nil {
		snapshot.LastMove = &LastMove{From: last.From, To: last.To}
	}
	return snapshot
}
