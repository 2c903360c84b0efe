package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyStatsPrefix = "stats:"

var ErrEmptyPlayerID = errors.New("player id is required")

// Outcome is a finished game seen from the human player's side.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Result describes one completed game
type Result struct {
	Outcome  Outcome
	Reason   string
	Moves    int
	Duration time.Duration
}

// PlayerStats stores the running totals for one player
type PlayerStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	DrawsByReason  map[string]int `json:"draws_by_reason"`
	TotalMoves     int            `json:"total_moves"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
	LastPlayed     time.Time      `json:"last_played"`
}

// NewPlayerStats returns empty statistics
func NewPlayerStats() *PlayerStats {
	return &PlayerStats{
		DrawsByReason: make(map[string]int),
	}
}

// WinRate returns the win rate as a percentage (0-100)
func (s *PlayerStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

func (s *PlayerStats) apply(result Result) {
	s.GamesPlayed++
	s.TotalMoves += result.Moves
	s.TotalPlayTime += result.Duration
	s.LastPlayed = time.Now()

	switch result.Outcome {
	case OutcomeWin:
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStrk {
			s.LongestWinStrk = s.CurrentStreak
		}
	case OutcomeLoss:
		s.Losses++
		s.CurrentStreak = 0
	default:
		s.Draws++
		s.CurrentStreak = 0
		if s.DrawsByReason == nil {
			s.DrawsByReason = make(map[string]int)
		}
		s.DrawsByReason[result.Reason]++
	}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens the database under dir, or an in-memory database when dir is
// empty.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open stats store: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func statsKey(playerID string) []byte {
	return []byte(keyStatsPrefix + playerID)
}

// Stats loads a player's statistics, returns empty stats if not found
func (s *Storage) Stats(playerID string) (*PlayerStats, error) {
	if playerID == "" {
		return nil, ErrEmptyPlayerID
	}
	stats := NewPlayerStats()

	err := s.db.View(func(txn *badger.Txn) error {
		return readStats(txn, playerID, stats)
	})

	return stats, err
}

// RecordResult adds a completed game to the player's statistics. The read
// and the write share one transaction.
func (s *Storage) RecordResult(playerID string, result Result) error {
	if playerID == "" {
		return ErrEmptyPlayerID
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats := NewPlayerStats()
		if err := readStats(txn, playerID, stats); err != nil {
			return err
		}
		stats.apply(result)

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set(statsKey(playerID), data)
	})
}

func readStats(txn *badger.Txn, playerID string, stats *PlayerStats) error {
	item, err := txn.Get(statsKey(playerID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil // Use empty stats
	}
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
}
