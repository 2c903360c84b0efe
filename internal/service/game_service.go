package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/benbeisheim/crimson-chess/internal/bot"
	"github.com/benbeisheim/crimson-chess/internal/model"
	"github.com/benbeisheim/crimson-chess/internal/storage"
	"github.com/benbeisheim/crimson-chess/internal/ws"
)

// StatsReader serves the per-player totals.
type StatsReader interface {
	Stats(playerID string) (*storage.PlayerStats, error)
}

// Defaults apply to every game the service creates.
type Defaults struct {
	Bot       bot.Config
	BotDelay  time.Duration
	BotJitter time.Duration
}

// CreateGameRequest is the body of a create call. Color is white, black or
// random; empty means white.
type CreateGameRequest struct {
	Color      string   `json:"color"`
	Randomness *float64 `json:"randomness,omitempty"`
	Aggression *float64 `json:"aggression,omitempty"`
}

type GameService struct {
	gameManager *GameManager
	stats       StatsReader
	defaults    Defaults
}

func NewGameService(gameManager *GameManager, stats StatsReader, defaults Defaults) *GameService {
	return &GameService{
		gameManager: gameManager,
		stats:       stats,
		defaults:    defaults,
	}
}

func (gs *GameService) CreateGame(playerID string, req CreateGameRequest) (*Session, error) {
	color, err := parseColor(req.Color)
	if err != nil {
		return nil, err
	}

	cfg := gs.defaults.Bot
	if req.Randomness != nil {
		if *req.Randomness < 0 {
			return nil, fmt.Errorf("randomness %v: must not be negative", *req.Randomness)
		}
		cfg.Randomness = *req.Randomness
	}
	if req.Aggression != nil {
		if *req.Aggression < 0 {
			return nil, fmt.Errorf("aggression %v: must not be negative", *req.Aggression)
		}
		cfg.Aggression = *req.Aggression
	}

	session, err := gs.gameManager.CreateGame(playerID, Options{
		HumanColor: color,
		Bot:        cfg,
		BotDelay:   gs.defaults.BotDelay,
		BotJitter:  gs.defaults.BotJitter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return session, nil
}

func parseColor(s string) (model.Color, error) {
	switch strings.ToLower(s) {
	case "", string(model.White):
		return model.White, nil
	case string(model.Black):
		return model.Black, nil
	case "random":
		if rand.Intn(2) == 0 {
			return model.White, nil
		}
		return model.Black, nil
	}
	return "", ErrInvalidColor
}

func (gs *GameService) GetGameState(gameID string) (Snapshot, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Snapshot(), nil
}

func (gs *GameService) LegalMoves(gameID string, square string) ([]model.Move, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.LegalMoves(square)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.MoveRequest) (*MoveResult, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.HumanMove(playerID, move)
}

func (gs *GameService) Undo(gameID string, playerID string) (Snapshot, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Undo(playerID)
}

func (gs *GameService) Reset(gameID string, playerID string) (Snapshot, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Reset(playerID)
}

func (gs *GameService) DeleteGame(gameID string, playerID string) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if session.OwnerID != playerID {
		return ErrNotOwner
	}
	return gs.gameManager.RemoveGame(gameID)
}

func (gs *GameService) Stats(playerID string) (*storage.PlayerStats, error) {
	return gs.stats.Stats(playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Conn) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID, conn)
}

// SendError reports err to the player's socket in the game.
func (gs *GameService) SendError(gameID string, playerID string, err error) error {
	session, getErr := gs.gameManager.GetGame(gameID)
	if getErr != nil {
		return getErr
	}
	return session.Send(playerID, ws.NewError(err.Error()))
}
