package service

import (
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type GameManager struct {
	games   map[string]*Session
	results ResultRecorder
	mu      sync.RWMutex
}

// NewGameManager returns an empty manager. results may be nil.
func NewGameManager(results ResultRecorder) *GameManager {
	return &GameManager{
		games:   make(map[string]*Session),
		results: results,
	}
}

func (gm *GameManager) CreateGame(ownerID string, opts Options) (*Session, error) {
	if !opts.HumanColor.Valid() {
		return nil, ErrInvalidColor
	}

	gameID := uuid.New().String()
	session := newSession(gameID, ownerID, opts, gm.results)

	gm.mu.Lock()
	gm.games[gameID] = session
	gm.mu.Unlock()

	log.Infof("game %s created for %s playing %s", gameID, ownerID, opts.HumanColor)
	return session, nil
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return session, nil
}

func (gm *GameManager) RemoveGame(gameID string) error {
	gm.mu.Lock()
	session, exists := gm.games[gameID]
	if !exists {
		gm.mu.Unlock()
		return ErrGameNotFound
	}
	delete(gm.games, gameID)
	gm.mu.Unlock()

	session.Close()
	log.Infof("game %s removed", gameID)
	return nil
}

// GamesOf returns the ids of the sessions owned by playerID.
func (gm *GameManager) GamesOf(playerID string) []string {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	ids := []string{}
	for id, session := range gm.games {
		if session.OwnerID == playerID {
			ids = append(ids, id)
		}
	}
	return ids
}

// Close closes every session.
func (gm *GameManager) Close() {
	gm.mu.Lock()
	games := gm.games
	gm.games = make(map[string]*Session)
	gm.mu.Unlock()

	for _, session := range games {
		session.Close()
	}
}
