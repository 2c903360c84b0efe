package service

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrNotOwner      = errors.New("game belongs to another player")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrGameOver      = errors.New("game is over")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrInvalidColor  = errors.New("color must be white, black or random")
	ErrInvalidSquare = errors.New("invalid square")
	ErrSessionClosed = errors.New("game session closed")
)
