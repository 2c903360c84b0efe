package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const (
	PlayerIDKey     = "playerID"
	maxPlayerIDSize = 64
)

// EnsurePlayerID takes the caller's id from the X-Player-ID header or the
// playerId query parameter and stores it in the request locals.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Check if playerID is already set
		if c.Locals(PlayerIDKey) != nil {
			return c.Next()
		}

		// Check header first
		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			log.Debugf("%s %s: no player id", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}
		if len(playerID) > maxPlayerIDSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Player ID is too long",
			})
		}

		// Store in context for this request
		c.Locals(PlayerIDKey, playerID)
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDKey).(string)
	return id
}
