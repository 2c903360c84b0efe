package controller

import (
	"github.com/benbeisheim/crimson-chess/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the REST API under /api and the game socket under
// /ws/game/:gameId.
func RegisterRoutes(app *fiber.App, gameController *GameController, wsController *WebSocketController, origins []string) {
	app.Use("/ws", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	api := app.Group("/api", middleware.EnsurePlayerID())
	api.Get("/stats", gameController.Stats)

	// Game routes
	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves", gameController.LegalMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/undo", gameController.Undo)
	gameRoutes.Post("/:gameId/reset", gameController.Reset)
	gameRoutes.Delete("/:gameId", gameController.DeleteGame)
}
