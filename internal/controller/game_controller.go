package controller

import (
	"errors"

	"github.com/benbeisheim/crimson-chess/internal/middleware"
	"github.com/benbeisheim/crimson-chess/internal/model"
	"github.com/benbeisheim/crimson-chess/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// moveBody accepts the promotion piece as a letter or a name.
type moveBody struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

func (b moveBody) request() (model.MoveRequest, error) {
	req := model.MoveRequest{From: b.From, To: b.To}
	if _, ok := model.ParseSquare(b.From); !ok {
		return req, service.ErrInvalidSquare
	}
	if _, ok := model.ParseSquare(b.To); !ok {
		return req, service.ErrInvalidSquare
	}
	if b.Promotion != "" {
		promotion, ok := model.ParsePieceType(b.Promotion)
		if !ok {
			return req, errors.New("unknown promotion piece")
		}
		req.Promotion = promotion
	}
	return req, nil
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, service.ErrSessionClosed):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrNotYourTurn), errors.Is(err, service.ErrGameOver), errors.Is(err, service.ErrNothingToUndo):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidColor), errors.Is(err, service.ErrInvalidSquare):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req service.CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	session, err := gc.gameService.CreateGame(middleware.PlayerID(c), req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": session.ID,
		"color":   session.HumanColor(),
		"state":   session.Snapshot(),
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), c.Query("square"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var body moveBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	req, err := body.request()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	snapshot, err := gc.gameService.Undo(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(snapshot)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	snapshot, err := gc.gameService.Reset(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(snapshot)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) Stats(c *fiber.Ctx) error {
	stats, err := gc.gameService.Stats(middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"stats":    stats,
		"win_rate": stats.WinRate(),
	})
}
