package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/crimson-chess/internal/middleware"
	"github.com/benbeisheim/crimson-chess/internal/service"
	"github.com/benbeisheim/crimson-chess/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	// Register this connection with the game; it receives the current state
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("game %s: register socket of %s: %v", gameID, playerID, err)
		c.WriteJSON(ws.NewError(err.Error()))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: socket of %s closed: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(gameID, playerID, fmt.Errorf("parse error: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.sendError(gameID, playerID, err)
		}
	}
}

// Handle different types of incoming messages. Successful changes reach
// every socket through the session broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var body moveBody
		if err := json.Unmarshal(msg.Payload, &body); err != nil {
			return err
		}
		req, err := body.request()
		if err != nil {
			return err
		}
		_, err = wsc.gameService.HandleMove(gameID, playerID, req)
		return err

	case ws.MessageTypeUndo:
		_, err := wsc.gameService.Undo(gameID, playerID)
		return err

	case ws.MessageTypeReset:
		_, err := wsc.gameService.Reset(gameID, playerID)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(gameID, playerID string, err error) {
	if sendErr := wsc.gameService.SendError(gameID, playerID, err); sendErr != nil {
		log.Warnf("game %s: send error to %s: %v", gameID, playerID, sendErr)
	}
}
