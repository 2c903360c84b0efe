package service

import (
	"encoding/json"
	"sync"

	"github.com/benbeisheim/crimson-chess/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// Conn is the write side of a websocket. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// connections fans game updates out to every socket watching a session.
// All writes happen under mu so a socket never sees interleaved frames.
// mu may be taken before the session lock, never after it.
type connections struct {
	mu          sync.Mutex
	conns       map[string]Conn
	lastVersion int
}

func newConnections() *connections {
	return &connections{conns: make(map[string]Conn)}
}

// register replaces any earlier socket of the same player and sends it the
// current state. snapshot is taken while the connection lock is held, so
// no broadcast can slip in between and leave the new socket behind.
func (gc *connections) register(playerID string, conn Conn, snapshot func() Snapshot) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	initial := snapshot()
	if initial.Version > gc.lastVersion {
		gc.lastVersion = initial.Version
	}
	msg, err := ws.NewMessage(ws.MessageTypeGameState, initial)
	if err != nil {
		return err
	}

	if old, ok := gc.conns[playerID]; ok && old != conn {
		old.Close()
	}
	gc.conns[playerID] = conn
	return conn.WriteJSON(msg)
}

// unregister removes conn only if it is still the player's current socket.
func (gc *connections) unregister(playerID string, conn Conn) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if current, ok := gc.conns[playerID]; ok && current == conn {
		delete(gc.conns, playerID)
	}
}

func (gc *connections) send(playerID string, msg ws.Message) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	conn, ok := gc.conns[playerID]
	if !ok {
		return nil
	}
	return conn.WriteJSON(msg)
}

// broadcast pushes snapshot to every socket. Snapshots older than one
// already sent are dropped, so a slow caller cannot roll clients back.
func (gc *connections) broadcast(snapshot Snapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("marshal game %s: %v", snapshot.ID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}

	gc.mu.Lock()
	defer gc.mu.Unlock()
	if snapshot.Version < gc.lastVersion {
		return
	}
	gc.lastVersion = snapshot.Version
	for playerID, conn := range gc.conns {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("dropping socket of %s in game %s: %v", playerID, snapshot.ID, err)
			delete(gc.conns, playerID)
			conn.Close()
		}
	}
}

func (gc *connections) count() int {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return len(gc.conns)
}

func (gc *connections) closeAll() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	for playerID, conn := range gc.conns {
		conn.Close()
		delete(gc.conns, playerID)
	}
}
