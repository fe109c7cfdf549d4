package handler

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/warlock/server/internal/game"
	"github.com/warlock/server/internal/protocol"
)

type gameCreatedPayload struct {
	GameCode string `json:"gameCode"`
	PlayerID string `json:"playerId"`
}

type gameJoinedPayload struct {
	GameCode string `json:"gameCode"`
	PlayerID string `json:"playerId"`
}

func decodeInto(c *Ctx, data json.RawMessage, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		c.fail(game.Errf(game.KindValidation, "malformed payload"))
		return false
	}
	return true
}

func playerName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", game.Errf(game.KindValidation, "a player name is required")
	}
	if len(name) > 24 {
		return "", game.Errf(game.KindValidation, "player names are capped at 24 characters")
	}
	return name, nil
}

// HandleCreateGame opens a new room and seats the sender as host.
func HandleCreateGame(c *Ctx, data json.RawMessage, deps *Deps) {
	var req protocol.CreateGame
	if !decodeInto(c, data, &req) {
		return
	}
	name, err := playerName(req.PlayerName)
	if err != nil {
		c.fail(err)
		return
	}

	room, err := deps.Registry.Create()
	if err != nil {
		c.fail(err)
		return
	}

	var playerID string
	var joinErr error
	if err := room.Call(func() {
		playerID, joinErr = room.AddPlayer(c.ConnID, name)
	}); err != nil {
		c.fail(err)
		return
	}
	if joinErr != nil {
		deps.Registry.Remove(room.Code, "creation failed")
		c.fail(joinErr)
		return
	}

	c.seat(room.Code, playerID)
	deps.Hub.Send(c.ConnID, game.MsgGameCreated, gameCreatedPayload{
		GameCode: room.Code,
		PlayerID: playerID,
	})
	deps.Log.Info("game created",
		zap.String("code", room.Code), zap.String("player", name))
}

// HandleJoinGame seats the sender in an existing room.
func HandleJoinGame(c *Ctx, data json.RawMessage, deps *Deps) {
	var req protocol.JoinGame
	if !decodeInto(c, data, &req) {
		return
	}
	name, err := playerName(req.PlayerName)
	if err != nil {
		c.fail(err)
		return
	}

	room, err := deps.Registry.Lookup(req.GameCode)
	if err != nil {
		c.fail(err)
		return
	}
	deps.Registry.Touch(room.Code)

	var playerID string
	var joinErr error
	if err := room.Call(func() {
		playerID, joinErr = room.AddPlayer(c.ConnID, name)
	}); err != nil {
		c.fail(err)
		return
	}
	if joinErr != nil {
		c.fail(joinErr)
		return
	}

	c.seat(room.Code, playerID)
	deps.Hub.Send(c.ConnID, game.MsgPlayerJoined, gameJoinedPayload{
		GameCode: room.Code,
		PlayerID: playerID,
	})
}

// HandleReconnect reclaims a disconnected seat by player name.
func HandleReconnect(c *Ctx, data json.RawMessage, deps *Deps) {
	var req protocol.Reconnect
	if !decodeInto(c, data, &req) {
		return
	}
	name, err := playerName(req.PlayerName)
	if err != nil {
		c.fail(err)
		return
	}

	room, err := deps.Registry.Lookup(req.GameCode)
	if err != nil {
		c.fail(err)
		return
	}
	deps.Registry.Touch(room.Code)

	var p *game.Player
	var rcErr error
	if err := room.Call(func() {
		p, rcErr = room.Reconnect(name, c.ConnID)
	}); err != nil {
		c.fail(err)
		return
	}
	if rcErr != nil {
		c.fail(rcErr)
		return
	}
	c.seat(room.Code, p.ID)
}

// HandleSelectCharacter picks a race/class pair.
func HandleSelectCharacter(c *Ctx, data json.RawMessage, deps *Deps) {
	var req protocol.SelectCharacter
	if !decodeInto(c, data, &req) {
		return
	}
	withRoom(c, deps, func(room *game.Room) error {
		return room.SelectCharacter(c.PlayerID, req.Race, req.Class)
	})
}

// HandleToggleReady marks the sender ready.
func HandleToggleReady(c *Ctx, data json.RawMessage, deps *Deps) {
	withRoom(c, deps, func(room *game.Room) error {
		return room.MarkReady(c.PlayerID)
	})
}

// HandleStartGame begins the game; the room enforces host-only.
func HandleStartGame(c *Ctx, data json.RawMessage, deps *Deps) {
	withRoom(c, deps, func(room *game.Room) error {
		return room.StartGame(c.PlayerID)
	})
}

// HandleLeaveGame gives up the sender's seat.
func HandleLeaveGame(c *Ctx, data json.RawMessage, deps *Deps) {
	room, err := deps.Registry.Lookup(c.RoomCode)
	if err != nil {
		c.unseat()
		return
	}
	// Best effort: a closed room has already vacated the seat.
	_ = room.Call(func() {
		room.Leave(c.PlayerID)
	})
	c.unseat()
}

// withRoom locates the sender's room, refreshes its idle timer and runs
// op on the room worker, surfacing any error to the sender.
func withRoom(c *Ctx, deps *Deps, op func(room *game.Room) error) {
	room, err := deps.Registry.Lookup(c.RoomCode)
	if err != nil {
		c.fail(err)
		return
	}
	deps.Registry.Touch(room.Code)

	var opErr error
	if err := room.Call(func() {
		opErr = op(room)
	}); err != nil {
		c.fail(err)
		return
	}
	if opErr != nil {
		c.fail(opErr)
	}
}
