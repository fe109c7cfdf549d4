package handler

import (
	"encoding/json"

	"github.com/warlock/server/internal/game"
	"github.com/warlock/server/internal/protocol"
)

// HandlePerformAction submits the sender's class ability for this round.
func HandlePerformAction(c *Ctx, data json.RawMessage, deps *Deps) {
	var req protocol.PerformAction
	if !decodeInto(c, data, &req) {
		return
	}
	withRoom(c, deps, func(room *game.Room) error {
		return room.SubmitAction(c.PlayerID, req.ActionType, req.TargetID)
	})
}

// HandleUseRacial submits the sender's racial ability. Adapt racials name
// the class ability to trade away in abilityType; targeted racials name a
// player in targetId.
func HandleUseRacial(c *Ctx, data json.RawMessage, deps *Deps) {
	var req protocol.UseRacial
	if !decodeInto(c, data, &req) {
		return
	}
	target := req.TargetID
	if target == "" {
		target = req.AbilityType
	}
	withRoom(c, deps, func(room *game.Room) error {
		return room.SubmitRacial(c.PlayerID, target)
	})
}
