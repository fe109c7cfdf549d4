package handler

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/warlock/server/internal/bus"
	"github.com/warlock/server/internal/catalog"
	"github.com/warlock/server/internal/config"
	"github.com/warlock/server/internal/game"
	"github.com/warlock/server/internal/protocol"
	"github.com/warlock/server/internal/registry"
)

// Deps holds shared dependencies injected into all command handlers.
type Deps struct {
	Registry *registry.Registry
	Hub      *bus.Hub
	Catalog  *catalog.Catalog
	Config   *config.Config
	Formulas game.Formulas
	Log      *zap.Logger
}

// SessionState gates which commands a connection may send.
type SessionState int

const (
	// StateFresh: connected, not seated in any room.
	StateFresh SessionState = iota
	// StateSeated: seated in a room; the context carries its code and the
	// persistent player id.
	StateSeated
)

// Ctx is the per-connection handler state. One dispatcher goroutine per
// connection owns it, so no locking.
type Ctx struct {
	ConnID   uint64
	State    SessionState
	RoomCode string
	PlayerID string

	deps *Deps
}

func NewCtx(connID uint64, deps *Deps) *Ctx {
	return &Ctx{ConnID: connID, deps: deps}
}

// seat binds the connection to a room seat.
func (c *Ctx) seat(code, playerID string) {
	c.State = StateSeated
	c.RoomCode = code
	c.PlayerID = playerID
}

// unseat returns the connection to the fresh state.
func (c *Ctx) unseat() {
	c.State = StateFresh
	c.RoomCode = ""
	c.PlayerID = ""
}

// fail surfaces a classified error to the originator. Unclassified errors
// are reported as state errors; their text is already client-safe.
func (c *Ctx) fail(err error) {
	var gerr *game.Error
	kind := game.KindState
	if errors.As(err, &gerr) {
		kind = gerr.Kind
	}
	c.deps.Hub.Send(c.ConnID, game.MsgError, game.ErrorPayload{
		Kind:    kind.String(),
		Message: err.Error(),
	})
}

// Func handles one decoded command on the connection's dispatcher
// goroutine.
type Func func(c *Ctx, data json.RawMessage)

type entry struct {
	states []SessionState
	fn     Func
}

// Registry maps command types to handlers with allowed session states.
type Registry struct {
	entries map[string]entry
	log     *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{entries: make(map[string]entry), log: log}
}

// Register binds a command type to a handler for the given states.
func (r *Registry) Register(msgType string, states []SessionState, fn Func) {
	r.entries[msgType] = entry{states: states, fn: fn}
}

// Dispatch decodes one raw frame and routes it. Unknown types and
// wrong-state commands are answered with an error rather than dropping
// the connection.
func (r *Registry) Dispatch(c *Ctx, raw []byte) {
	env, err := protocol.Decode(raw)
	if err != nil {
		r.log.Debug("bad envelope", zap.Uint64("conn", c.ConnID), zap.Error(err))
		c.fail(game.Errf(game.KindValidation, "malformed message"))
		return
	}

	e, ok := r.entries[env.Type]
	if !ok {
		c.fail(game.Errf(game.KindValidation, "unknown command %q", env.Type))
		return
	}
	allowed := false
	for _, st := range e.states {
		if st == c.State {
			allowed = true
			break
		}
	}
	if !allowed {
		c.fail(game.Errf(game.KindState, "%q not allowed right now", env.Type))
		return
	}
	e.fn(c, env.Data)
}

// RegisterAll registers all command handlers into the registry.
func RegisterAll(reg *Registry, deps *Deps) {
	fresh := []SessionState{StateFresh}
	seated := []SessionState{StateSeated}

	reg.Register(protocol.CmdCreateGame, fresh, func(c *Ctx, data json.RawMessage) {
		HandleCreateGame(c, data, deps)
	})
	reg.Register(protocol.CmdJoinGame, fresh, func(c *Ctx, data json.RawMessage) {
		HandleJoinGame(c, data, deps)
	})
	reg.Register(protocol.CmdReconnect, fresh, func(c *Ctx, data json.RawMessage) {
		HandleReconnect(c, data, deps)
	})

	reg.Register(protocol.CmdSelectCharacter, seated, func(c *Ctx, data json.RawMessage) {
		HandleSelectCharacter(c, data, deps)
	})
	reg.Register(protocol.CmdToggleReady, seated, func(c *Ctx, data json.RawMessage) {
		HandleToggleReady(c, data, deps)
	})
	reg.Register(protocol.CmdStartGame, seated, func(c *Ctx, data json.RawMessage) {
		HandleStartGame(c, data, deps)
	})
	reg.Register(protocol.CmdPerformAction, seated, func(c *Ctx, data json.RawMessage) {
		HandlePerformAction(c, data, deps)
	})
	reg.Register(protocol.CmdUseRacial, seated, func(c *Ctx, data json.RawMessage) {
		HandleUseRacial(c, data, deps)
	})
	reg.Register(protocol.CmdLeaveGame, seated, func(c *Ctx, data json.RawMessage) {
		HandleLeaveGame(c, data, deps)
	})
}
