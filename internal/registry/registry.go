package registry

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warlock/server/internal/game"
)

// Classified errors shared with the rest of the server.
var (
	ErrServerFull      = game.ErrServerFull
	ErrRoomNotFound    = game.ErrRoomNotFound
	ErrCreateThrottled = game.ErrCreateThrottled
)

// Factory builds (but does not start) a room for a freshly drawn code.
type Factory func(code string) *game.Room

// Registry is the process-wide code to room map. Create, lookup and
// removal run under one mutex; everything inside a room stays on that
// room's worker.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*game.Room
	timers map[string]*time.Timer

	maxRooms    int
	idleTimeout time.Duration
	createEvery time.Duration
	lastCreate  time.Time
	rng         *rand.Rand
	factory     Factory
	log         *zap.Logger
}

func New(maxRooms int, idleTimeout, createEvery time.Duration, factory Factory, log *zap.Logger) *Registry {
	return &Registry{
		rooms:       make(map[string]*game.Room),
		timers:      make(map[string]*time.Timer),
		maxRooms:    maxRooms,
		idleTimeout: idleTimeout,
		createEvery: createEvery,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		factory:     factory,
		log:         log,
	}
}

// Create draws an unused 4-digit code, builds the room and starts its
// worker and idle timer. Creations are throttled to one per createEvery
// so a misbehaving client cannot churn through the code space.
func (g *Registry) Create() (*game.Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.rooms) >= g.maxRooms {
		return nil, ErrServerFull
	}
	if g.createEvery > 0 && time.Since(g.lastCreate) < g.createEvery {
		return nil, ErrCreateThrottled
	}

	var code string
	for {
		code = fmt.Sprintf("%04d", g.rng.Intn(9000)+1000)
		if _, taken := g.rooms[code]; !taken {
			break
		}
	}

	room := g.factory(code)
	room.Start()
	g.rooms[code] = room
	g.lastCreate = time.Now()
	g.armIdleLocked(code)
	g.log.Info("room created", zap.String("code", code), zap.Int("rooms", len(g.rooms)))
	return room, nil
}

// Lookup finds a room by code.
func (g *Registry) Lookup(code string) (*game.Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Touch resets the room's idle timer. Called on every inbound command
// addressed to the room.
func (g *Registry) Touch(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.rooms[code]; !ok {
		return
	}
	g.armIdleLocked(code)
}

// armIdleLocked (re)arms the idle teardown timer. Caller holds the mutex.
func (g *Registry) armIdleLocked(code string) {
	if g.idleTimeout <= 0 {
		return
	}
	if t, ok := g.timers[code]; ok {
		t.Stop()
	}
	g.timers[code] = time.AfterFunc(g.idleTimeout, func() {
		g.Remove(code, "closed for inactivity")
	})
}

// Remove tears a room down and forgets it.
func (g *Registry) Remove(code, reason string) {
	g.mu.Lock()
	room, ok := g.rooms[code]
	if ok {
		delete(g.rooms, code)
		if t, tok := g.timers[code]; tok {
			t.Stop()
			delete(g.timers, code)
		}
	}
	g.mu.Unlock()
	if !ok {
		return
	}
	room.Close(reason)
	g.log.Info("room removed", zap.String("code", code), zap.String("reason", reason))
}

// Count reports the number of live rooms.
func (g *Registry) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}

// CloseAll tears down every room, used at server shutdown.
func (g *Registry) CloseAll(reason string) {
	g.mu.Lock()
	codes := make([]string, 0, len(g.rooms))
	for code := range g.rooms {
		codes = append(codes, code)
	}
	g.mu.Unlock()
	for _, code := range codes {
		g.Remove(code, reason)
	}
}
