package bus

import (
	"sync"

	"go.uber.org/zap"

	"github.com/warlock/server/internal/protocol"
)

// Sender is the write side of one connection. *net.Session satisfies it.
type Sender interface {
	Send(data []byte)
}

// Hub bridges room output to connections: rooms address players by
// connection ID, the hub owns the ID to sender mapping and the envelope
// encoding. It satisfies the game package's Notifier interface.
//
// Per-connection ordering follows from each Send encoding and handing off
// inline on the caller's goroutine; a room worker's sends therefore reach
// a session's queue in call order.
type Hub struct {
	mu    sync.RWMutex
	conns map[uint64]Sender
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		conns: make(map[uint64]Sender),
		log:   log,
	}
}

// Register adds a connection to the fan-out table.
func (h *Hub) Register(connID uint64, s Sender) {
	h.mu.Lock()
	h.conns[connID] = s
	h.mu.Unlock()
}

// Unregister drops a connection. Sends addressed to it become no-ops,
// which covers the window between a disconnect and the room noticing.
func (h *Hub) Unregister(connID uint64) {
	h.mu.Lock()
	delete(h.conns, connID)
	h.mu.Unlock()
}

// Send encodes one envelope and delivers it to the connection, dropping
// it silently when the connection is gone.
func (h *Hub) Send(connID uint64, msgType string, payload any) {
	h.mu.RLock()
	s, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		h.log.Error("encode outbound envelope", zap.String("type", msgType), zap.Error(err))
		return
	}
	s.Send(data)
}
