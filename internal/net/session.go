package net

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/warlock/server/internal/protocol"
)

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; game state is accessed only from room workers.
type Session struct {
	ID   uint64
	conn net.Conn

	InQueue  chan []byte // dispatcher reads frames from here
	OutQueue chan []byte // writer goroutine reads from here

	IP string

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	// Per-second frame rate limiter (readLoop goroutine only, no lock needed)
	framePerSec  int   // max frames/sec (0 = unlimited)
	frameCount   int   // frames received this second
	frameResetAt int64 // unix second of last counter reset

	writeTimeout time.Duration

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, inSize, outSize, framePerSec int, writeTimeout time.Duration, log *zap.Logger) *Session {
	return &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan []byte, inSize),
		OutQueue:     make(chan []byte, outSize),
		IP:           conn.RemoteAddr().String(),
		closeCh:      make(chan struct{}),
		framePerSec:  framePerSec,
		writeTimeout: writeTimeout,
		log:          log.With(zap.Uint64("session", id)),
	}
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send queues one already-encoded envelope for delivery. Non-blocking: a
// full queue means the client cannot keep up, and the session is dropped
// rather than stalling the sender.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	select {
	case s.OutQueue <- data:
	case <-s.closeCh:
	default:
		s.log.Warn("out queue full, dropping slow session")
		s.Close()
	}
}

// Close gracefully shuts down the session.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Closed is closed when the session shuts down.
func (s *Session) Closed() <-chan struct{} {
	return s.closeCh
}

// readLoop runs in its own goroutine. It reads frames from the TCP
// connection and pushes them onto InQueue for the dispatcher to consume.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		payload, err := protocol.ReadFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		// Per-second frame rate limiter
		if s.framePerSec > 0 {
			now := time.Now().Unix()
			if now != s.frameResetAt {
				s.frameCount = 0
				s.frameResetAt = now
			}
			s.frameCount++
			if s.frameCount > s.framePerSec {
				s.log.Warn("frame rate exceeded, dropping session", zap.Int("fps", s.frameCount))
				return
			}
		}

		// Block until InQueue has space or the session closes. The readLoop
		// goroutine is per-session, so this only stalls this client.
		select {
		case s.InQueue <- payload:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop runs in its own goroutine. It reads envelopes from OutQueue
// and writes them as framed data to the TCP connection.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case data := <-s.OutQueue:
			s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := protocol.WriteFrame(s.conn, data); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
