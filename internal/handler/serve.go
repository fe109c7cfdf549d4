package handler

import (
	"go.uber.org/zap"

	"github.com/warlock/server/internal/net"
)

// ServeSession owns one connection's command loop: it registers the
// session with the hub, dispatches inbound frames until the session dies,
// then detaches the seat. Runs as a goroutine per connection.
func ServeSession(sess *net.Session, reg *Registry, deps *Deps) {
	deps.Hub.Register(sess.ID, sess)
	c := NewCtx(sess.ID, deps)

	defer func() {
		deps.Hub.Unregister(sess.ID)
		if c.State == StateSeated {
			if room, err := deps.Registry.Lookup(c.RoomCode); err == nil {
				connID := sess.ID
				room.Post(func() {
					room.Disconnect(connID)
				})
			}
		}
		deps.Log.Debug("session detached", zap.Uint64("session", sess.ID))
	}()

	for {
		select {
		case raw := <-sess.InQueue:
			reg.Dispatch(c, raw)
		case <-sess.Closed():
			return
		}
	}
}
