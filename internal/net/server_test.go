package net

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warlock/server/internal/protocol"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer("127.0.0.1:0", 16, 16, 0, time.Second, zap.NewNop())
	require.NoError(t, err)
	go srv.AcceptLoop()
	t.Cleanup(srv.Shutdown)
	return srv
}

func TestSessionRoundTrip(t *testing.T) {
	srv := startServer(t)

	client, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	var sess *Session
	select {
	case sess = <-srv.NewSessions():
	case <-time.After(time.Second):
		t.Fatal("no session accepted")
	}
	defer sess.Close()

	// Client to server.
	require.NoError(t, protocol.WriteFrame(client, []byte(`{"type":"ping"}`)))
	select {
	case got := <-sess.InQueue:
		require.JSONEq(t, `{"type":"ping"}`, string(got))
	case <-time.After(time.Second):
		t.Fatal("frame never reached the in queue")
	}

	// Server to client.
	sess.Send([]byte(`{"type":"pong"}`))
	client.SetReadDeadline(time.Now().Add(time.Second))
	got, err := protocol.ReadFrame(client)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"pong"}`, string(got))
}

func TestSessionClosesOnClientDisconnect(t *testing.T) {
	srv := startServer(t)

	client, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)

	sess := <-srv.NewSessions()
	client.Close()

	select {
	case <-sess.Closed():
	case <-time.After(time.Second):
		t.Fatal("session did not notice the disconnect")
	}
	require.True(t, sess.IsClosed())
}

func TestSendAfterCloseIsSilent(t *testing.T) {
	srv := startServer(t)

	client, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	sess := <-srv.NewSessions()
	sess.Close()
	sess.Send([]byte(`{"type":"pong"}`)) // must not panic or block
}
