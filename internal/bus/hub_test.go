package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warlock/server/internal/protocol"
)

type captureSender struct {
	frames [][]byte
}

func (c *captureSender) Send(data []byte) {
	c.frames = append(c.frames, data)
}

func TestHubDeliversEncodedEnvelopes(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := &captureSender{}
	h.Register(7, c)

	h.Send(7, "errorMessage", map[string]string{"message": "nope"})
	require.Len(t, c.frames, 1)

	env, err := protocol.Decode(c.frames[0])
	require.NoError(t, err)
	require.Equal(t, "errorMessage", env.Type)
	require.Contains(t, string(env.Data), "nope")
}

func TestHubPreservesSendOrder(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := &captureSender{}
	h.Register(1, c)

	h.Send(1, "a", nil)
	h.Send(1, "b", nil)
	h.Send(1, "c", nil)

	require.Len(t, c.frames, 3)
	for i, want := range []string{"a", "b", "c"} {
		env, err := protocol.Decode(c.frames[i])
		require.NoError(t, err)
		require.Equal(t, want, env.Type)
	}
}

func TestHubDropsUnknownAndUnregistered(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := &captureSender{}

	h.Send(5, "a", nil) // never registered

	h.Register(5, c)
	h.Unregister(5)
	h.Send(5, "a", nil)

	require.Empty(t, c.frames)
}
