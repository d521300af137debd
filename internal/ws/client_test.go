package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
)

func TestPushAfterCloseIsDropped(t *testing.T) {
	c := NewClient(nil, "alice")
	require.True(t, c.Push([]byte("hello")))

	c.Close()
	assert.False(t, c.Push([]byte("late")))
	assert.False(t, c.Push([]byte("later")))
}

func TestCloseIsIdempotent(t *testing.T) {
	c := NewClient(nil, "alice")
	c.Close()
	c.Close()
	assert.False(t, c.Push([]byte("x")))
}

// A router that resolved the connection just before the gateway tore it down
// still holds the stale handle. Delivering through it must degrade to a
// dropped push.
func TestPushRacingDisconnectDoesNotPanic(t *testing.T) {
	r, reg := newTestRouter(nil)
	client := NewClient(nil, "alice")
	reg.Register("alice", client)

	conn, ok := reg.Lookup("alice")
	require.True(t, ok)

	// Gateway teardown order: forget the registration, then close the client.
	reg.Unregister(client)
	client.Close()

	res := r.pushConn(conn, domain.EvNewMessage, &domain.Message{ID: "m1", Sender: "bob", Receiver: "alice"})
	assert.Equal(t, DroppedSlow, res)
}
