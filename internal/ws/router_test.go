package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/presence"
)

// stubConn collects pushed envelopes for inspection.
type stubConn struct {
	pushes []Envelope
	full   bool
}

func (c *stubConn) Push(msg []byte) bool {
	if c.full {
		return false
	}
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		panic(err)
	}
	c.pushes = append(c.pushes, env)
	return true
}

func (c *stubConn) events() []string {
	out := make([]string, len(c.pushes))
	for i, e := range c.pushes {
		out[i] = e.Type
	}
	return out
}

// connect registers a fresh stub connection for each user and clears the
// presence broadcast noise so tests assert on routed events only.
func connect(reg *presence.Registry, ids ...string) map[string]*stubConn {
	conns := map[string]*stubConn{}
	for _, id := range ids {
		c := &stubConn{}
		reg.Register(id, c)
		conns[id] = c
	}
	for _, c := range conns {
		c.pushes = nil
	}
	return conns
}

type stubGroups struct {
	groups map[string]*domain.Group
}

func (s *stubGroups) Find(_ context.Context, id string) (*domain.Group, error) {
	g, ok := s.groups[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return g, nil
}

func newTestRouter(groups map[string]*domain.Group) (*Router, *presence.Registry) {
	log := zap.NewNop().Sugar()
	reg := presence.NewRegistry(log)
	r := NewRouter(reg, nil, &stubGroups{groups: groups}, log)
	return r, reg
}

func TestPushResults(t *testing.T) {
	r, reg := newTestRouter(nil)
	conns := connect(reg, "alice")

	res := r.Push("alice", domain.EvNewMessage, &domain.Message{ID: "m1"})
	assert.Equal(t, Delivered, res)
	assert.Equal(t, []string{domain.EvNewMessage}, conns["alice"].events())

	// offline target is a normal outcome, not an error
	res = r.Push("ghost", domain.EvNewMessage, &domain.Message{ID: "m1"})
	assert.Equal(t, SkippedOffline, res)

	slow := &stubConn{full: true}
	reg.Register("bob", slow)
	res = r.Push("bob", domain.EvNewMessage, &domain.Message{ID: "m1"})
	assert.Equal(t, DroppedSlow, res)
}

func TestRelayDirectMessageSkipsOriginSocket(t *testing.T) {
	r, reg := newTestRouter(nil)
	conns := connect(reg, "alice", "bob")
	m := &domain.Message{ID: "m1", Sender: "alice", Receiver: "bob", Body: "hi"}

	// the sender's registered connection is the origin itself: no echo
	r.RelayDirectMessage(conns["alice"], m)
	assert.Equal(t, []string{domain.EvNewMessage}, conns["bob"].events())
	assert.Empty(t, conns["alice"].events())

	// origin differs from the registered connection (reconnect race):
	// the fresh connection gets a copy
	stale := &stubConn{}
	r.RelayDirectMessage(stale, m)
	assert.Equal(t, []string{domain.EvNewMessage}, conns["alice"].events())
}

func TestDeliverDirectMessageReceiverOnly(t *testing.T) {
	r, reg := newTestRouter(nil)
	conns := connect(reg, "alice", "bob")
	m := &domain.Message{ID: "m1", Sender: "alice", Receiver: "bob"}

	res := r.DeliverDirectMessage(m)
	assert.Equal(t, Delivered, res)
	assert.Len(t, conns["bob"].pushes, 1)
	assert.Empty(t, conns["alice"].pushes)
}

func TestDeliverGroupMessageFanOut(t *testing.T) {
	g := &domain.Group{ID: "g1", Members: []string{"alice", "bob", "carol", "dave"}}
	r, reg := newTestRouter(map[string]*domain.Group{"g1": g})
	conns := connect(reg, "alice", "bob", "carol") // dave stays offline
	m := &domain.Message{ID: "m1", Sender: "alice", GroupID: "g1", Body: "hello"}

	require.NoError(t, r.DeliverGroupMessage(context.Background(), conns["alice"], m))

	want := domain.GroupMessageEvent("g1")
	assert.Empty(t, conns["alice"].events())
	assert.Equal(t, []string{want}, conns["bob"].events())
	assert.Equal(t, []string{want}, conns["carol"].events())
}

func TestDeliverGroupMessageNilOriginSkipsSenderByID(t *testing.T) {
	g := &domain.Group{ID: "g1", Members: []string{"alice", "bob"}}
	r, reg := newTestRouter(map[string]*domain.Group{"g1": g})
	conns := connect(reg, "alice", "bob")
	m := &domain.Message{ID: "m1", Sender: "alice", GroupID: "g1"}

	// request-path fan-out has no originating socket
	require.NoError(t, r.DeliverGroupMessage(context.Background(), nil, m))
	assert.Empty(t, conns["alice"].events())
	assert.Len(t, conns["bob"].pushes, 1)
}

func TestDeliverGroupMessageUnknownGroup(t *testing.T) {
	r, _ := newTestRouter(map[string]*domain.Group{})
	m := &domain.Message{ID: "m1", Sender: "alice", GroupID: "nope"}

	err := r.DeliverGroupMessage(context.Background(), nil, m)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeliverReactionBothSides(t *testing.T) {
	r, reg := newTestRouter(nil)
	conns := connect(reg, "alice", "bob")
	m := &domain.Message{
		ID: "m1", Sender: "alice", Receiver: "bob",
		Reactions: []domain.Reaction{{UserID: "bob", Emoji: "👍"}},
	}

	r.DeliverReaction(m, "bob", "👍")
	assert.Equal(t, []string{domain.EvReactionAdded}, conns["alice"].events())
	assert.Equal(t, []string{domain.EvReactionAdded}, conns["bob"].events())

	var update domain.ReactionUpdate
	require.NoError(t, json.Unmarshal(conns["alice"].pushes[0].Payload, &update))
	assert.Equal(t, "m1", update.MessageID)
	assert.Equal(t, "bob", update.UserID)
	require.Len(t, update.Reactions, 1)
}

func TestDeliverReactionSelfMessageOnce(t *testing.T) {
	r, reg := newTestRouter(nil)
	conns := connect(reg, "alice")
	m := &domain.Message{ID: "m1", Sender: "alice", Receiver: "alice"}

	r.DeliverReaction(m, "alice", "👍")
	assert.Len(t, conns["alice"].pushes, 1)
}

func TestDeliverDeletedReceiverAndDeleter(t *testing.T) {
	r, reg := newTestRouter(nil)
	conns := connect(reg, "alice", "bob")
	m := &domain.Message{ID: "m1", Sender: "alice", Receiver: "bob"}

	r.DeliverDeleted(m, "alice")
	assert.Equal(t, []string{domain.EvMessageDeleted}, conns["alice"].events())
	assert.Equal(t, []string{domain.EvMessageDeleted}, conns["bob"].events())
}

func TestDeliverStatusUpdatesPerMessageToSender(t *testing.T) {
	r, reg := newTestRouter(nil)
	conns := connect(reg, "alice", "carol")

	updated := []*domain.Message{
		{ID: "m1", Sender: "alice", Status: domain.StatusSeen},
		{ID: "m2", Sender: "alice", Status: domain.StatusSeen},
		{ID: "m3", Sender: "carol", Status: domain.StatusSeen},
	}
	r.DeliverStatusUpdates(updated)

	require.Len(t, conns["alice"].pushes, 2)
	require.Len(t, conns["carol"].pushes, 1)

	var upd domain.StatusUpdate
	require.NoError(t, json.Unmarshal(conns["alice"].pushes[0].Payload, &upd))
	assert.Equal(t, "m1", upd.MessageID)
	assert.Equal(t, domain.StatusSeen, upd.Status)
}

func TestDeliverGroupReadReachesAllMembers(t *testing.T) {
	g := &domain.Group{ID: "g1", Members: []string{"alice", "bob", "carol"}}
	r, reg := newTestRouter(map[string]*domain.Group{"g1": g})
	conns := connect(reg, "alice", "bob", "carol")

	require.NoError(t, r.DeliverGroupRead(context.Background(), "g1", "bob"))

	// the reader included: every client refreshes its unread counts
	for _, id := range []string{"alice", "bob", "carol"} {
		require.Len(t, conns[id].pushes, 1, id)
		assert.Equal(t, domain.EvGroupMessagesRead, conns[id].pushes[0].Type)
	}
}

// Two concurrent group sends from different members reach the other member
// exactly once each and never echo to their origin.
func TestGroupFanOutIndependentSenders(t *testing.T) {
	g := &domain.Group{ID: "g1", Members: []string{"alice", "bob", "carol"}}
	r, reg := newTestRouter(map[string]*domain.Group{"g1": g})
	conns := connect(reg, "alice", "bob", "carol")

	mA := &domain.Message{ID: "a", Sender: "alice", GroupID: "g1"}
	mB := &domain.Message{ID: "b", Sender: "bob", GroupID: "g1"}
	require.NoError(t, r.DeliverGroupMessage(context.Background(), conns["alice"], mA))
	require.NoError(t, r.DeliverGroupMessage(context.Background(), conns["bob"], mB))

	assert.Len(t, conns["alice"].pushes, 1) // bob's message only
	assert.Len(t, conns["bob"].pushes, 1)   // alice's message only
	assert.Len(t, conns["carol"].pushes, 2) // both
}
