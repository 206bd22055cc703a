package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegisteredClient(t *testing.T, hub *Hub, userID string) *Client {
	t.Helper()
	c := &Client{id: userID + "-conn", userID: userID, hub: hub, send: make(chan []byte, 4)}
	hub.register <- c
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clientRooms[c]
		return ok
	}, time.Second, time.Millisecond)
	return c
}

func TestHubEmitDeliversToRoomMembers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	bob := newRegisteredClient(t, hub, "bob")
	hub.Join(bob, "bob")
	eve := newRegisteredClient(t, hub, "eve")
	hub.Join(eve, "eve")

	hub.Emit("bob", EventMessageReceived, map[string]string{"content": "hi"})

	select {
	case frame := <-bob.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		assert.Equal(t, EventMessageReceived, env.Event)
	case <-time.After(time.Second):
		t.Fatal("no frame delivered to room member")
	}

	select {
	case <-eve.send:
		t.Fatal("frame leaked into another user's room")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHubEmitEmptyRoomIsNoOp(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	assert.NotPanics(t, func() {
		hub.Emit("nobody-home", EventFriendRemoved, "aaa")
	})
}

func TestHubUnregisterReleasesRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newRegisteredClient(t, hub, "bob")
	hub.Join(c, "bob")
	hub.Join(c, "chat-with-alice")
	assert.Equal(t, 1, hub.RoomSize("bob"))

	hub.unregister <- c
	require.Eventually(t, func() bool {
		return hub.RoomSize("bob") == 0 && hub.RoomSize("chat-with-alice") == 0
	}, time.Second, time.Millisecond)

	// send channel is closed so writePump can exit
	_, open := <-c.send
	assert.False(t, open)
}

func TestHubMultipleConnectionsSameUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c1 := newRegisteredClient(t, hub, "bob")
	c2 := newRegisteredClient(t, hub, "bob")
	hub.Join(c1, "bob")
	hub.Join(c2, "bob")

	hub.Emit("bob", EventRequestReceived, map[string]string{"_id": "r1"})

	for _, c := range []*Client{c1, c2} {
		select {
		case <-c.send:
		case <-time.After(time.Second):
			t.Fatal("every connection in the room should receive the emit")
		}
	}
}
