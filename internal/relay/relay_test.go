package relay

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/eonchat/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emittedEvent struct {
	Room    string
	Event   string
	Payload interface{}
}

// fakeRouter records emits synchronously
type fakeRouter struct {
	mu     sync.Mutex
	events []emittedEvent
	order  []string
}

func (f *fakeRouter) Emit(room, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emittedEvent{Room: room, Event: event, Payload: payload})
	f.order = append(f.order, "emit")
}

func (f *fakeRouter) emitted() []emittedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]emittedEvent, len(f.events))
	copy(out, f.events)
	return out
}

// fakeNotificationRepo records saves; only CreateNotification matters here
type fakeNotificationRepo struct {
	mu    sync.Mutex
	saved []models.Notification
	order *fakeRouter // shares the ordering log when set
	fail  error
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.order != nil {
		f.order.mu.Lock()
		f.order.order = append(f.order.order, "persist")
		f.order.mu.Unlock()
	}
	if f.fail != nil {
		return f.fail
	}
	f.saved = append(f.saved, *n)
	return nil
}

func (f *fakeNotificationRepo) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakeNotificationRepo) GetByUserID(string) ([]models.Notification, error) { return nil, nil }
func (f *fakeNotificationRepo) GetUnreadCount(string) (int64, error)              { return 0, nil }
func (f *fakeNotificationRepo) MarkAsRead(uint) error                             { return nil }
func (f *fakeNotificationRepo) MarkAllAsRead(string) error                        { return nil }
func (f *fakeNotificationRepo) PopLatest(string) error                            { return nil }
func (f *fakeNotificationRepo) Clear(string) error                                { return nil }

func newTestRelay() (*Relay, *fakeRouter, *fakeNotificationRepo) {
	router := &fakeRouter{}
	repo := &fakeNotificationRepo{order: router}
	return New(router, repo), router, repo
}

func TestRouteMessageEmitsToReceiverRoom(t *testing.T) {
	rly, router, repo := newTestRelay()

	rly.RouteMessage(&MessageEvent{
		Sender:   Identity{ID: "aaa", Username: "alice1"},
		Receiver: Identity{ID: "bbb"},
		Content:  "hey",
	})

	events := router.emitted()
	require.Len(t, events, 1)
	assert.Equal(t, "bbb", events[0].Room)
	assert.Equal(t, EventMessageReceived, events[0].Event)

	require.Eventually(t, func() bool { return repo.savedCount() == 1 }, time.Second, 5*time.Millisecond)
	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, "bbb", repo.saved[0].UserID)
	assert.Equal(t, models.NotificationTypeMessage, repo.saved[0].Type)
	assert.Equal(t, "New message from alice1", repo.saved[0].Message)
}

func TestRouteMessageNormalizesBareIdentities(t *testing.T) {
	// Receiver arrives as a bare string id and the timestamp is missing;
	// the emitted payload must still carry {_id, ...} objects and a valid
	// creation time.
	raw := []byte(`{"receiver":"bbb","content":"hi"}`)
	var ev MessageEvent
	require.NoError(t, json.Unmarshal(raw, &ev))

	rly, router, _ := newTestRelay()
	rly.RouteMessage(&ev)

	events := router.emitted()
	require.Len(t, events, 1)

	out, err := json.Marshal(events[0].Payload)
	require.NoError(t, err)

	var shape struct {
		Sender    map[string]interface{} `json:"sender"`
		Receiver  map[string]interface{} `json:"receiver"`
		Timestamp time.Time              `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(out, &shape))
	assert.Equal(t, "bbb", shape.Receiver["_id"])
	assert.Contains(t, shape.Sender, "_id")
	assert.False(t, shape.Timestamp.IsZero())
	assert.WithinDuration(t, time.Now(), shape.Timestamp, time.Minute)
}

func TestRouteMessageMissingReceiverDropped(t *testing.T) {
	rly, router, repo := newTestRelay()

	rly.RouteMessage(&MessageEvent{Sender: Identity{ID: "aaa"}, Content: "lost"})

	assert.Empty(t, router.emitted())
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, repo.savedCount())
}

func TestRouteMessageNoDedup(t *testing.T) {
	// A retried emit reaches the relay twice; the relay forwards both and
	// an id-deduping consumer ends up with exactly one visible message.
	rly, router, _ := newTestRelay()

	ev := &MessageEvent{
		ID:       "m1",
		Sender:   Identity{ID: "aaa"},
		Receiver: Identity{ID: "bbb"},
		Content:  "hey",
	}
	rly.RouteMessage(ev)
	rly.RouteMessage(ev)

	events := router.emitted()
	require.Len(t, events, 2)

	seen := map[string]bool{}
	visible := 0
	for _, e := range events {
		m := e.Payload.(*MessageEvent)
		if !seen[m.ID] {
			seen[m.ID] = true
			visible++
		}
	}
	assert.Equal(t, 1, visible)
}

func TestEmitBeforePersist(t *testing.T) {
	rly, router, repo := newTestRelay()

	rly.RouteMessage(&MessageEvent{
		Sender:   Identity{ID: "aaa"},
		Receiver: Identity{ID: "bbb"},
		Content:  "ordering",
	})

	require.Eventually(t, func() bool { return repo.savedCount() == 1 }, time.Second, 5*time.Millisecond)
	router.mu.Lock()
	defer router.mu.Unlock()
	require.Len(t, router.order, 2)
	assert.Equal(t, []string{"emit", "persist"}, router.order)
}

func TestNotificationFailureOnlyLogged(t *testing.T) {
	router := &fakeRouter{}
	repo := &fakeNotificationRepo{fail: assert.AnError, order: router}
	rly := New(router, repo)

	rly.RouteMessage(&MessageEvent{
		Sender:   Identity{ID: "aaa"},
		Receiver: Identity{ID: "bbb"},
		Content:  "still delivered",
	})

	// the emission happened regardless of the failing save
	require.Len(t, router.emitted(), 1)
	require.Eventually(t, func() bool {
		router.mu.Lock()
		defer router.mu.Unlock()
		return len(router.order) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestRouteFriendRequest(t *testing.T) {
	rly, router, repo := newTestRelay()

	rly.RouteFriendRequest(&FriendRequestEvent{
		ReceiverID: "bbb",
		Request:    json.RawMessage(`{"_id":"r1","sender":{"_id":"aaa","username":"alice1"}}`),
	})

	events := router.emitted()
	require.Len(t, events, 1)
	assert.Equal(t, "bbb", events[0].Room)
	assert.Equal(t, EventRequestReceived, events[0].Event)

	require.Eventually(t, func() bool { return repo.savedCount() == 1 }, time.Second, 5*time.Millisecond)
	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, models.NotificationTypeRequest, repo.saved[0].Type)
	assert.Equal(t, "New friend request from alice1", repo.saved[0].Message)
}

func TestRouteFriendRemovalOfflineRecipient(t *testing.T) {
	// No hub, no sockets: emitting into an empty room must not panic and
	// the notification row is still attempted.
	hub := NewHub()
	go hub.Run()
	repo := &fakeNotificationRepo{}
	rly := New(hub, repo)

	assert.NotPanics(t, func() {
		rly.RouteFriendRemoval(&RemoveFriendEvent{FriendID: "offline", UserID: "aaa"})
	})
	assert.Zero(t, hub.RoomSize("offline"))
	require.Eventually(t, func() bool { return repo.savedCount() == 1 }, time.Second, 5*time.Millisecond)
	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, models.NotificationTypeAlert, repo.saved[0].Type)
}

func TestRouteFriendAcceptanceNoNotification(t *testing.T) {
	rly, router, repo := newTestRelay()

	rly.RouteFriendAcceptance(&AcceptRequestEvent{
		SenderID: "aaa",
		User:     json.RawMessage(`{"_id":"bbb","username":"bob2"}`),
	})

	events := router.emitted()
	require.Len(t, events, 1)
	assert.Equal(t, "aaa", events[0].Room)
	assert.Equal(t, EventRequestAccepted, events[0].Event)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, repo.savedCount())
}
