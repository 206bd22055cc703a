// Package relay routes realtime events between connected users. Each user
// owns a room named by their user id; cross-user events are emitted into
// the recipient's room and, independently, recorded as a notification row
// for offline recovery. The relay is not the system of record: the REST
// write path has already persisted the authoritative copy before anything
// reaches it.
package relay

import (
	"log"
	"time"

	"github.com/eonchat/server/internal/models"
	"github.com/eonchat/server/internal/repositories"
)

// Router is the room capability the relay needs from the transport:
// emitting a payload to every connection currently joined to a room.
// Emitting into an empty room delivers to nobody and is not an error.
type Router interface {
	Emit(room, event string, payload interface{})
}

// Relay fans out message, friend-request and friendship-change events.
// Delivery is best-effort at-least-once; duplicate suppression by entity id
// is the consumer's job.
type Relay struct {
	router        Router
	notifications repositories.NotificationRepository
}

// New creates a Relay on top of a room router and a notification store
func New(router Router, notifications repositories.NotificationRepository) *Relay {
	return &Relay{router: router, notifications: notifications}
}

// RouteMessage forwards a chat message to the receiver's room and appends
// an offline notification. The emit happens before the persistence kicks
// off: latency of the live path must never wait on the store.
func (r *Relay) RouteMessage(ev *MessageEvent) {
	if ev == nil || ev.Receiver.ID == "" {
		log.Println("relay: dropping message event without receiver id")
		return
	}
	ev.Normalize(time.Now())

	r.router.Emit(ev.Receiver.ID, EventMessageReceived, ev)
	r.notify(ev.Receiver.ID, "New message from "+ev.Sender.DisplayName(), models.NotificationTypeMessage)
}

// RouteFriendRequest forwards a friend request to the receiver's room and
// appends an offline notification.
func (r *Relay) RouteFriendRequest(ev *FriendRequestEvent) {
	if ev == nil || ev.ReceiverID == "" {
		log.Println("relay: dropping friend request event without receiver id")
		return
	}

	r.router.Emit(ev.ReceiverID, EventRequestReceived, ev.Request)
	r.notify(ev.ReceiverID, "New friend request from "+ev.SenderIdentity().DisplayName(), models.NotificationTypeRequest)
}

// RouteFriendRemoval tells the removed user which friendship to evict. The
// acting user id travels in the payload; the recipient's client closes any
// open conversation with that party.
func (r *Relay) RouteFriendRemoval(ev *RemoveFriendEvent) {
	if ev == nil || ev.FriendID == "" {
		log.Println("relay: dropping remove friend event without target id")
		return
	}

	r.router.Emit(ev.FriendID, EventFriendRemoved, ev.UserID)
	r.notify(ev.FriendID, "Someone removed you from their friends list", models.NotificationTypeAlert)
}

// RouteFriendAcceptance tells the original requester their request was
// accepted, carrying the accepting user's identity. No notification row is
// written for acceptances.
func (r *Relay) RouteFriendAcceptance(ev *AcceptRequestEvent) {
	if ev == nil || ev.SenderID == "" {
		log.Println("relay: dropping accept event without sender id")
		return
	}

	r.router.Emit(ev.SenderID, EventRequestAccepted, ev.User)
}

// notify appends a notification record in the background. Fire-and-forget:
// a failed save is logged and nothing else, because the REST write path
// already holds the authoritative copy.
func (r *Relay) notify(userID, text, kind string) {
	n := &models.Notification{
		UserID:  userID,
		Message: text,
		Type:    kind,
	}
	go func() {
		if err := r.notifications.CreateNotification(n); err != nil {
			log.Printf("relay: notification save failed for user %s: %v", userID, err)
		}
	}()
}
