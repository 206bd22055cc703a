package relay

import (
	"encoding/json"
	"time"
)

// Inbound socket events (client -> server)
const (
	EventSetup             = "setup"
	EventJoinChat          = "join_chat"
	EventNewMessage        = "new_message"
	EventSendFriendRequest = "send_friend_request"
	EventRemoveFriend      = "remove_friend"
	EventAcceptRequest     = "accept_friend_request"
)

// Outbound socket events (server -> client)
const (
	EventConnected       = "connected"
	EventMessageReceived = "message_received"
	EventRequestReceived = "friend_request_received"
	EventFriendRemoved   = "friend_removed"
	EventRequestAccepted = "friend_request_accepted"
)

// Envelope is the wire frame in both directions: an event name plus an
// event-specific payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Identity is a user reference on the realtime channel. Clients are sloppy
// about shape and may send a bare hex id string or a populated object;
// UnmarshalJSON accepts both so nothing past this boundary ever branches on
// shape. It always marshals as an object.
type Identity struct {
	ID       string `json:"_id"`
	Username string `json:"username,omitempty"`
}

func (i *Identity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		i.ID = s
		i.Username = ""
		return nil
	}

	var obj struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
		Name  string `json:"username"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	i.ID = obj.ID
	if i.ID == "" {
		i.ID = obj.AltID
	}
	i.Username = obj.Name
	return nil
}

// DisplayName is what notification texts call the user when the payload
// carried no username
func (i Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	return "Someone"
}

// MessageEvent is the payload of new_message / message_received.
type MessageEvent struct {
	ID        string    `json:"_id,omitempty"`
	Sender    Identity  `json:"sender"`
	Receiver  Identity  `json:"receiver"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"isRead"`
}

// Normalize stamps a creation time when the client omitted one. Identity
// shapes are already normalized by unmarshalling.
func (m *MessageEvent) Normalize(now time.Time) {
	if m.Timestamp.IsZero() {
		m.Timestamp = now
	}
}

// FriendRequestEvent is the payload of send_friend_request. The request
// body is relayed verbatim; only the receiver id and the embedded sender
// identity are inspected.
type FriendRequestEvent struct {
	ReceiverID string          `json:"receiverId"`
	Request    json.RawMessage `json:"request"`
}

// SenderIdentity extracts the populated sender from the embedded request,
// tolerating the bare-id shape.
func (e *FriendRequestEvent) SenderIdentity() Identity {
	var req struct {
		Sender Identity `json:"sender"`
	}
	_ = json.Unmarshal(e.Request, &req)
	return req.Sender
}

// RemoveFriendEvent is the payload of remove_friend.
type RemoveFriendEvent struct {
	FriendID string `json:"friendId"`
	UserID   string `json:"userId"`
}

// AcceptRequestEvent is the payload of accept_friend_request: the original
// requester to notify plus the accepting user's identity, relayed verbatim
// so the requester's client can append the new friend without a refetch.
type AcceptRequestEvent struct {
	SenderID string          `json:"senderId"`
	User     json.RawMessage `json:"user"`
}
