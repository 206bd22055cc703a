package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection. Its user identity comes from the
// verified token at upgrade time, never from event payloads.
type Client struct {
	id       string
	userID   string
	username string
	hub      *Hub
	relay    *Relay
	conn     *websocket.Conn
	send     chan []byte
}

// ServeWS upgrades an authenticated HTTP request to a websocket session.
// The caller has already verified the bearer token and passes the derived
// identity in.
func ServeWS(hub *Hub, rly *Relay, w http.ResponseWriter, r *http.Request, userID, username string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		id:       uuid.New().String(),
		userID:   userID,
		username: username,
		hub:      hub,
		relay:    rly,
		conn:     conn,
		send:     make(chan []byte, 256),
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("relay: websocket error for user %s: %v", c.userID, err)
			}
			break
		}
		c.handleFrame(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleFrame dispatches one inbound envelope. A malformed frame is dropped
// and logged; nothing a client sends may terminate its connection or the
// process.
func (c *Client) handleFrame(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("relay: dropping malformed frame from user %s: %v", c.userID, err)
		return
	}

	switch env.Event {
	case EventSetup:
		// Join the session's own user-id room. The id comes from the
		// verified token, so a client cannot claim someone else's room.
		c.hub.Join(c, c.userID)
		c.emit(EventConnected, nil)

	case EventJoinChat:
		var room string
		if err := json.Unmarshal(env.Data, &room); err != nil || room == "" {
			log.Printf("relay: dropping join_chat without room from user %s", c.userID)
			return
		}
		// chat-room membership only scopes read-state UI; delivery always
		// targets user-id rooms
		c.hub.Join(c, room)

	case EventNewMessage:
		var ev MessageEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			log.Printf("relay: dropping malformed message event from user %s: %v", c.userID, err)
			return
		}
		// sender identity is re-derived from the session, whatever the
		// payload claimed
		ev.Sender = Identity{ID: c.userID, Username: c.username}
		c.relay.RouteMessage(&ev)

	case EventSendFriendRequest:
		var ev FriendRequestEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			log.Printf("relay: dropping malformed friend request event from user %s: %v", c.userID, err)
			return
		}
		c.relay.RouteFriendRequest(&ev)

	case EventRemoveFriend:
		var ev RemoveFriendEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			log.Printf("relay: dropping malformed remove friend event from user %s: %v", c.userID, err)
			return
		}
		ev.UserID = c.userID
		c.relay.RouteFriendRemoval(&ev)

	case EventAcceptRequest:
		var ev AcceptRequestEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			log.Printf("relay: dropping malformed accept event from user %s: %v", c.userID, err)
			return
		}
		c.relay.RouteFriendAcceptance(&ev)

	default:
		log.Printf("relay: unknown event %q from user %s", env.Event, c.userID)
	}
}

func (c *Client) emit(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}
