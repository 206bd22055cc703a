package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a one-to-one chat message document. Immutable after creation
// except for the read flag; all messages between two users are deleted when
// their friendship is removed.
type Message struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Receiver  primitive.ObjectID `json:"receiver" bson:"receiver"`
	Content   string             `json:"content" bson:"content"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
}

// PopulatedMessage carries the sender's public identity alongside the
// message so the receiving client can render it without an extra fetch.
type PopulatedMessage struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Sender    UserCompact        `json:"sender" bson:"sender"`
	Receiver  primitive.ObjectID `json:"receiver" bson:"receiver"`
	Content   string             `json:"content" bson:"content"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required"`
}
