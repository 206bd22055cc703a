package models

import "gorm.io/gorm"

// FriendRequest represents a friend request between two users (PostgreSQL).
// Sender and receiver ids are the hex ids of the Mongo user documents. The
// status only ever transitions pending -> accepted; acceptance is what adds
// the edge to both users' friends arrays.
type FriendRequest struct {
	gorm.Model
	SenderID   string `json:"sender_id" gorm:"size:24;index"`
	ReceiverID string `json:"receiver_id" gorm:"size:24;index"`
	Status     string `json:"status" gorm:"type:varchar(20);default:'pending'"` // "pending" or "accepted"
}

// PopulatedFriendRequest is a FriendRequest with the sender's public
// identity attached, matching what the realtime channel carries.
type PopulatedFriendRequest struct {
	FriendRequest
	Sender UserCompact `json:"sender"`
}

// CreateFriendRequest defines the request body for sending a friend request
type CreateFriendRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
}

// AcceptFriendRequest defines the request body for accepting a friend request
type AcceptFriendRequest struct {
	RequestID uint `json:"requestId" validate:"required"`
}
