package repositories

import (
	"fmt"

	"github.com/eonchat/server/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friend-request data operations
type FriendshipRepository interface {
	SendFriendRequest(req *models.FriendRequest) error
	GetFriendRequestByID(id uint) (*models.FriendRequest, error)
	GetUserPendingFriendRequests(receiverID string) ([]models.FriendRequest, error)
	HasPendingRequest(senderID, receiverID string) (bool, error)
	AcceptFriendRequest(id uint) error
	DeleteRequestsBetween(userID, otherID string) error
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// SendFriendRequest creates a new pending friend request. A duplicate
// pending request in the same direction is rejected.
func (r *PostgresFriendshipRepository) SendFriendRequest(req *models.FriendRequest) error {
	exists, err := r.HasPendingRequest(req.SenderID, req.ReceiverID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("a pending friend request already exists between these users")
	}

	req.Status = "pending"
	return r.db.Create(req).Error
}

// GetFriendRequestByID retrieves a friend request by ID
func (r *PostgresFriendshipRepository) GetFriendRequestByID(id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetUserPendingFriendRequests retrieves all pending friend requests
// addressed to the user
func (r *PostgresFriendshipRepository) GetUserPendingFriendRequests(receiverID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.Where("receiver_id = ? AND status = ?", receiverID, "pending").
		Order("created_at asc").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// HasPendingRequest reports whether a pending request from sender to
// receiver already exists
func (r *PostgresFriendshipRepository) HasPendingRequest(senderID, receiverID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, receiverID, "pending").
		Count(&count).Error
	return count > 0, err
}

// AcceptFriendRequest marks the request accepted. The single allowed
// status transition; edge creation on the user documents happens at the
// handler level.
func (r *PostgresFriendshipRepository) AcceptFriendRequest(id uint) error {
	return r.db.Model(&models.FriendRequest{}).Where("id = ?", id).
		Update("status", "accepted").Error
}

// DeleteRequestsBetween removes every request between the two users in
// either direction. Called on unfriend so a fresh request can be sent later.
func (r *PostgresFriendshipRepository) DeleteRequestsBetween(userID, otherID string) error {
	return r.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, otherID, otherID, userID).
		Delete(&models.FriendRequest{}).Error
}
