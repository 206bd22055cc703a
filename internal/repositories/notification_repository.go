package repositories

import (
	"errors"

	"github.com/eonchat/server/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByUserID(userID string) ([]models.Notification, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(notificationID uint) error
	MarkAllAsRead(userID string) error
	PopLatest(userID string) error
	Clear(userID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetByUserID returns the user's notifications oldest first. Clients build
// a LIFO stack by pushing in order, so the feed must be ascending.
func (r *postgresNotificationRepository) GetByUserID(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = false", userID).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(notificationID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(userID string) error {
	return r.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = false", userID).Update("is_read", true).Error
}

// PopLatest deletes the user's newest notification (top of the stack).
// Popping an empty stack is a no-op.
func (r *postgresNotificationRepository) PopLatest(userID string) error {
	var latest models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.db.Delete(&latest).Error
}

// Clear removes every notification owned by the user
func (r *postgresNotificationRepository) Clear(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error
}
