package models

import "time"

// Notification types appended by the relay
const (
	NotificationTypeMessage = "message"
	NotificationTypeRequest = "request"
	NotificationTypeAlert   = "alert"
)

// Notification represents a persisted notification record (PostgreSQL).
// Rows are appended by the fan-out relay so an offline recipient still sees
// a badge after a refresh; the authoritative message/request copy lives in
// the REST write path, not here.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user" gorm:"size:24;index"` // recipient's user id
	Message   string    `json:"message"`
	Type      string    `json:"type" gorm:"size:20;index"` // message, request, alert
	IsRead    bool      `json:"isRead" gorm:"default:false;index"`
	CreatedAt time.Time `json:"timestamp" gorm:"index"`
}
