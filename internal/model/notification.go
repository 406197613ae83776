package model

import "time"

// NotificationType groups notifications for client-side rendering.
type NotificationType string

const (
	NotificationApplicationSubmitted NotificationType = "application_submitted"
	NotificationApplicationStatus    NotificationType = "application_status"
	NotificationSystem               NotificationType = "system"
)

// Notification is an in-app message for one user.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int              `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Link      string           `json:"link,omitempty"`
	RelatedID *string          `json:"related_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
