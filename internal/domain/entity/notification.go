package entity

import "time"

const (
	NotificationOrderCreated  = "order_created"
	NotificationOrderUpdated  = "order_updated"
	NotificationContactSubmit = "contact_submitted"
)

// Notification is a persisted message shown in the bell menu. An empty
// UserID means the notification targets the admin group.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Body      string
	Read      bool
	CreatedAt time.Time
}

// ContactMessage is a stored contact-form submission.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
