package model

import "time"

// NotificationVariant selects how a notification is rendered
type NotificationVariant string

const (
	NotificationDefault     NotificationVariant = "default"
	NotificationDestructive NotificationVariant = "destructive"
)

// Notification is a user-visible outcome message
type Notification struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Variant     NotificationVariant `json:"variant"`
	CreatedAt   time.Time           `json:"createdAt"`
}
