// Package notification stores messages shown to users about their trips.
package notification

import (
	"errors"
	"time"
)

// ErrNotificationNotFound is returned when a notification doesn't exist or
// belongs to another user.
var ErrNotificationNotFound = errors.New("notification not found")

// Notification is a message for a user about one of their trips.
type Notification struct {
	ID        string
	UserID    string
	TripID    string
	Message   string
	Read      bool
	CreatedAt time.Time
}
