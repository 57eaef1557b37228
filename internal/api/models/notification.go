package models

// Notification is a message shown to the user.
type Notification struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt Timestamp `json:"createdAt"`
}

// NotificationList is the response of the notification list endpoint.
type NotificationList struct {
	Items []Notification `json:"items"`
}

// UnreadCount is the number of unread notifications.
type UnreadCount struct {
	Count int `json:"count"`
}
