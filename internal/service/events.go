package service

// NATS subjects carrying domain events toward the websocket hub.
const (
	SubjectOrderCreated        = "order.created"
	SubjectOrderUpdated        = "order.updated"
	SubjectNotificationCreated = "notification.created"
	SubjectNotificationUnread  = "notification.unread"
)

// Event is the envelope published on the bus and relayed verbatim to
// websocket clients. Admin events carry Admin=true and an empty UserID.
type Event struct {
	Event  string      `json:"event"`
	UserID string      `json:"user_id,omitempty"`
	Admin  bool        `json:"admin,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}
