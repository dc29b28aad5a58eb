package ws

import (
	"encoding/json"
	"fmt"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
	"github.com/nats-io/nats.go"
)

// Subscriber bridges bus events into the hub: every event published by the
// services is routed either to the owning user's group or to the admin group.
type Subscriber struct {
	conn *nats.Conn
	hub  *Hub
	log  logger.Logger
	subs []*nats.Subscription
}

func NewSubscriber(conn *nats.Conn, hub *Hub, log logger.Logger) *Subscriber {
	return &Subscriber{
		conn: conn,
		hub:  hub,
		log:  log,
	}
}

// Start subscribes to every domain event subject.
func (s *Subscriber) Start() error {
	subjects := []string{
		service.SubjectOrderCreated,
		service.SubjectOrderUpdated,
		service.SubjectNotificationCreated,
		service.SubjectNotificationUnread,
	}

	for _, subject := range subjects {
		sub, err := s.conn.Subscribe(subject, s.handleMessage)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
	}
	s.log.Infof("Websocket subscriber listening on %d subjects", len(subjects))
	return nil
}

func (s *Subscriber) handleMessage(msg *nats.Msg) {
	var event service.Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.log.Warnf("Dropping malformed event on %s: %v", msg.Subject, err)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event": event.Event,
		"data":  event.Data,
	})
	if err != nil {
		s.log.Errorf("Failed to encode hub message for %s: %v", msg.Subject, err)
		return
	}

	if event.Admin {
		s.hub.SendToAdmins(payload)
		return
	}
	if event.UserID != "" {
		s.hub.SendToUser(event.UserID, payload)
	}
}

// Stop drains the subscriptions.
func (s *Subscriber) Stop() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.log.Warnf("Failed to unsubscribe from %s: %v", sub.Subject, err)
		}
	}
	s.subs = nil
}
