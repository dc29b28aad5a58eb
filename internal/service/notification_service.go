package service

import (
	"context"
	"errors"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/adapter/nats"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/metrics"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
)

type NotificationService interface {
	// NotifyUser persists a notification for one user and publishes it on
	// the bus for live delivery.
	NotifyUser(ctx context.Context, userID, notifType, title, body string) error
	// NotifyAdmins persists a single admin-inbox notification and publishes
	// it to the admin websocket group.
	NotifyAdmins(ctx context.Context, notifType, title, body string) error
	List(ctx context.Context, userID string, adminInbox, onlyUnread bool, page, pageSize int) (*repository.ListNotificationsResult, error)
	MarkRead(ctx context.Context, notificationID, ownerID string) error
	MarkAllRead(ctx context.Context, ownerID string) error
	UnreadCount(ctx context.Context, ownerID string) (int64, error)
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	publisher nats.MessagePublisher
	metrics   *metrics.Manager
	log       logger.Logger
}

func NewNotificationService(
	notifRepo repository.NotificationRepository,
	publisher nats.MessagePublisher,
	metricsManager *metrics.Manager,
	log logger.Logger,
) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		publisher: publisher,
		metrics:   metricsManager,
		log:       log,
	}
}

func (s *notificationService) create(ctx context.Context, userID, notifType, title, body string, admin bool) error {
	notification := &entity.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.notifRepo.Create(ctx, notification)
	if err != nil {
		return err
	}
	notification.ID = id
	s.metrics.NotificationsSentTotal.Inc()

	event := Event{
		Event:  "NewNotification",
		UserID: userID,
		Admin:  admin,
		Data:   notification,
	}
	if err := s.publisher.Publish(ctx, SubjectNotificationCreated, event); err != nil {
		// Delivery over the bus is best effort; the notification is stored.
		s.log.Warnf("Failed to publish notification %s: %v", id, err)
	}

	s.publishUnreadCount(ctx, userID, admin)
	return nil
}

func (s *notificationService) publishUnreadCount(ctx context.Context, ownerID string, admin bool) {
	count, err := s.notifRepo.CountUnread(ctx, ownerID)
	if err != nil {
		s.log.Warnf("Failed to count unread notifications for %q: %v", ownerID, err)
		return
	}
	event := Event{
		Event:  "UnreadCountChanged",
		UserID: ownerID,
		Admin:  admin,
		Data:   map[string]int64{"unread": count},
	}
	if err := s.publisher.Publish(ctx, SubjectNotificationUnread, event); err != nil {
		s.log.Warnf("Failed to publish unread count for %q: %v", ownerID, err)
	}
}

func (s *notificationService) NotifyUser(ctx context.Context, userID, notifType, title, body string) error {
	if userID == "" {
		return domain.NewValidation("notification target user cannot be empty")
	}
	return s.create(ctx, userID, notifType, title, body, false)
}

func (s *notificationService) NotifyAdmins(ctx context.Context, notifType, title, body string) error {
	return s.create(ctx, "", notifType, title, body, true)
}

func (s *notificationService) List(ctx context.Context, userID string, adminInbox, onlyUnread bool, page, pageSize int) (*repository.ListNotificationsResult, error) {
	return s.notifRepo.List(ctx, repository.ListNotificationsParams{
		UserID:     userID,
		AdminInbox: adminInbox,
		OnlyUnread: onlyUnread,
		Page:       page,
		PageSize:   pageSize,
	})
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, ownerID string) error {
	err := s.notifRepo.MarkRead(ctx, notificationID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFound("notification %s not found", notificationID)
		}
		return err
	}
	s.publishUnreadCount(ctx, ownerID, ownerID == "")
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, ownerID string) error {
	if err := s.notifRepo.MarkAllRead(ctx, ownerID); err != nil {
		return err
	}
	s.publishUnreadCount(ctx, ownerID, ownerID == "")
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, ownerID string) (int64, error) {
	return s.notifRepo.CountUnread(ctx, ownerID)
}
