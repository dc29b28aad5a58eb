package service

import (
	"context"
	"testing"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/metrics"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationService_NotifyUser(t *testing.T) {
	notifRepo := new(MockNotificationRepository)
	publisher := new(MockPublisher)
	svc := NewNotificationService(notifRepo, publisher, metrics.NewManager("test"), logger.NewNop())

	notifRepo.On("Create", mock.Anything, mock.Anything).Return("n1", nil)
	notifRepo.On("CountUnread", mock.Anything, "u1").Return(int64(3), nil)
	publisher.On("Publish", mock.Anything, SubjectNotificationCreated, mock.MatchedBy(func(e Event) bool {
		return e.Event == "NewNotification" && e.UserID == "u1" && !e.Admin
	})).Return(nil)
	publisher.On("Publish", mock.Anything, SubjectNotificationUnread, mock.MatchedBy(func(e Event) bool {
		return e.Event == "UnreadCountChanged" && e.UserID == "u1"
	})).Return(nil)

	err := svc.NotifyUser(context.Background(), "u1", entity.NotificationOrderUpdated, "Order approved", "Your order was approved")

	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestNotificationService_NotifyUser_EmptyTarget(t *testing.T) {
	notifRepo := new(MockNotificationRepository)
	svc := NewNotificationService(notifRepo, new(MockPublisher), metrics.NewManager("test"), logger.NewNop())

	err := svc.NotifyUser(context.Background(), "", entity.NotificationOrderUpdated, "t", "b")

	assert.IsType(t, &domain.ValidationError{}, err)
	notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotificationService_NotifyAdmins_TargetsAdminGroup(t *testing.T) {
	notifRepo := new(MockNotificationRepository)
	publisher := new(MockPublisher)
	svc := NewNotificationService(notifRepo, publisher, metrics.NewManager("test"), logger.NewNop())

	notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.UserID == ""
	})).Return("n1", nil)
	notifRepo.On("CountUnread", mock.Anything, "").Return(int64(1), nil)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e Event) bool {
		return e.Admin
	})).Return(nil)

	err := svc.NotifyAdmins(context.Background(), entity.NotificationOrderCreated, "New order", "Order o1 needs review")

	assert.NoError(t, err)
	notifRepo.AssertExpectations(t)
}

func TestNotificationService_StoredEvenIfPublishFails(t *testing.T) {
	notifRepo := new(MockNotificationRepository)
	publisher := new(MockPublisher)
	svc := NewNotificationService(notifRepo, publisher, metrics.NewManager("test"), logger.NewNop())

	notifRepo.On("Create", mock.Anything, mock.Anything).Return("n1", nil)
	notifRepo.On("CountUnread", mock.Anything, "u1").Return(int64(1), nil)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	err := svc.NotifyUser(context.Background(), "u1", entity.NotificationOrderUpdated, "t", "b")

	assert.NoError(t, err)
}

func TestNotificationService_MarkRead_NotFound(t *testing.T) {
	notifRepo := new(MockNotificationRepository)
	svc := NewNotificationService(notifRepo, new(MockPublisher), metrics.NewManager("test"), logger.NewNop())

	notifRepo.On("MarkRead", mock.Anything, "n1", "u1").Return(repository.ErrNotFound)

	err := svc.MarkRead(context.Background(), "n1", "u1")

	assert.IsType(t, &domain.NotFoundError{}, err)
}
