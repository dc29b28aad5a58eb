package repository

import (
	"context"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
)

type ListNotificationsParams struct {
	UserID     string
	AdminInbox bool
	OnlyUnread bool
	Page       int
	PageSize   int
}

type ListNotificationsResult struct {
	Notifications []entity.Notification
	TotalCount    int64
	CurrentPage   int
	PageSize      int
	TotalPages    int
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) (string, error)
	List(ctx context.Context, params ListNotificationsParams) (*ListNotificationsResult, error)
	// MarkRead flips the read flag; ownerID guards against marking someone
	// else's notification (empty ownerID targets the admin inbox).
	MarkRead(ctx context.Context, notificationID, ownerID string) error
	MarkAllRead(ctx context.Context, ownerID string) error
	CountUnread(ctx context.Context, ownerID string) (int64, error)
}

type ContactRepository interface {
	Create(ctx context.Context, message *entity.ContactMessage) (string, error)
	List(ctx context.Context, page, pageSize int) ([]entity.ContactMessage, int64, error)
}
