package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/app/config"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationCollectionName = "notifications"

// UserID is stored even when empty: the empty string marks the admin inbox
// and the owner filters match on it.
type notificationModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Type      string             `bson:"type"`
	Title     string             `bson:"title"`
	Body      string             `bson:"body"`
	Read      bool               `bson:"read"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (m *notificationModel) toEntity() *entity.Notification {
	return &entity.Notification{
		ID:        m.ID.Hex(),
		UserID:    m.UserID,
		Type:      m.Type,
		Title:     m.Title,
		Body:      m.Body,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

type notificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.NotificationRepository {
	return &notificationRepository{
		collection: client.Database(cfg.Database).Collection(notificationCollectionName),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) (string, error) {
	model := notificationModel{
		UserID:    notification.UserID,
		Type:      notification.Type,
		Title:     notification.Title,
		Body:      notification.Body,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}

	res, err := r.collection.InsertOne(ctx, model)
	if err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func ownerFilter(params repository.ListNotificationsParams) bson.M {
	if params.AdminInbox {
		return bson.M{"user_id": ""}
	}
	return bson.M{"user_id": params.UserID}
}

func (r *notificationRepository) List(ctx context.Context, params repository.ListNotificationsParams) (*repository.ListNotificationsResult, error) {
	filter := ownerFilter(params)
	if params.OnlyUnread {
		filter["read"] = false
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.PageSize > 0 {
		if params.Page <= 0 {
			params.Page = 1
		}
		findOptions.SetSkip(int64((params.Page - 1) * params.PageSize))
		findOptions.SetLimit(int64(params.PageSize))
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var models []notificationModel
	if err = cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("failed to decode listed notifications: %w", err)
	}

	notifications := make([]entity.Notification, 0, len(models))
	for i := range models {
		notifications = append(notifications, *models[i].toEntity())
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (int(totalCount) + params.PageSize - 1) / params.PageSize
	} else if totalCount > 0 {
		totalPages = 1
	}

	return &repository.ListNotificationsResult{
		Notifications: notifications,
		TotalCount:    totalCount,
		CurrentPage:   params.Page,
		PageSize:      params.PageSize,
		TotalPages:    totalPages,
	}, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, ownerID string) error {
	objID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %w", repository.ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "user_id": ownerID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, ownerID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": ownerID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, ownerID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": ownerID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
