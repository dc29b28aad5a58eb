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

const contactCollectionName = "contact_messages"

type contactMessageModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"created_at"`
}

type contactRepository struct {
	collection *mongo.Collection
}

func NewContactRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ContactRepository {
	return &contactRepository{
		collection: client.Database(cfg.Database).Collection(contactCollectionName),
	}
}

func (r *contactRepository) Create(ctx context.Context, message *entity.ContactMessage) (string, error) {
	model := contactMessageModel{
		Name:      message.Name,
		Email:     message.Email,
		Message:   message.Message,
		CreatedAt: message.CreatedAt,
	}

	res, err := r.collection.InsertOne(ctx, model)
	if err != nil {
		return "", fmt.Errorf("failed to create contact message: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *contactRepository) List(ctx context.Context, page, pageSize int) ([]entity.ContactMessage, int64, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if pageSize > 0 {
		if page <= 0 {
			page = 1
		}
		findOptions.SetSkip(int64((page - 1) * pageSize))
		findOptions.SetLimit(int64(pageSize))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer cursor.Close(ctx)

	var models []contactMessageModel
	if err = cursor.All(ctx, &models); err != nil {
		return nil, 0, fmt.Errorf("failed to decode listed contact messages: %w", err)
	}

	messages := make([]entity.ContactMessage, 0, len(models))
	for _, m := range models {
		messages = append(messages, entity.ContactMessage{
			ID:        m.ID.Hex(),
			Name:      m.Name,
			Email:     m.Email,
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
		})
	}

	totalCount, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}
	return messages, totalCount, nil
}
