package mongo

import (
	"context"
	"errors"
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

const orderCollectionName = "orders"

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.OrderRepository {
	return &orderRepository{
		collection: client.Database(cfg.Database).Collection(orderCollectionName),
	}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) (string, error) {
	model, err := toOrderModel(order)
	if err != nil {
		return "", err
	}

	res, err := r.collection.InsertOne(ctx, model)
	if err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	objID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID format: %w", repository.ErrNotFound)
	}

	var model orderModel
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", orderID, err)
	}
	return model.toEntity()
}

// Update replaces the document, filtering on the version the caller loaded.
// A zero match with a surviving document means someone else got there first.
func (r *orderRepository) Update(ctx context.Context, order *entity.Order, expectedVersion int) error {
	model, err := toOrderModel(order)
	if err != nil {
		return err
	}
	model.UpdatedAt = time.Now().UTC()

	filter := bson.M{
		"_id":     model.ID,
		"version": expectedVersion,
	}
	res, err := r.collection.ReplaceOne(ctx, filter, model)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ID, err)
	}

	if res.MatchedCount == 0 {
		var existing orderModel
		errFind := r.collection.FindOne(ctx, bson.M{"_id": model.ID}).Decode(&existing)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind == nil && existing.Version != expectedVersion {
			return repository.ErrOptimisticLock
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *orderRepository) List(ctx context.Context, params repository.ListOrdersParams) (*repository.ListOrdersResult, error) {
	filter := bson.M{}
	if params.UserID != "" {
		filter["user_id"] = params.UserID
	}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	findOptions := options.Find()
	if params.PageSize > 0 {
		if params.Page <= 0 {
			params.Page = 1
		}
		findOptions.SetSkip(int64((params.Page - 1) * params.PageSize))
		findOptions.SetLimit(int64(params.PageSize))
	}

	if params.SortBy != "" {
		sortDir := 1
		if params.SortDir == "desc" {
			sortDir = -1
		}
		findOptions.SetSort(bson.D{{Key: params.SortBy, Value: sortDir}})
	} else {
		findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var models []orderModel
	if err = cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("failed to decode listed orders: %w", err)
	}

	orders := make([]entity.Order, 0, len(models))
	for i := range models {
		o, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (int(totalCount) + params.PageSize - 1) / params.PageSize
	} else if totalCount > 0 {
		totalPages = 1
	}

	return &repository.ListOrdersResult{
		Orders:      orders,
		TotalCount:  totalCount,
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		TotalPages:  totalPages,
	}, nil
}
