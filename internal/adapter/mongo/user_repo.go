package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/app/config"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.UserRepository {
	return &userRepository{
		collection: client.Database(cfg.Database).Collection(userCollectionName),
	}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	model, err := toUserModel(user)
	if err != nil {
		return "", err
	}

	res, err := r.collection.InsertOne(ctx, model)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", repository.ErrNotFound)
	}

	var model userModel
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", userID, err)
	}
	return model.toEntity()
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var model userModel
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return model.toEntity()
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	model, err := toUserModel(user)
	if err != nil {
		return err
	}
	model.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": model.ID}, model)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetActive(ctx context.Context, userID string, active bool) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", repository.ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"active": active, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to set user active flag: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, params repository.ListUsersParams) (*repository.ListUsersResult, error) {
	filter := bson.M{}
	if params.Role != "" {
		filter["role"] = params.Role
	}
	if params.Query != "" {
		filter["$or"] = bson.A{
			bson.M{"email": bson.M{"$regex": params.Query, "$options": "i"}},
			bson.M{"name": bson.M{"$regex": params.Query, "$options": "i"}},
		}
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
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var models []userModel
	if err = cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("failed to decode listed users: %w", err)
	}

	users := make([]entity.User, 0, len(models))
	for i := range models {
		u, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (int(totalCount) + params.PageSize - 1) / params.PageSize
	} else if totalCount > 0 {
		totalPages = 1
	}

	return &repository.ListUsersResult{
		Users:       users,
		TotalCount:  totalCount,
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		TotalPages:  totalPages,
	}, nil
}
