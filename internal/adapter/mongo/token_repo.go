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

const (
	refreshTokenCollectionName  = "refresh_tokens"
	passwordResetCollectionName = "password_resets"
)

type refreshTokenModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Token     string             `bson:"token"`
	ExpiresAt time.Time          `bson:"expires_at"`
	Revoked   bool               `bson:"revoked"`
	RevokedAt *time.Time         `bson:"revoked_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

type refreshTokenRepository struct {
	collection *mongo.Collection
}

func NewRefreshTokenRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.RefreshTokenRepository {
	return &refreshTokenRepository{
		collection: client.Database(cfg.Database).Collection(refreshTokenCollectionName),
	}
}

func (r *refreshTokenRepository) Store(ctx context.Context, token *entity.RefreshToken) (string, error) {
	model := refreshTokenModel{
		UserID:    token.UserID,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		Revoked:   token.Revoked,
		RevokedAt: token.RevokedAt,
		CreatedAt: token.CreatedAt,
	}

	res, err := r.collection.InsertOne(ctx, model)
	if err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	var model refreshTokenModel
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &entity.RefreshToken{
		ID:        model.ID.Hex(),
		UserID:    model.UserID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		Revoked:   model.Revoked,
		RevokedAt: model.RevokedAt,
		CreatedAt: model.CreatedAt,
	}, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"token": token, "revoked": false},
		bson.M{"$set": bson.M{"revoked": true, "revoked_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "revoked": false},
		bson.M{"$set": bson.M{"revoked": true, "revoked_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for user %s: %w", userID, err)
	}
	return nil
}

type passwordResetModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Code      string             `bson:"code"`
	ExpiresAt time.Time          `bson:"expires_at"`
	Used      bool               `bson:"used"`
	CreatedAt time.Time          `bson:"created_at"`
}

type passwordResetRepository struct {
	collection *mongo.Collection
}

func NewPasswordResetRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.PasswordResetRepository {
	return &passwordResetRepository{
		collection: client.Database(cfg.Database).Collection(passwordResetCollectionName),
	}
}

func (r *passwordResetRepository) Store(ctx context.Context, request *entity.PasswordResetRequest) (string, error) {
	model := passwordResetModel{
		UserID:    request.UserID,
		Code:      request.Code,
		ExpiresAt: request.ExpiresAt,
		Used:      request.Used,
		CreatedAt: request.CreatedAt,
	}

	res, err := r.collection.InsertOne(ctx, model)
	if err != nil {
		return "", fmt.Errorf("failed to store password reset request: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *passwordResetRepository) GetActive(ctx context.Context, userID, code string) (*entity.PasswordResetRequest, error) {
	filter := bson.M{
		"user_id":    userID,
		"code":       code,
		"used":       false,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}

	var model passwordResetModel
	err := r.collection.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get password reset request: %w", err)
	}
	return &entity.PasswordResetRequest{
		ID:        model.ID.Hex(),
		UserID:    model.UserID,
		Code:      model.Code,
		ExpiresAt: model.ExpiresAt,
		Used:      model.Used,
		CreatedAt: model.CreatedAt,
	}, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, requestID string) error {
	objID, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return fmt.Errorf("invalid password reset ID format: %w", repository.ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"used": true}})
	if err != nil {
		return fmt.Errorf("failed to mark password reset as used: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
