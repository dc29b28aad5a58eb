package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/app/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

func NewClient(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	if cfg.User != "" && cfg.Password != "" {
		credential := options.Credential{
			Username: cfg.User,
			Password: cfg.Password,
		}
		clientOptions.SetAuth(credential)
	}

	connectCtx, cancelConnect := context.WithTimeout(ctx, connectTimeout)
	defer cancelConnect()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, pingTimeout)
	defer cancelPing()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

func uniqueIndex(keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
}

// collectionIndexes declares the unique indexes behind the duplicate-key
// errors the repositories translate into ErrAlreadyExists. Without them
// Mongo never raises a duplicate-key error and the uniqueness rules on
// user emails, product codes, category slugs and refresh tokens are lost.
func collectionIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		userCollectionName: {
			uniqueIndex(bson.D{{Key: "email", Value: 1}}),
		},
		productCollectionName: {
			uniqueIndex(bson.D{{Key: "code", Value: 1}}),
		},
		categoryCollectionName: {
			uniqueIndex(bson.D{{Key: "slug", Value: 1}}),
		},
		categoryRelationCollectionName: {
			uniqueIndex(bson.D{{Key: "parent_id", Value: 1}, {Key: "child_id", Value: 1}}),
		},
		refreshTokenCollectionName: {
			uniqueIndex(bson.D{{Key: "token", Value: 1}}),
		},
	}
}

// EnsureIndexes creates the declared indexes. CreateMany is idempotent, so
// calling it on every startup is safe.
func EnsureIndexes(ctx context.Context, client *mongo.Client, cfg config.MongoDBConfig) error {
	db := client.Database(cfg.Database)
	for collectionName, models := range collectionIndexes() {
		idxCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		_, err := db.Collection(collectionName).Indexes().CreateMany(idxCtx, models)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collectionName, err)
		}
	}
	return nil
}
