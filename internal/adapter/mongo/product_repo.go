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

const productCollectionName = "products"

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ProductRepository {
	return &productRepository{
		collection: client.Database(cfg.Database).Collection(productCollectionName),
	}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) (string, error) {
	model, err := toProductModel(product)
	if err != nil {
		return "", err
	}

	res, err := r.collection.InsertOne(ctx, model)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *productRepository) GetByID(ctx context.Context, productID string) (*entity.Product, error) {
	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID format: %w", repository.ErrNotFound)
	}

	var model productModel
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", productID, err)
	}
	return model.toEntity()
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var model productModel
	err := r.collection.FindOne(ctx, bson.M{"code": strings.ToUpper(code)}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by code %s: %w", code, err)
	}
	return model.toEntity()
}

func (r *productRepository) GetByIDs(ctx context.Context, productIDs []string) ([]entity.Product, error) {
	objIDs := make([]primitive.ObjectID, 0, len(productIDs))
	for _, id := range productIDs {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	if len(objIDs) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var models []productModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]entity.Product, 0, len(models))
	for i := range models {
		p, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	model, err := toProductModel(product)
	if err != nil {
		return err
	}
	model.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": model.ID}, model)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) SetActive(ctx context.Context, productID string, active bool) error {
	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("invalid product ID format: %w", repository.ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"active": active, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to set product active flag: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) List(ctx context.Context, params repository.ListProductsParams) (*repository.ListProductsResult, error) {
	filter := bson.M{}
	if params.OnlyActive {
		filter["active"] = true
	}
	if params.CategoryID != "" {
		filter["category_ids"] = params.CategoryID
	}
	if params.Query != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": params.Query, "$options": "i"}},
			bson.M{"code": bson.M{"$regex": params.Query, "$options": "i"}},
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
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var models []productModel
	if err = cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("failed to decode listed products: %w", err)
	}

	products := make([]entity.Product, 0, len(models))
	for i := range models {
		p, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (int(totalCount) + params.PageSize - 1) / params.PageSize
	} else if totalCount > 0 {
		totalPages = 1
	}

	return &repository.ListProductsResult{
		Products:    products,
		TotalCount:  totalCount,
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		TotalPages:  totalPages,
	}, nil
}
