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
	categoryCollectionName         = "categories"
	categoryRelationCollectionName = "category_relations"
)

type categoryModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	Active    bool               `bson:"active"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type categoryRelationModel struct {
	ParentID string `bson:"parent_id"`
	ChildID  string `bson:"child_id"`
}

func toCategoryModel(c *entity.Category) (*categoryModel, error) {
	m := &categoryModel{
		Name:      c.Name,
		Slug:      c.Slug,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.ID != "" {
		objID, err := primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid category ID %q: %w", c.ID, err)
		}
		m.ID = objID
	}
	return m, nil
}

func (m *categoryModel) toEntity() *entity.Category {
	return &entity.Category{
		ID:        m.ID.Hex(),
		Name:      m.Name,
		Slug:      m.Slug,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type categoryRepository struct {
	categories *mongo.Collection
	relations  *mongo.Collection
}

func NewCategoryRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.CategoryRepository {
	db := client.Database(cfg.Database)
	return &categoryRepository{
		categories: db.Collection(categoryCollectionName),
		relations:  db.Collection(categoryRelationCollectionName),
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) (string, error) {
	model, err := toCategoryModel(category)
	if err != nil {
		return "", err
	}

	res, err := r.categories.InsertOne(ctx, model)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create category: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *categoryRepository) GetByID(ctx context.Context, categoryID string) (*entity.Category, error) {
	objID, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category ID format: %w", repository.ErrNotFound)
	}

	var model categoryModel
	err = r.categories.FindOne(ctx, bson.M{"_id": objID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID %s: %w", categoryID, err)
	}
	return model.toEntity(), nil
}

func (r *categoryRepository) ExistsWithSlugOrName(ctx context.Context, slug, name, excludeID string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"slug": slug},
		bson.M{"name": bson.M{"$regex": fmt.Sprintf("^%s$", name), "$options": "i"}},
	}}
	if excludeID != "" {
		objID, err := primitive.ObjectIDFromHex(excludeID)
		if err == nil {
			filter["_id"] = bson.M{"$ne": objID}
		}
	}

	count, err := r.categories.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check category uniqueness: %w", err)
	}
	return count > 0, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	model, err := toCategoryModel(category)
	if err != nil {
		return err
	}
	model.UpdatedAt = time.Now().UTC()

	res, err := r.categories.ReplaceOne(ctx, bson.M{"_id": model.ID}, model)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("failed to update category %s: %w", category.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) SetActive(ctx context.Context, categoryID string, active bool) error {
	objID, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return fmt.Errorf("invalid category ID format: %w", repository.ErrNotFound)
	}

	res, err := r.categories.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"active": active, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to set category active flag: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) List(ctx context.Context, params repository.ListCategoriesParams) (*repository.ListCategoriesResult, error) {
	filter := bson.M{}
	if params.OnlyActive {
		filter["active"] = true
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
		findOptions.SetSort(bson.D{{Key: "name", Value: 1}})
	}

	cursor, err := r.categories.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var models []categoryModel
	if err = cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("failed to decode listed categories: %w", err)
	}

	categories := make([]entity.Category, 0, len(models))
	for i := range models {
		categories = append(categories, *models[i].toEntity())
	}

	totalCount, err := r.categories.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (int(totalCount) + params.PageSize - 1) / params.PageSize
	} else if totalCount > 0 {
		totalPages = 1
	}

	return &repository.ListCategoriesResult{
		Categories:  categories,
		TotalCount:  totalCount,
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		TotalPages:  totalPages,
	}, nil
}

func (r *categoryRepository) ReplaceParents(ctx context.Context, categoryID string, parentIDs []string) error {
	if _, err := r.relations.DeleteMany(ctx, bson.M{"child_id": categoryID}); err != nil {
		return fmt.Errorf("failed to drop parent edges for category %s: %w", categoryID, err)
	}
	if len(parentIDs) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(parentIDs))
	for _, parentID := range parentIDs {
		docs = append(docs, categoryRelationModel{ParentID: parentID, ChildID: categoryID})
	}
	if _, err := r.relations.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert parent edges for category %s: %w", categoryID, err)
	}
	return nil
}

func (r *categoryRepository) ParentIDs(ctx context.Context, categoryID string) ([]string, error) {
	return r.relationEnds(ctx, bson.M{"child_id": categoryID}, "parent_id")
}

func (r *categoryRepository) ChildIDs(ctx context.Context, categoryID string) ([]string, error) {
	return r.relationEnds(ctx, bson.M{"parent_id": categoryID}, "child_id")
}

func (r *categoryRepository) relationEnds(ctx context.Context, filter bson.M, field string) ([]string, error) {
	cursor, err := r.relations.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query category relations: %w", err)
	}
	defer cursor.Close(ctx)

	var edges []categoryRelationModel
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, fmt.Errorf("failed to decode category relations: %w", err)
	}

	ids := make([]string, 0, len(edges))
	for _, edge := range edges {
		if field == "parent_id" {
			ids = append(ids, edge.ParentID)
		} else {
			ids = append(ids, edge.ChildID)
		}
	}
	return ids, nil
}

// DescendantIDs resolves the transitive closure below a category with a
// single $graphLookup over the edge collection.
func (r *categoryRepository) DescendantIDs(ctx context.Context, categoryID string) ([]string, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"parent_id": categoryID}}},
		bson.D{{Key: "$graphLookup", Value: bson.M{
			"from":             categoryRelationCollectionName,
			"startWith":        "$child_id",
			"connectFromField": "child_id",
			"connectToField":   "parent_id",
			"as":               "descendants",
		}}},
	}

	cursor, err := r.relations.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve descendants for category %s: %w", categoryID, err)
	}
	defer cursor.Close(ctx)

	type graphRow struct {
		ChildID     string                  `bson:"child_id"`
		Descendants []categoryRelationModel `bson:"descendants"`
	}

	seen := make(map[string]struct{})
	var rows []graphRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode descendants for category %s: %w", categoryID, err)
	}
	for _, row := range rows {
		seen[row.ChildID] = struct{}{}
		for _, edge := range row.Descendants {
			seen[edge.ChildID] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *categoryRepository) DetachAll(ctx context.Context, categoryID string) error {
	_, err := r.relations.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"parent_id": categoryID},
		bson.M{"child_id": categoryID},
	}})
	if err != nil {
		return fmt.Errorf("failed to detach category %s: %w", categoryID, err)
	}
	return nil
}
