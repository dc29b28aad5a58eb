package repository

import (
	"context"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
)

type ListCategoriesParams struct {
	OnlyActive bool
	Page       int
	PageSize   int
	SortBy     string
	SortDir    string
}

type ListCategoriesResult struct {
	Categories  []entity.Category
	TotalCount  int64
	CurrentPage int
	PageSize    int
	TotalPages  int
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) (string, error)
	GetByID(ctx context.Context, categoryID string) (*entity.Category, error)
	// ExistsWithSlugOrName reports whether another category (excluding
	// excludeID) already uses the normalized slug or the name.
	ExistsWithSlugOrName(ctx context.Context, slug, name, excludeID string) (bool, error)
	Update(ctx context.Context, category *entity.Category) error
	SetActive(ctx context.Context, categoryID string, active bool) error
	List(ctx context.Context, params ListCategoriesParams) (*ListCategoriesResult, error)

	// DAG edges.
	ReplaceParents(ctx context.Context, categoryID string, parentIDs []string) error
	ParentIDs(ctx context.Context, categoryID string) ([]string, error)
	ChildIDs(ctx context.Context, categoryID string) ([]string, error)
	// DescendantIDs walks the edge collection transitively and returns every
	// category reachable below categoryID.
	DescendantIDs(ctx context.Context, categoryID string) ([]string, error)
	DetachAll(ctx context.Context, categoryID string) error
}
