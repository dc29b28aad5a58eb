package repository

import (
	"context"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
)

type ListProductsParams struct {
	Query      string
	CategoryID string
	OnlyActive bool
	Page       int
	PageSize   int
	SortBy     string
	SortDir    string
}

type ListProductsResult struct {
	Products    []entity.Product
	TotalCount  int64
	CurrentPage int
	PageSize    int
	TotalPages  int
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) (string, error)
	GetByID(ctx context.Context, productID string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	GetByIDs(ctx context.Context, productIDs []string) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SetActive(ctx context.Context, productID string, active bool) error
	List(ctx context.Context, params ListProductsParams) (*ListProductsResult, error)
}
