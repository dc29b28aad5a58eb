package repository

import (
	"context"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
)

type ListOrdersParams struct {
	UserID   string
	Status   string
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

type ListOrdersResult struct {
	Orders      []entity.Order
	TotalCount  int64
	CurrentPage int
	PageSize    int
	TotalPages  int
}

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) (string, error)
	GetByID(ctx context.Context, orderID string) (*entity.Order, error)
	// Update persists the full order document, matching on expectedVersion;
	// a version mismatch surfaces as ErrOptimisticLock.
	Update(ctx context.Context, order *entity.Order, expectedVersion int) error
	List(ctx context.Context, params ListOrdersParams) (*ListOrdersResult, error)
}
