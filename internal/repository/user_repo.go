package repository

import (
	"context"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
)

type ListUsersParams struct {
	Query    string
	Role     string
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

type ListUsersResult struct {
	Users       []entity.User
	TotalCount  int64
	CurrentPage int
	PageSize    int
	TotalPages  int
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (string, error)
	GetByID(ctx context.Context, userID string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SetActive(ctx context.Context, userID string, active bool) error
	List(ctx context.Context, params ListUsersParams) (*ListUsersResult, error)
}
