package repository

import (
	"context"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
)

type RefreshTokenRepository interface {
	Store(ctx context.Context, token *entity.RefreshToken) (string, error)
	GetByToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type PasswordResetRepository interface {
	Store(ctx context.Context, request *entity.PasswordResetRequest) (string, error)
	// GetActive returns the newest unused, unexpired request matching the
	// user and code.
	GetActive(ctx context.Context, userID, code string) (*entity.PasswordResetRequest, error)
	MarkUsed(ctx context.Context, requestID string) error
}
