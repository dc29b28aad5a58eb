package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type UpdateProfileInput struct {
	Name *string
}

type AdminUpdateUserInput struct {
	Name            *string
	Role            *string
	DiscountPercent *decimal.Decimal
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	// Admin operations.
	CreateUser(ctx context.Context, emailAddr, name, password, role string) (*entity.User, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	UpdateUser(ctx context.Context, userID string, input AdminUpdateUserInput) (*entity.User, error)
	SetActive(ctx context.Context, userID string, active bool) error
	List(ctx context.Context, params repository.ListUsersParams) (*repository.ListUsersResult, error)
}

type userService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	log       logger.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	log logger.Logger,
) UserService {
	return &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		log:       log,
	}
}

func (s *userService) getUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFound("user %s not found", userID)
		}
		return nil, fmt.Errorf("could not load user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return s.getUser(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("could not update user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return domain.NewUnauthorized("current password is incorrect")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("could not update password for user %s: %w", userID, err)
	}

	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		s.log.Errorf("Failed to revoke sessions for user %s after password change: %v", userID, err)
	}
	s.log.Infof("Password changed for user %s", userID)
	return nil
}

func (s *userService) CreateUser(ctx context.Context, emailAddr, name, password, role string) (*entity.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := entity.NewUser(emailAddr, name, hash, role)
	if err != nil {
		return nil, domain.NewValidation("%s", err.Error())
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, domain.NewConflict("email %s is already registered", user.Email)
		}
		return nil, fmt.Errorf("could not create user: %w", err)
	}
	user.ID = id

	s.log.Infof("User %s created by admin with role %s", id, role)
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	return s.getUser(ctx, userID)
}

func (s *userService) UpdateUser(ctx context.Context, userID string, input AdminUpdateUserInput) (*entity.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if *input.Role != entity.RoleAdmin && *input.Role != entity.RoleUser {
			return nil, domain.NewValidation("role must be ADMIN or USER")
		}
		user.Role = *input.Role
	}
	if input.DiscountPercent != nil {
		if input.DiscountPercent.IsNegative() || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, domain.NewValidation("discount percent must be between 0 and 100")
		}
		user.DiscountPercent = input.DiscountPercent
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("could not update user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) SetActive(ctx context.Context, userID string, active bool) error {
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFound("user %s not found", userID)
		}
		return fmt.Errorf("could not change active flag of user %s: %w", userID, err)
	}
	if !active {
		if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
			s.log.Errorf("Failed to revoke sessions of deactivated user %s: %v", userID, err)
		}
	}
	s.log.Infof("User %s active flag set to %t", userID, active)
	return nil
}

func (s *userService) List(ctx context.Context, params repository.ListUsersParams) (*repository.ListUsersResult, error) {
	return s.userRepo.List(ctx, params)
}
