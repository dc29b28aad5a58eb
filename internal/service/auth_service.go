package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/adapter/email"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/app/config"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/metrics"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Claims are the JWT payload of an access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, emailAddr, name, password string) (*entity.User, error)
	Login(ctx context.Context, emailAddr, password string) (*TokenPair, *entity.User, error)
	// Refresh rotates the presented refresh token: the old one is revoked
	// and a fresh pair is issued.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	// ParseAccessToken validates a JWT and returns its claims. Used by the
	// HTTP middleware and the websocket handshake.
	ParseAccessToken(tokenString string) (*Claims, error)

	RequestPasswordReset(ctx context.Context, emailAddr string) error
	ConfirmPasswordReset(ctx context.Context, emailAddr, code, newPassword string) error
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	resetRepo repository.PasswordResetRepository
	sender    email.EmailSender
	metrics   *metrics.Manager
	log       logger.Logger

	jwtCfg     config.JWTConfig
	lockoutCfg config.LockoutConfig
	resetCfg   config.PassResetConfig
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	resetRepo repository.PasswordResetRepository,
	sender email.EmailSender,
	metricsManager *metrics.Manager,
	log logger.Logger,
	jwtCfg config.JWTConfig,
	lockoutCfg config.LockoutConfig,
	resetCfg config.PassResetConfig,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		resetRepo:  resetRepo,
		sender:     sender,
		metrics:    metricsManager,
		log:        log,
		jwtCfg:     jwtCfg,
		lockoutCfg: lockoutCfg,
		resetCfg:   resetCfg,
	}
}

const minPasswordLength = 8

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", domain.NewValidation("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hash), nil
}

func (s *authService) Register(ctx context.Context, emailAddr, name, password string) (*entity.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := entity.NewUser(emailAddr, name, hash, entity.RoleUser)
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

	s.log.Infof("User %s registered with email %s", id, user.Email)
	return user, nil
}

func (s *authService) Login(ctx context.Context, emailAddr, password string) (*TokenPair, *entity.User, error) {
	now := time.Now().UTC()

	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.LoginFailuresTotal.Inc()
			return nil, nil, domain.NewUnauthorized("invalid credentials")
		}
		return nil, nil, fmt.Errorf("could not load user: %w", err)
	}

	if !user.Active {
		s.metrics.LoginFailuresTotal.Inc()
		return nil, nil, domain.NewUnauthorized("account is deactivated")
	}
	if user.IsLocked(now) {
		s.metrics.LoginFailuresTotal.Inc()
		return nil, nil, domain.NewUnauthorized("account is temporarily locked, try again later")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		user.RegisterFailedLogin(now, s.lockoutCfg.MaxFailedAttempts, s.lockoutCfg.Duration)
		if updateErr := s.userRepo.Update(ctx, user); updateErr != nil {
			s.log.Errorf("Failed to persist failed login for user %s: %v", user.ID, updateErr)
		}
		s.metrics.LoginFailuresTotal.Inc()
		s.log.Warnf("Failed login for %s (attempt %d)", user.Email, user.FailedLoginAttempts)
		return nil, nil, domain.NewUnauthorized("invalid credentials")
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		user.ResetLockout(now)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.log.Errorf("Failed to reset lockout for user %s: %v", user.ID, err)
		}
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Infof("User %s logged in", user.ID)
	return pair, user, nil
}

func (s *authService) issueTokenPair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.jwtCfg.AccessTokenTTL)

	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("could not sign access token: %w", err)
	}

	refresh := &entity.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(s.jwtCfg.RefreshTokenTTL),
		CreatedAt: now,
	}
	if _, err := s.tokenRepo.Store(ctx, refresh); err != nil {
		return nil, fmt.Errorf("could not store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewUnauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("could not load refresh token: %w", err)
	}
	if !stored.IsActive(time.Now().UTC()) {
		return nil, domain.NewUnauthorized("refresh token is expired or revoked")
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewUnauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("could not load user: %w", err)
	}
	if !user.Active {
		return nil, domain.NewUnauthorized("account is deactivated")
	}

	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("could not revoke refresh token: %w", err)
	}
	return s.issueTokenPair(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Already revoked or never issued; logging out is idempotent.
			return nil
		}
		return fmt.Errorf("could not revoke refresh token: %w", err)
	}
	return nil
}

func (s *authService) ParseAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.NewUnauthorized("invalid or expired token")
	}
	return claims, nil
}

// generateResetCode returns a 6-digit numeric code from crypto/rand.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("could not generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Do not leak whether the address exists.
			s.log.Infof("Password reset requested for unknown email %s", emailAddr)
			return nil
		}
		return fmt.Errorf("could not load user: %w", err)
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	request := &entity.PasswordResetRequest{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: now.Add(s.resetCfg.CodeTTL),
		CreatedAt: now,
	}
	if _, err := s.resetRepo.Store(ctx, request); err != nil {
		return fmt.Errorf("could not store password reset request: %w", err)
	}
	s.metrics.PasswordResetCodesIssued.Inc()

	body := fmt.Sprintf("Your password reset code is %s. It expires in %s.", code, s.resetCfg.CodeTTL)
	if err := s.sender.Send(ctx, []string{user.Email}, "Password reset code", "", body); err != nil {
		return fmt.Errorf("could not send reset email: %w", err)
	}

	s.log.Infof("Password reset code issued for user %s", user.ID)
	return nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, emailAddr, code, newPassword string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewUnauthorized("invalid reset code")
		}
		return fmt.Errorf("could not load user: %w", err)
	}

	request, err := s.resetRepo.GetActive(ctx, user.ID, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewUnauthorized("invalid reset code")
		}
		return fmt.Errorf("could not load password reset request: %w", err)
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.PasswordHash = hash
	user.ResetLockout(now)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("could not update password: %w", err)
	}

	if err := s.resetRepo.MarkUsed(ctx, request.ID); err != nil {
		s.log.Errorf("Failed to mark reset request %s as used: %v", request.ID, err)
	}
	// Any sessions opened with the old password lose their refresh tokens.
	if err := s.tokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
		s.log.Errorf("Failed to revoke sessions for user %s: %v", user.ID, err)
	}

	s.log.Infof("Password reset completed for user %s", user.ID)
	return nil
}
