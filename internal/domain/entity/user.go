package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Active       bool

	// Optional personal discount applied on top of nothing else; kept on the
	// profile for the storefront to display.
	DiscountPercent *decimal.Decimal

	FailedLoginAttempts int
	LockedUntil         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewUser(email, name, passwordHash, role string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("invalid email address")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash cannot be empty")
	}
	if role != RoleAdmin && role != RoleUser {
		return nil, errors.New("role must be ADMIN or USER")
	}
	now := time.Now().UTC()
	return &User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// RegisterFailedLogin increments the failure counter and starts a timed
// lockout once maxAttempts is reached. A lockout that has already expired
// clears the counter first, so one wrong password after the window does
// not re-lock immediately.
func (u *User) RegisterFailedLogin(now time.Time, maxAttempts int, lockFor time.Duration) {
	if u.LockedUntil != nil && !now.Before(*u.LockedUntil) {
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		until := now.Add(lockFor)
		u.LockedUntil = &until
	}
	u.UpdatedAt = now
}

// ResetLockout clears the failure counter after a successful login.
func (u *User) ResetLockout(now time.Time) {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = now
}
