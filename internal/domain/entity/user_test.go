package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUser_NormalizesEmail(t *testing.T) {
	user, err := NewUser("  User@Example.COM ", " Jordan ", "hash", RoleUser)

	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "Jordan", user.Name)
	assert.True(t, user.Active)
}

func TestNewUser_Invalid(t *testing.T) {
	_, err := NewUser("not-an-email", "Jordan", "hash", RoleUser)
	assert.Error(t, err)

	_, err = NewUser("user@example.com", "Jordan", "", RoleUser)
	assert.Error(t, err)

	_, err = NewUser("user@example.com", "Jordan", "hash", "SUPERUSER")
	assert.Error(t, err)
}

func TestUser_RegisterFailedLogin_LocksAtThreshold(t *testing.T) {
	user, _ := NewUser("user@example.com", "Jordan", "hash", RoleUser)
	now := time.Now().UTC()

	user.RegisterFailedLogin(now, 3, 15*time.Minute)
	user.RegisterFailedLogin(now, 3, 15*time.Minute)
	assert.Nil(t, user.LockedUntil)
	assert.False(t, user.IsLocked(now))

	user.RegisterFailedLogin(now, 3, 15*time.Minute)
	assert.NotNil(t, user.LockedUntil)
	assert.True(t, user.IsLocked(now))
	assert.False(t, user.IsLocked(now.Add(16*time.Minute)))
}

func TestUser_RegisterFailedLogin_ExpiredLockoutRestartsCount(t *testing.T) {
	user, _ := NewUser("user@example.com", "Jordan", "hash", RoleUser)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		user.RegisterFailedLogin(now, 3, 15*time.Minute)
	}
	assert.True(t, user.IsLocked(now))

	// One failure after the lockout window starts a fresh count instead of
	// re-locking on the spot.
	later := now.Add(16 * time.Minute)
	user.RegisterFailedLogin(later, 3, 15*time.Minute)

	assert.Equal(t, 1, user.FailedLoginAttempts)
	assert.Nil(t, user.LockedUntil)
	assert.False(t, user.IsLocked(later))
}

func TestUser_ResetLockout(t *testing.T) {
	user, _ := NewUser("user@example.com", "Jordan", "hash", RoleUser)
	now := time.Now().UTC()
	user.RegisterFailedLogin(now, 1, 15*time.Minute)
	assert.True(t, user.IsLocked(now))

	user.ResetLockout(now)

	assert.Equal(t, 0, user.FailedLoginAttempts)
	assert.Nil(t, user.LockedUntil)
	assert.False(t, user.IsLocked(now))
}

func TestUser_IsAdmin(t *testing.T) {
	admin, _ := NewUser("a@example.com", "A", "hash", RoleAdmin)
	user, _ := NewUser("u@example.com", "U", "hash", RoleUser)

	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())
}
