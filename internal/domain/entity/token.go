package entity

import "time"

// RefreshToken is an opaque rotating credential. A token stops being usable
// the moment it is revoked (rotation) or expires.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Revoked   bool
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

// PasswordResetRequest holds an emailed numeric code with an expiry and a
// single-use flag.
type PasswordResetRequest struct {
	ID        string
	UserID    string
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

func (r *PasswordResetRequest) IsUsable(now time.Time) bool {
	return !r.Used && now.Before(r.ExpiresAt)
}
