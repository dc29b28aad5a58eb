package middleware

// ContextKey is a private key type so context values cannot collide with
// other packages.
type ContextKey string

const (
	UserIDCtxKey   = ContextKey("user_id")
	UserRoleCtxKey = ContextKey("user_role")
)
