package utils

import "context"

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "email"
	UserRoleKey  contextKey = "role"
	StoreIDKey   contextKey = "store_id"
)

// SetUserContext sets authenticated user info into context (called by middleware).
func SetUserContext(ctx context.Context, id uint, email, role string, storeID *uint) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	if storeID != nil {
		ctx = context.WithValue(ctx, StoreIDKey, *storeID)
	}
	return ctx
}

// GetUserIDFromContext retrieves the user id safely.
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

// GetStoreIDFromContext retrieves the caller's store id when they own one.
func GetStoreIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(StoreIDKey).(uint)
	return id, ok
}
