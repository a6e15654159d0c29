package logging

import "context"

type contextKey string

const (
	userIDKey  contextKey = "user_id"
	toastIDKey contextKey = "toast_id"
)

// WithUserID adds a user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithToastID adds a toast ID to the context.
func WithToastID(ctx context.Context, toastID string) context.Context {
	return context.WithValue(ctx, toastIDKey, toastID)
}

// GetUserID retrieves the user ID from the context.
// Returns empty string if not present.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// GetToastID returns the toast ID stored in ctx, if any.
func GetToastID(ctx context.Context) string {
	if id, ok := ctx.Value(toastIDKey).(string); ok {
		return id
	}
	return ""
}
