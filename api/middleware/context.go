package middleware

import "context"

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxVisitorID contextKey = "visitor_id"
)

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.Value(ctxUserID).(int64)
	return v, ok
}

// UserIDPtrFromContext is UserIDFromContext shaped for optional fields.
func UserIDPtrFromContext(ctx context.Context) *int64 {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &id
}

func VisitorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxVisitorID).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithVisitorID injects the anonymous visitor identifier into the context.
func WithVisitorID(ctx context.Context, visitorID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxVisitorID, visitorID)
}
