package middleware

import "context"

type contextKey string

const (
	ctxHostID    contextKey = "host_id"
	ctxSuperuser contextKey = "is_superuser"
)

func HostIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxHostID).(string); ok {
		return v
	}
	return ""
}

func IsSuperuserFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxSuperuser).(bool); ok {
		return v
	}
	return false
}

// WithHostID injects the host identifier into the context.
func WithHostID(ctx context.Context, hostID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxHostID, hostID)
}

// WithSuperuser marks the context as belonging to a superuser session.
func WithSuperuser(ctx context.Context, superuser bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSuperuser, superuser)
}
