package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	variantKey   contextKey = "variant"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithVariant annotates context with the basename of the variant being processed.
func WithVariant(ctx context.Context, basename string) context.Context {
	if basename == "" {
		return ctx
	}
	return context.WithValue(ctx, variantKey, basename)
}

// VariantFromContext returns the variant basename if present.
func VariantFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(variantKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
