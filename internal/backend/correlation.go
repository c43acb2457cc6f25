package backend

import (
	"context"
	"strings"
)

type correlationKey struct{}

// WithCorrelationID stores id on ctx; outgoing requests forward it as
// X-Correlation-ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFrom returns the identifier stored by WithCorrelationID.
func CorrelationIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
