package validation

import "context"

type bodyKey struct{}

// WithBody returns a copy of ctx carrying the normalized request body.
func WithBody(ctx context.Context, body any) context.Context {
	return context.WithValue(ctx, bodyKey{}, body)
}

// BodyFrom returns the normalized body stored by WithBody. The second result
// is false when no body was stored or it has a different type.
func BodyFrom[T any](ctx context.Context) (T, bool) {
	body, ok := ctx.Value(bodyKey{}).(T)
	return body, ok
}
