package internal

import "context"

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

// Principal is the authenticated caller as carried by the access token.
type Principal struct {
	UserID   int64
	Username string
	Role     string
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ContextPrincipalKey).(Principal)
	return p, ok
}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}
