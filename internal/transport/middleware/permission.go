package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
	"github.com/frahmantamala/pos-backoffice/internal/transport"
	"github.com/frahmantamala/pos-backoffice/pkg/logger"
)

// Authenticator turns a bearer token into a principal or an AppError (401).
type Authenticator interface {
	Authenticate(token string) (internal.Principal, error)
}

// PermissionChecker answers one permission query; (false, nil) is a plain deny.
type PermissionChecker interface {
	Check(ctx context.Context, role string, p permission.Permission) (bool, error)
}

// Guard composes authentication with permission checks for chi routes.
type Guard struct {
	*transport.BaseHandler
	authn   Authenticator
	checker PermissionChecker
}

func NewGuard(authn Authenticator, checker PermissionChecker) *Guard {
	return &Guard{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		authn:       authn,
		checker:     checker,
	}
}

// authenticate writes 401 itself and reports whether the request may continue.
func (g *Guard) authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, internal.Principal, bool) {
	token := transport.BearerToken(r)
	if token == "" {
		g.WriteAppError(w, internal.ErrMissingToken)
		return nil, internal.Principal{}, false
	}

	principal, err := g.authn.Authenticate(token)
	if err != nil {
		appErr, ok := internal.IsAppError(err)
		if !ok {
			appErr = internal.ErrInvalidToken
		}
		logger.From(r.Context()).Debug("authentication rejected", "code", appErr.Code)
		g.WriteAppError(w, appErr)
		return nil, internal.Principal{}, false
	}

	ctx := internal.ContextWithPrincipal(r.Context(), principal)
	ctx = logger.With(ctx, "userID", principal.UserID, "role", principal.Role)
	return r.WithContext(ctx), principal, true
}

// Authenticated only verifies the bearer token.
func (g *Guard) Authenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, _, ok := g.authenticate(w, r)
			if !ok {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g *Guard) RequirePermission(p permission.Permission) func(http.Handler) http.Handler {
	return g.RequireAnyPermission(p)
}

// RequireAnyPermission admits the caller on the first granted permission, in the order given.
// A failing check is logged and the next candidate is still tried.
func (g *Guard) RequireAnyPermission(perms ...permission.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, principal, ok := g.authenticate(w, r)
			if !ok {
				return
			}

			if g.anyGranted(r.Context(), principal, perms) {
				next.ServeHTTP(w, r)
				return
			}

			logger.From(r.Context()).Warn("access denied", "required", perms)
			g.WriteAppError(w, internal.ErrInsufficientPermission.WithDetails(map[string]interface{}{
				"required": perms,
			}))
		})
	}
}

func (g *Guard) anyGranted(ctx context.Context, principal internal.Principal, perms []permission.Permission) bool {
	for _, p := range perms {
		granted, err := g.checker.Check(ctx, principal.Role, p)
		if err != nil {
			logger.From(ctx).Error("permission check failed",
				"permission", p,
				"error", err)
			continue
		}
		if granted {
			return true
		}
	}
	return false
}
