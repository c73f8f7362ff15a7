package permission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownRole is returned when a custom role name has no stored row.
var ErrUnknownRole = errors.New("unknown role")

// RoleStore resolves custom role names. Implementations return ErrUnknownRole when absent.
type RoleStore interface {
	PermissionsForRole(ctx context.Context, name string) (Set, error)
}

// Evaluator maps a role name to its permission set. System roles never reach the store.
type Evaluator struct {
	store  RoleStore
	logger *slog.Logger
}

func NewEvaluator(store RoleStore, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{store: store, logger: logger}
}

// Resolve returns the permission set of role. On any error the returned Set is empty.
func (e *Evaluator) Resolve(ctx context.Context, role string) (Set, error) {
	if s, ok := SystemSet(role); ok {
		return s, nil
	}
	if role == "" {
		return Set{}, ErrUnknownRole
	}
	if e.store == nil {
		return Set{}, fmt.Errorf("resolve role %q: no role store configured", role)
	}

	s, err := e.store.PermissionsForRole(ctx, role)
	if err != nil {
		if errors.Is(err, ErrUnknownRole) {
			return Set{}, ErrUnknownRole
		}
		return Set{}, fmt.Errorf("resolve role %q: %w", role, err)
	}
	return s, nil
}

// Check answers one permission query. A false result with a nil error is a plain deny.
func (e *Evaluator) Check(ctx context.Context, role string, p Permission) (bool, error) {
	s, err := e.Resolve(ctx, role)
	if err != nil {
		if errors.Is(err, ErrUnknownRole) {
			return false, nil
		}
		return false, err
	}
	return s.Has(p), nil
}

// Allowed is Check collapsed to a fail-closed predicate.
func (e *Evaluator) Allowed(ctx context.Context, role string, p Permission) bool {
	ok, err := e.Check(ctx, role, p)
	if err != nil {
		e.logger.WarnContext(ctx, "permission lookup failed, denying",
			"role", role,
			"permission", p,
			"error", err)
		return false
	}
	return ok
}

// Effective is Resolve for callers that only need the set, logging lookup errors.
func (e *Evaluator) Effective(ctx context.Context, role string) Set {
	s, err := e.Resolve(ctx, role)
	if err != nil && !errors.Is(err, ErrUnknownRole) {
		e.logger.WarnContext(ctx, "permission lookup failed", "role", role, "error", err)
	}
	return s
}
