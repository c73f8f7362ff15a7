package role

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/validation"
	roleDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/role"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
)

// RepositoryAPI returns nil, nil from lookups that find nothing. Create and Update
// return a Conflict AppError on a duplicate name.
type RepositoryAPI interface {
	List(ctx context.Context) ([]*roleDatamodel.Role, error)
	GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error)
	GetByName(ctx context.Context, name string) (*roleDatamodel.Role, error)
	Create(ctx context.Context, r *roleDatamodel.Role) error
	// Update also moves users holding previousName over to the new name.
	Update(ctx context.Context, r *roleDatamodel.Role, previousName string) error
	Delete(ctx context.Context, id int64) error
	CountActiveUsers(ctx context.Context, name string) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

var (
	errRoleNotFound    = internal.NewNotFoundError("role not found", internal.ErrCodeRoleNotFound)
	errSystemProtected = internal.NewForbiddenError("system roles cannot be modified", internal.ErrCodeSystemRoleProtected)
	errReservedName    = internal.NewConflictError("role name is reserved", internal.ErrCodeRoleExists)
	errRoleExists      = internal.NewConflictError("role name already exists", internal.ErrCodeRoleExists)
)

// PermissionsForRole makes the service the evaluator's RoleStore.
func (s *Service) PermissionsForRole(ctx context.Context, name string) (permission.Set, error) {
	row, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return permission.Set{}, err
	}
	if row == nil {
		return permission.Set{}, permission.ErrUnknownRole
	}
	return row.Permissions, nil
}

// Exists reports whether name is a built-in role or a stored one.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	if permission.IsSystemRole(name) {
		return true, nil
	}
	row, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// List returns the built-in roles first, whether or not they were seeded, then custom roles by name.
func (s *Service) List(ctx context.Context) ([]*Role, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list roles", "error", err)
		return nil, internal.NewInternalError("failed to list roles", err)
	}

	stored := make(map[string]*roleDatamodel.Role, len(rows))
	for _, row := range rows {
		stored[row.Name] = row
	}

	roles := make([]*Role, 0, len(rows)+len(permission.SystemRoleNames()))
	for _, name := range permission.SystemRoleNames() {
		if row, ok := stored[name]; ok {
			roles = append(roles, FromDataModel(row))
			continue
		}
		roles = append(roles, systemRole(name))
	}
	for _, row := range rows {
		if permission.IsSystemRole(row.Name) {
			continue
		}
		roles = append(roles, FromDataModel(row))
	}
	return roles, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Role, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load role", err)
	}
	if row == nil {
		return nil, errRoleNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateRoleDTO) (*Role, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if permission.IsReservedName(dto.Name) {
		return nil, errReservedName
	}

	row := &roleDatamodel.Role{
		Name:        dto.Name,
		Description: dto.Description,
		Permissions: dto.Permissions,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.writeError(ctx, "create", err)
	}

	s.logger.InfoContext(ctx, "role created", "role_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateRoleDTO) (*Role, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load role", err)
	}
	if row == nil {
		return nil, errRoleNotFound
	}
	if row.IsSystem || permission.IsSystemRole(row.Name) {
		return nil, errSystemProtected
	}
	if dto.Name != row.Name && permission.IsReservedName(dto.Name) {
		return nil, errReservedName
	}

	previousName := row.Name
	row.Name = dto.Name
	row.Description = dto.Description
	row.Permissions = dto.Permissions
	if err := s.repo.Update(ctx, row, previousName); err != nil {
		return nil, s.writeError(ctx, "update", err)
	}

	s.logger.InfoContext(ctx, "role updated", "role_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

// Delete refuses built-in rows (403) and roles still held by active users (409).
func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to load role", err)
	}
	if row == nil {
		return errRoleNotFound
	}
	if row.IsSystem || permission.IsSystemRole(row.Name) {
		s.logger.WarnContext(ctx, "refused to delete system role", "role_id", id, "name", row.Name)
		return errSystemProtected
	}

	inUse, err := s.repo.CountActiveUsers(ctx, row.Name)
	if err != nil {
		return internal.NewInternalError("failed to check role assignments", err)
	}
	if inUse > 0 {
		return internal.NewConflictError("role is assigned to active users", internal.ErrCodeRoleInUse).
			WithDetails(map[string]interface{}{"activeUsers": inUse})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete role", err)
	}
	s.logger.InfoContext(ctx, "role deleted", "role_id", id, "name", row.Name)
	return nil
}

func (s *Service) writeError(ctx context.Context, op string, err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.StatusCode == 409 {
			return errRoleExists
		}
		return appErr
	}
	s.logger.ErrorContext(ctx, "role write failed", "op", op, "error", err)
	return internal.NewInternalError("failed to "+op+" role", err)
}
