package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

// RepositoryAPI returns nil, nil when GetByID finds nothing and a Conflict AppError on a taken username.
type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	Deactivate(ctx context.Context, id int64) error
}

// RoleChecker accepts built-in role names and stored custom roles.
type RoleChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	roles      RoleChecker
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, roles RoleChecker, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		roles:      roles,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

var errUserNotFound = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return nil, errUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) checkRole(ctx context.Context, name string) error {
	ok, err := s.roles.Exists(ctx, name)
	if err != nil {
		return internal.NewInternalError("failed to check role", err)
	}
	if !ok {
		return internal.NewValidationFieldError("role", "role "+name+" does not exist", internal.ErrCodeInvalidRole)
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", internal.NewInternalError("failed to hash password", err)
	}
	return string(h), nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	dto.Username = strings.TrimSpace(dto.Username)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if err := s.checkRole(ctx, dto.Role); err != nil {
		return nil, err
	}

	hash, err := s.hash(dto.Password)
	if err != nil {
		return nil, err
	}

	row := &userDatamodel.User{
		Username:     dto.Username,
		PasswordHash: hash,
		DisplayName:  dto.DisplayName,
		Role:         dto.Role,
		Email:        dto.Email,
		Phone:        dto.Phone,
		StoreID:      dto.StoreID,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.writeError(ctx, "create", err)
	}

	s.logger.InfoContext(ctx, "user created", "user_id", row.ID, "role", row.Role)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*User, error) {
	dto.Username = strings.TrimSpace(dto.Username)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return nil, errUserNotFound
	}
	if dto.Role != row.Role {
		if err := s.checkRole(ctx, dto.Role); err != nil {
			return nil, err
		}
	}

	row.Username = dto.Username
	row.DisplayName = dto.DisplayName
	row.Role = dto.Role
	row.Email = dto.Email
	row.Phone = dto.Phone
	row.StoreID = dto.StoreID
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if dto.Password != "" {
		hash, err := s.hash(dto.Password)
		if err != nil {
			return nil, err
		}
		row.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.writeError(ctx, "update", err)
	}
	return FromDataModel(row), nil
}

// Delete deactivates the account; rows are kept so orders and shifts stay attributable.
func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	if callerID == id {
		return internal.NewValidationError("you cannot delete your own account", internal.ErrCodeCannotDeleteSelf)
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return errUserNotFound
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internal.NewInternalError("failed to deactivate user", err)
	}
	s.logger.InfoContext(ctx, "user deactivated", "user_id", id, "by", callerID)
	return nil
}

func (s *Service) writeError(ctx context.Context, op string, err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.ErrorContext(ctx, "user write failed", "op", op, "error", err)
	return internal.NewInternalError("failed to "+op+" user", err)
}
