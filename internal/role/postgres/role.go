package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/database"
	roleDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/user"
	"github.com/frahmantamala/pos-backoffice/internal/role"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

var errDuplicateName = internal.NewConflictError("role name already exists", internal.ErrCodeRoleExists)

func (r *RoleRepository) List(ctx context.Context) ([]*roleDatamodel.Role, error) {
	var roles []*roleDatamodel.Role
	err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) Create(ctx context.Context, row *roleDatamodel.Role) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return errDuplicateName
		}
		return err
	}
	return nil
}

func (r *RoleRepository) Update(ctx context.Context, row *roleDatamodel.Role, previousName string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		if previousName == "" || previousName == row.Name {
			return nil
		}
		return tx.Model(&userDatamodel.User{}).
			Where("role = ?", previousName).
			Update("role", row.Name).Error
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errDuplicateName
		}
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ? AND is_system = ?", id, false).Delete(&roleDatamodel.Role{}).Error
}

func (r *RoleRepository) CountActiveUsers(ctx context.Context, name string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("role = ? AND is_active = ?", name, true).
		Count(&n).Error
	return n, err
}

// EnsureSystemRoles inserts the built-in rows if missing; existing rows are left as they are.
func EnsureSystemRoles(ctx context.Context, db *gorm.DB) error {
	rows := role.SystemRows()
	for _, row := range rows {
		row.IsSystem = true
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
}
