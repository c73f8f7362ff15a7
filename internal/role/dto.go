package role

import "github.com/frahmantamala/pos-backoffice/internal/permission"

type CreateRoleDTO struct {
	Name        string         `json:"name" validate:"required,min=2,max=50"`
	Description string         `json:"description" validate:"max=255"`
	Permissions permission.Set `json:"permissions"`
}

// UpdateRoleDTO replaces the whole role; omitted permission keys become false.
type UpdateRoleDTO struct {
	Name        string         `json:"name" validate:"required,min=2,max=50"`
	Description string         `json:"description" validate:"max=255"`
	Permissions permission.Set `json:"permissions"`
}
