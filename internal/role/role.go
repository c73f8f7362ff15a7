package role

import (
	"time"

	roleDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/role"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
)

type Role struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	IsSystem    bool           `json:"isSystem"`
	Permissions permission.Set `json:"permissions"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// systemRole builds the listing entry for a built-in role that has no stored row.
func systemRole(name string) *Role {
	set, _ := permission.SystemSet(name)
	return &Role{
		Name:        name,
		Description: permission.SystemDescription(name),
		IsSystem:    true,
		Permissions: set,
	}
}

// SystemRows returns the rows seeded for the built-in roles.
func SystemRows() []*roleDatamodel.Role {
	rows := make([]*roleDatamodel.Role, 0, len(permission.SystemRoleNames()))
	for _, name := range permission.SystemRoleNames() {
		rows = append(rows, ToDataModel(systemRole(name)))
	}
	return rows
}

func ToDataModel(r *Role) *roleDatamodel.Role {
	return &roleDatamodel.Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: r.Permissions,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromDataModel never trusts stored permissions for a built-in name.
func FromDataModel(r *roleDatamodel.Role) *Role {
	out := &Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: r.Permissions,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if set, ok := permission.SystemSet(r.Name); ok {
		out.IsSystem = true
		out.Permissions = set
	}
	return out
}
