package role

import (
	"time"

	"github.com/frahmantamala/pos-backoffice/internal/permission"
)

type Role struct {
	ID          int64          `gorm:"primaryKey"`
	Name        string         `gorm:"column:name;uniqueIndex;not null"`
	Description string         `gorm:"column:description"`
	IsSystem    bool           `gorm:"column:is_system"`
	Permissions permission.Set `gorm:"column:permissions;serializer:json;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}
