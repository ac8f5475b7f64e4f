package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mosburritos/backend/pkg/enums"
	"github.com/mosburritos/backend/pkg/types"
)

// Location represents one restaurant or food-truck site. All menus, orders
// and staffing rows hang off a location.
type Location struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	Slug      string             `gorm:"column:slug;not null;uniqueIndex"`
	Type      enums.LocationType `gorm:"column:type;type:text;not null;default:'restaurant'"`
	Address   *string            `gorm:"column:address"`
	Phone     *string            `gorm:"column:phone"`
	Timezone  string             `gorm:"column:timezone;not null;default:'UTC'"`
	Schedule  types.JSONMap      `gorm:"column:schedule;type:jsonb;serializer:json"`
	IsActive  bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
