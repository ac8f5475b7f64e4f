package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuCategory groups menu items for display ordering within a location.
type MenuCategory struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LocationID   uuid.UUID  `gorm:"column:location_id;type:uuid;not null;index"`
	Name         string     `gorm:"column:name;not null"`
	Description  *string    `gorm:"column:description"`
	DisplayOrder int        `gorm:"column:display_order;not null;default:0"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	Items        []MenuItem `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
