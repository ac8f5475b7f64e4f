package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mosburritos/backend/pkg/enums"
)

// UserLocation assigns a user to a location with a site-level role. A user
// has at most one active assignment per location.
type UserLocation struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID          `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_location"`
	LocationID uuid.UUID          `gorm:"column:location_id;type:uuid;not null;uniqueIndex:idx_user_location"`
	Role       enums.LocationRole `gorm:"column:role;type:text;not null"`
	IsActive   bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
