package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mosburritos/backend/pkg/enums"
)

// OrderStatusHistory is an append-only record of one status transition.
// Rows are never updated or deleted.
type OrderStatusHistory struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null"`
	Note            *string           `gorm:"column:note"`
	ChangedByUserID *uuid.UUID        `gorm:"column:changed_by_user_id;type:uuid"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
}
