package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mosburritos/backend/pkg/enums"
	"github.com/mosburritos/backend/pkg/types"
)

// Order is one placed order. Items are a jsonb snapshot frozen at checkout;
// totals are persisted rather than recomputed from the live menu.
type Order struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LocationID          uuid.UUID            `gorm:"column:location_id;type:uuid;not null;index"`
	UserID              *uuid.UUID           `gorm:"column:user_id;type:uuid;index"`
	CustomerName        string               `gorm:"column:customer_name;not null"`
	CustomerPhone       *string              `gorm:"column:customer_phone"`
	CustomerEmail       *string              `gorm:"column:customer_email"`
	Status              enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus       enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentMethod       enums.PaymentMethod  `gorm:"column:payment_method;type:text;not null;default:'cash'"`
	PaymentIntentID     *string              `gorm:"column:payment_intent_id;index"`
	Items               []types.OrderItem    `gorm:"column:items;type:jsonb;serializer:json;not null"`
	Subtotal            decimal.Decimal      `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax                 decimal.Decimal      `gorm:"column:tax;type:numeric(10,2);not null"`
	Total               decimal.Decimal      `gorm:"column:total;type:numeric(10,2);not null"`
	Notes               *string              `gorm:"column:notes"`
	EstimatedCompletion *time.Time           `gorm:"column:estimated_completion"`
	CompletedAt         *time.Time           `gorm:"column:completed_at"`
	History             []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
