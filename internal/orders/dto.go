package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	"github.com/mosburritos/backend/pkg/types"
)

// CreateOrderInput carries everything needed to place an order. LocationID
// may be nil, in which case the default location policy applies.
type CreateOrderInput struct {
	LocationID    *uuid.UUID
	UserID        *uuid.UUID
	CustomerName  string
	CustomerPhone *string
	CustomerEmail *string
	PaymentMethod enums.PaymentMethod
	Notes         *string
	Items         []types.OrderItem
}

// Actor identifies who is performing a mutation, used for cancel guards and
// history attribution. A nil Actor on Cancel means an administrative caller.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
	Email  string
}

// SetStatusInput captures a direct status transition request.
type SetStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
	Note    *string
	Actor   *Actor
}

// CancelInput captures an order cancellation request.
type CancelInput struct {
	OrderID uuid.UUID
	Reason  *string
	Actor   *Actor
}

// RecordPaymentInput applies a processor outcome to an order.
type RecordPaymentInput struct {
	OrderID         uuid.UUID
	PaymentIntentID *string
	Status          enums.PaymentStatus
}

// ListFilters describe the inputs supported by the orders list.
type ListFilters struct {
	LocationID *uuid.UUID
	UserID     *uuid.UUID
	Status     *enums.OrderStatus
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// DashboardStats aggregates today's activity for one location. Revenue and
// average order value count completed orders only.
type DashboardStats struct {
	TotalOrders       int64           `json:"total_orders"`
	PendingCount      int64           `json:"pending_count"`
	PreparingCount    int64           `json:"preparing_count"`
	ReadyCount        int64           `json:"ready_count"`
	CompletedCount    int64           `json:"completed_count"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}
