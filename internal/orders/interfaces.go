package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/internal/realtime"
	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	"github.com/mosburritos/backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error)
	CountByStatus(ctx context.Context, locationID uuid.UUID, since time.Time) (map[enums.OrderStatus]int64, error)
	CompletedTotals(ctx context.Context, locationID uuid.UUID, since time.Time) (int64, decimal.Decimal, error)
}

// LocationResolver looks up explicitly requested locations and supplies the
// fallback for orders placed without one.
type LocationResolver interface {
	Get(ctx context.Context, locationID uuid.UUID) (*models.Location, error)
	ResolveDefault(ctx context.Context) (uuid.UUID, error)
}

// Notifier pushes order changes to realtime subscribers. Publish failures
// never fail the business operation.
type Notifier interface {
	OrderChanged(ctx context.Context, msg realtime.Message) error
}
