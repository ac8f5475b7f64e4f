package locations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/pkg/db/models"
)

// Repository defines persistence operations for locations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, location *models.Location) (*models.Location, error)
	FindByID(ctx context.Context, locationID uuid.UUID) (*models.Location, error)
	FindBySlug(ctx context.Context, slug string) (*models.Location, error)
	FindEarliestActive(ctx context.Context) (*models.Location, error)
	List(ctx context.Context, activeOnly bool) ([]models.Location, error)
	Update(ctx context.Context, locationID uuid.UUID, updates map[string]any) error
}
