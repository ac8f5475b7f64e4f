package staffing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/pkg/db/models"
)

// Repository defines persistence operations for user-location assignments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindAssignment(ctx context.Context, userID, locationID uuid.UUID) (*models.UserLocation, error)
	UpsertAssignment(ctx context.Context, assignment *models.UserLocation) (*models.UserLocation, error)
	DeactivateAssignment(ctx context.Context, userID, locationID uuid.UUID) error
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]models.UserLocation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserLocation, error)
}
