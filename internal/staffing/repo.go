package staffing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mosburritos/backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a staffing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindAssignment(ctx context.Context, userID, locationID uuid.UUID) (*models.UserLocation, error) {
	var assignment models.UserLocation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND location_id = ?", userID, locationID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) UpsertAssignment(ctx context.Context, assignment *models.UserLocation) (*models.UserLocation, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "location_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "is_active", "updated_at"}),
		}).
		Create(assignment).Error
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func (r *repository) DeactivateAssignment(ctx context.Context, userID, locationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.UserLocation{}).
		Where("user_id = ? AND location_id = ?", userID, locationID).
		Update("is_active", false).Error
}

func (r *repository) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]models.UserLocation, error) {
	var assignments []models.UserLocation
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND is_active = TRUE", locationID).
		Order("created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserLocation, error) {
	var assignments []models.UserLocation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = TRUE", userID).
		Order("created_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
