package locations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a locations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, location *models.Location) (*models.Location, error) {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

func (r *repository) FindByID(ctx context.Context, locationID uuid.UUID) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		Where("id = ?", locationID).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *repository) FindEarliestActive(ctx context.Context) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		Where("is_active = TRUE").
		Order("created_at ASC, id ASC").
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]models.Location, error) {
	query := r.db.WithContext(ctx).Model(&models.Location{})
	if activeOnly {
		query = query.Where("is_active = TRUE")
	}
	var rows []models.Location
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, locationID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("id = ?", locationID).
		Updates(updates).Error
}
