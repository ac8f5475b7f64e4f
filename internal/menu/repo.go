package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a menu repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCategory(ctx context.Context, category *models.MenuCategory) (*models.MenuCategory, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *repository) FindCategory(ctx context.Context, categoryID uuid.UUID) (*models.MenuCategory, error) {
	var category models.MenuCategory
	err := r.db.WithContext(ctx).
		Where("id = ?", categoryID).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) UpdateCategory(ctx context.Context, categoryID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.MenuCategory{}).
		Where("id = ?", categoryID).
		Updates(updates).Error
}

func (r *repository) ListCategories(ctx context.Context, locationID uuid.UUID, activeOnly bool) ([]models.MenuCategory, error) {
	query := r.db.WithContext(ctx).Where("location_id = ?", locationID)
	if activeOnly {
		query = query.Where("is_active = TRUE")
	}
	var categories []models.MenuCategory
	err := query.Order("display_order ASC, created_at ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindItem(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Preload("OptionGroups.Options").
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

func (r *repository) CreateOptionGroup(ctx context.Context, group *models.OptionGroup) (*models.OptionGroup, error) {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (r *repository) FindOptionGroup(ctx context.Context, groupID uuid.UUID) (*models.OptionGroup, error) {
	var group models.OptionGroup
	err := r.db.WithContext(ctx).
		Preload("Options").
		Where("id = ?", groupID).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repository) CreateOption(ctx context.Context, option *models.Option) (*models.Option, error) {
	if err := r.db.WithContext(ctx).Create(option).Error; err != nil {
		return nil, err
	}
	return option, nil
}

func (r *repository) ClearDefaultOptions(ctx context.Context, groupID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Option{}).
		Where("group_id = ?", groupID).
		Update("is_default", false).Error
}

func (r *repository) SetOptionDefault(ctx context.Context, optionID uuid.UUID, isDefault bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Option{}).
		Where("id = ?", optionID).
		Update("is_default", isDefault).Error
}

func (r *repository) LoadMenu(ctx context.Context, locationID uuid.UUID) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = TRUE").Order("display_order ASC")
		}).
		Preload("Items.OptionGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Items.OptionGroups.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("location_id = ? AND is_active = TRUE", locationID).
		Order("display_order ASC, created_at ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
