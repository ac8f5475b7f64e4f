package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/pkg/db/models"
)

// Repository defines persistence operations for menu tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateCategory(ctx context.Context, category *models.MenuCategory) (*models.MenuCategory, error)
	FindCategory(ctx context.Context, categoryID uuid.UUID) (*models.MenuCategory, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, updates map[string]any) error
	ListCategories(ctx context.Context, locationID uuid.UUID, activeOnly bool) ([]models.MenuCategory, error)
	CreateItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	CreateOptionGroup(ctx context.Context, group *models.OptionGroup) (*models.OptionGroup, error)
	FindOptionGroup(ctx context.Context, groupID uuid.UUID) (*models.OptionGroup, error)
	CreateOption(ctx context.Context, option *models.Option) (*models.Option, error)
	ClearDefaultOptions(ctx context.Context, groupID uuid.UUID) error
	SetOptionDefault(ctx context.Context, optionID uuid.UUID, isDefault bool) error
	LoadMenu(ctx context.Context, locationID uuid.UUID) ([]models.MenuCategory, error)
}
