package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/pkg/db/models"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines menu management operations.
type Service interface {
	GetMenu(ctx context.Context, locationID uuid.UUID) ([]models.MenuCategory, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.MenuCategory, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.MenuCategory, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*models.MenuCategory, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*models.MenuItem, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.MenuItem, error)
	SetAvailability(ctx context.Context, itemID uuid.UUID, available bool) error
	AddOptionGroup(ctx context.Context, input AddOptionGroupInput) (*models.OptionGroup, error)
	SetDefaultOption(ctx context.Context, input SetDefaultOptionInput) (*models.OptionGroup, error)
}

// CreateCategoryInput carries the fields for a new menu category.
type CreateCategoryInput struct {
	LocationID   uuid.UUID
	Name         string
	Description  *string
	DisplayOrder int
}

// UpdateCategoryInput carries the optional fields for a category update.
type UpdateCategoryInput struct {
	Name         *string
	Description  *string
	DisplayOrder *int
	IsActive     *bool
}

// CreateItemInput carries the fields for a new menu item.
type CreateItemInput struct {
	LocationID   uuid.UUID
	CategoryID   uuid.UUID
	Name         string
	Description  *string
	Price        decimal.Decimal
	ImageURL     *string
	DisplayOrder int
}

// UpdateItemInput carries the optional fields for an item update.
type UpdateItemInput struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	ImageURL     *string
	DisplayOrder *int
}

// OptionInput is one option inside a new group.
type OptionInput struct {
	Name          string
	PriceModifier decimal.Decimal
	IsDefault     bool
	DisplayOrder  int
}

// AddOptionGroupInput creates a modifier group with its options in one shot.
type AddOptionGroupInput struct {
	MenuItemID    uuid.UUID
	Name          string
	MinSelections int
	MaxSelections int
	DisplayOrder  int
	Options       []OptionInput
}

// SetDefaultOptionInput selects which option a group preselects. MenuItemID
// scopes the group so callers cannot reach across items.
type SetDefaultOptionInput struct {
	MenuItemID uuid.UUID
	GroupID    uuid.UUID
	OptionID   uuid.UUID
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a menu service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) GetMenu(ctx context.Context, locationID uuid.UUID) ([]models.MenuCategory, error) {
	if locationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}
	categories, err := s.repo.LoadMenu(ctx, locationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu")
	}
	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.MenuCategory, error) {
	if input.LocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	category := &models.MenuCategory{
		LocationID:   input.LocationID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		DisplayOrder: input.DisplayOrder,
		IsActive:     true,
	}
	saved, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return saved, nil
}

func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*models.MenuCategory, error) {
	if _, err := s.findCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.DisplayOrder != nil {
		updates["display_order"] = *input.DisplayOrder
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateCategory(ctx, categoryID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
		}
	}
	return s.findCategory(ctx, categoryID)
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.MenuItem, error) {
	if input.LocationID == uuid.Nil || input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id and category id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
	}

	category, err := s.findCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.LocationID != input.LocationID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category belongs to another location")
	}

	item := &models.MenuItem{
		LocationID:   input.LocationID,
		CategoryID:   input.CategoryID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Price:        input.Price.Round(2),
		ImageURL:     input.ImageURL,
		IsAvailable:  true,
		DisplayOrder: input.DisplayOrder,
	}
	saved, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu item")
	}
	return saved, nil
}

func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.MenuItem, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		updates["price"] = input.Price.Round(2)
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.DisplayOrder != nil {
		updates["display_order"] = *input.DisplayOrder
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateItem(ctx, itemID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
		}
	}
	return s.GetItem(ctx, itemID)
}

func (s *service) SetAvailability(ctx context.Context, itemID uuid.UUID, available bool) error {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return err
	}
	if err := s.repo.UpdateItem(ctx, itemID, map[string]any{"is_available": available}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set item availability")
	}
	return nil
}

// AddOptionGroup creates a group plus its options transactionally. Selection
// bounds must satisfy 0 <= min <= max, and at most one option may be the
// default.
func (s *service) AddOptionGroup(ctx context.Context, input AddOptionGroupInput) (*models.OptionGroup, error) {
	if input.MenuItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "option group name required")
	}
	if input.MinSelections < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min selections cannot be negative")
	}
	if input.MaxSelections < input.MinSelections {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max selections cannot be below min selections")
	}
	if len(input.Options) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "option group needs at least one option")
	}

	defaults := 0
	for _, option := range input.Options {
		if strings.TrimSpace(option.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "option name required")
		}
		if option.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only one option may be the default")
	}

	if _, err := s.GetItem(ctx, input.MenuItemID); err != nil {
		return nil, err
	}

	group := &models.OptionGroup{
		MenuItemID:    input.MenuItemID,
		Name:          strings.TrimSpace(input.Name),
		MinSelections: input.MinSelections,
		MaxSelections: input.MaxSelections,
		DisplayOrder:  input.DisplayOrder,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateOptionGroup(ctx, group); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create option group")
		}
		for _, optionInput := range input.Options {
			option := &models.Option{
				GroupID:       group.ID,
				Name:          strings.TrimSpace(optionInput.Name),
				PriceModifier: optionInput.PriceModifier.Round(2),
				IsDefault:     optionInput.IsDefault,
				DisplayOrder:  optionInput.DisplayOrder,
			}
			if _, err := repo.CreateOption(ctx, option); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create option")
			}
			group.Options = append(group.Options, *option)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// SetDefaultOption makes one option the group's preselected choice, clearing
// any previous default in the same transaction.
func (s *service) SetDefaultOption(ctx context.Context, input SetDefaultOptionInput) (*models.OptionGroup, error) {
	if input.MenuItemID == uuid.Nil || input.GroupID == uuid.Nil || input.OptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id, group id and option id required")
	}

	group, err := s.findOptionGroup(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}
	if group.MenuItemID != input.MenuItemID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "option group not found")
	}

	found := false
	for _, option := range group.Options {
		if option.ID == input.OptionID {
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "option not found in group")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearDefaultOptions(ctx, group.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default options")
		}
		if err := repo.SetOptionDefault(ctx, input.OptionID, true); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default option")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.findOptionGroup(ctx, group.ID)
}

func (s *service) GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.MenuCategory, error) {
	return s.findCategory(ctx, categoryID)
}

func (s *service) findOptionGroup(ctx context.Context, groupID uuid.UUID) (*models.OptionGroup, error) {
	group, err := s.repo.FindOptionGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "option group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load option group")
	}
	return group, nil
}

func (s *service) findCategory(ctx context.Context, categoryID uuid.UUID) (*models.MenuCategory, error) {
	if categoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	category, err := s.repo.FindCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}
