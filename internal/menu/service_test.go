package menu

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/pkg/db/models"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
)

type stubMenuRepo struct {
	categories map[uuid.UUID]*models.MenuCategory
	items      map[uuid.UUID]*models.MenuItem
	groups     []*models.OptionGroup
	options    []*models.Option
}

func newStubMenuRepo() *stubMenuRepo {
	return &stubMenuRepo{
		categories: make(map[uuid.UUID]*models.MenuCategory),
		items:      make(map[uuid.UUID]*models.MenuItem),
	}
}

func (s *stubMenuRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubMenuRepo) CreateCategory(ctx context.Context, category *models.MenuCategory) (*models.MenuCategory, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	s.categories[category.ID] = category
	return category, nil
}

func (s *stubMenuRepo) FindCategory(ctx context.Context, categoryID uuid.UUID) (*models.MenuCategory, error) {
	if category, ok := s.categories[categoryID]; ok {
		return category, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMenuRepo) UpdateCategory(ctx context.Context, categoryID uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubMenuRepo) ListCategories(ctx context.Context, locationID uuid.UUID, activeOnly bool) ([]models.MenuCategory, error) {
	return nil, nil
}

func (s *stubMenuRepo) CreateItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubMenuRepo) FindItem(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	if item, ok := s.items[itemID]; ok {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMenuRepo) UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	item, ok := s.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["is_available"]; ok {
		item.IsAvailable = v.(bool)
	}
	return nil
}

func (s *stubMenuRepo) CreateOptionGroup(ctx context.Context, group *models.OptionGroup) (*models.OptionGroup, error) {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	s.groups = append(s.groups, group)
	return group, nil
}

func (s *stubMenuRepo) FindOptionGroup(ctx context.Context, groupID uuid.UUID) (*models.OptionGroup, error) {
	for _, group := range s.groups {
		if group.ID == groupID {
			clone := *group
			clone.Options = nil
			for _, option := range s.options {
				if option.GroupID == groupID {
					clone.Options = append(clone.Options, *option)
				}
			}
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMenuRepo) CreateOption(ctx context.Context, option *models.Option) (*models.Option, error) {
	if option.ID == uuid.Nil {
		option.ID = uuid.New()
	}
	s.options = append(s.options, option)
	return option, nil
}

func (s *stubMenuRepo) ClearDefaultOptions(ctx context.Context, groupID uuid.UUID) error {
	for _, option := range s.options {
		if option.GroupID == groupID {
			option.IsDefault = false
		}
	}
	return nil
}

func (s *stubMenuRepo) SetOptionDefault(ctx context.Context, optionID uuid.UUID, isDefault bool) error {
	for _, option := range s.options {
		if option.ID == optionID {
			option.IsDefault = isDefault
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubMenuRepo) LoadMenu(ctx context.Context, locationID uuid.UUID) ([]models.MenuCategory, error) {
	var out []models.MenuCategory
	for _, category := range s.categories {
		if category.LocationID == locationID && category.IsActive {
			out = append(out, *category)
		}
	}
	return out, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestMenuService(t *testing.T) (Service, *stubMenuRepo) {
	t.Helper()
	repo := newStubMenuRepo()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func seedItem(repo *stubMenuRepo) *models.MenuItem {
	item := &models.MenuItem{
		ID:          uuid.New(),
		LocationID:  uuid.New(),
		CategoryID:  uuid.New(),
		Name:        "Carnitas Burrito",
		Price:       decimal.RequireFromString("9.99"),
		IsAvailable: true,
	}
	repo.items[item.ID] = item
	return item
}

func TestCreateItemValidatesCategoryLocation(t *testing.T) {
	svc, repo := newTestMenuService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CreateCategoryInput{
		LocationID: uuid.New(),
		Name:       "Burritos",
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	_ = repo

	_, err = svc.CreateItem(ctx, CreateItemInput{
		LocationID: uuid.New(),
		CategoryID: category.ID,
		Name:       "Carnitas Burrito",
		Price:      decimal.RequireFromString("9.99"),
	})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for cross-location category, got %v", err)
	}
}

func TestCreateItemRejectsNegativePrice(t *testing.T) {
	svc, _ := newTestMenuService(t)

	_, err := svc.CreateItem(context.Background(), CreateItemInput{
		LocationID: uuid.New(),
		CategoryID: uuid.New(),
		Name:       "Bad Item",
		Price:      decimal.RequireFromString("-1.00"),
	})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddOptionGroupSelectionBounds(t *testing.T) {
	svc, repo := newTestMenuService(t)
	item := seedItem(repo)

	_, err := svc.AddOptionGroup(context.Background(), AddOptionGroupInput{
		MenuItemID:    item.ID,
		Name:          "Size",
		MinSelections: 2,
		MaxSelections: 1,
		Options:       []OptionInput{{Name: "Large"}},
	})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for min>max, got %v", err)
	}
}

func TestAddOptionGroupSingleDefault(t *testing.T) {
	svc, repo := newTestMenuService(t)
	item := seedItem(repo)

	_, err := svc.AddOptionGroup(context.Background(), AddOptionGroupInput{
		MenuItemID:    item.ID,
		Name:          "Protein",
		MaxSelections: 1,
		Options: []OptionInput{
			{Name: "Carnitas", IsDefault: true},
			{Name: "Chicken", IsDefault: true},
		},
	})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for two defaults, got %v", err)
	}
}

func TestAddOptionGroupCreatesOptions(t *testing.T) {
	svc, repo := newTestMenuService(t)
	item := seedItem(repo)

	group, err := svc.AddOptionGroup(context.Background(), AddOptionGroupInput{
		MenuItemID:    item.ID,
		Name:          "Protein",
		MinSelections: 1,
		MaxSelections: 1,
		Options: []OptionInput{
			{Name: "Carnitas", IsDefault: true},
			{Name: "Chicken", PriceModifier: decimal.RequireFromString("1.50")},
		},
	})
	if err != nil {
		t.Fatalf("add option group: %v", err)
	}

	if len(group.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(group.Options))
	}
	if !group.Required() {
		t.Fatalf("expected group to be required")
	}
	if len(repo.options) != 2 {
		t.Fatalf("expected options persisted, got %d", len(repo.options))
	}
}

func seedProteinGroup(t *testing.T, svc Service, item *models.MenuItem) *models.OptionGroup {
	t.Helper()
	group, err := svc.AddOptionGroup(context.Background(), AddOptionGroupInput{
		MenuItemID:    item.ID,
		Name:          "Protein",
		MinSelections: 1,
		MaxSelections: 1,
		Options: []OptionInput{
			{Name: "Carnitas", IsDefault: true},
			{Name: "Chicken"},
		},
	})
	if err != nil {
		t.Fatalf("add option group: %v", err)
	}
	return group
}

func TestSetDefaultOptionSwitchesDefault(t *testing.T) {
	svc, repo := newTestMenuService(t)
	item := seedItem(repo)
	group := seedProteinGroup(t, svc, item)

	var chicken uuid.UUID
	for _, option := range group.Options {
		if option.Name == "Chicken" {
			chicken = option.ID
		}
	}

	updated, err := svc.SetDefaultOption(context.Background(), SetDefaultOptionInput{
		MenuItemID: item.ID,
		GroupID:    group.ID,
		OptionID:   chicken,
	})
	if err != nil {
		t.Fatalf("set default option: %v", err)
	}

	defaults := 0
	for _, option := range updated.Options {
		if option.IsDefault {
			defaults++
			if option.Name != "Chicken" {
				t.Fatalf("expected Chicken as default, got %q", option.Name)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
}

func TestSetDefaultOptionRejectsForeignOption(t *testing.T) {
	svc, repo := newTestMenuService(t)
	item := seedItem(repo)
	group := seedProteinGroup(t, svc, item)

	_, err := svc.SetDefaultOption(context.Background(), SetDefaultOptionInput{
		MenuItemID: item.ID,
		GroupID:    group.ID,
		OptionID:   uuid.New(),
	})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for option outside group, got %v", err)
	}
}

func TestSetDefaultOptionRejectsWrongItem(t *testing.T) {
	svc, repo := newTestMenuService(t)
	item := seedItem(repo)
	group := seedProteinGroup(t, svc, item)

	_, err := svc.SetDefaultOption(context.Background(), SetDefaultOptionInput{
		MenuItemID: uuid.New(),
		GroupID:    group.ID,
		OptionID:   group.Options[0].ID,
	})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for mismatched item, got %v", err)
	}
}

func TestSetAvailability(t *testing.T) {
	svc, repo := newTestMenuService(t)
	item := seedItem(repo)

	if err := svc.SetAvailability(context.Background(), item.ID, false); err != nil {
		t.Fatalf("set availability: %v", err)
	}
	if item.IsAvailable {
		t.Fatalf("expected item unavailable")
	}
}
