package locations

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
	"github.com/mosburritos/backend/pkg/types"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Service defines location management operations.
type Service interface {
	Create(ctx context.Context, input CreateLocationInput) (*models.Location, error)
	Get(ctx context.Context, locationID uuid.UUID) (*models.Location, error)
	GetBySlug(ctx context.Context, slug string) (*models.Location, error)
	List(ctx context.Context, activeOnly bool) ([]models.Location, error)
	Update(ctx context.Context, locationID uuid.UUID, input UpdateLocationInput) (*models.Location, error)
	Deactivate(ctx context.Context, locationID uuid.UUID) error
	ResolveDefault(ctx context.Context) (uuid.UUID, error)
}

// CreateLocationInput carries the fields accepted when opening a location.
type CreateLocationInput struct {
	Name     string
	Slug     string
	Type     enums.LocationType
	Address  *string
	Phone    *string
	Timezone string
	Schedule types.JSONMap
}

// UpdateLocationInput carries the optional fields for a location update.
type UpdateLocationInput struct {
	Name     *string
	Address  *string
	Phone    *string
	Timezone *string
	Schedule types.JSONMap
	IsActive *bool
}

type service struct {
	repo Repository
}

// NewService builds a locations service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("locations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateLocationInput) (*models.Location, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name required")
	}
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !slugRe.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase letters, digits and hyphens")
	}
	locationType := input.Type
	if locationType == "" {
		locationType = enums.LocationTypeRestaurant
	}
	if !locationType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid location type %q", locationType))
	}
	timezone := input.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("slug %q already in use", slug))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug uniqueness")
	}

	location := &models.Location{
		Name:     strings.TrimSpace(input.Name),
		Slug:     slug,
		Type:     locationType,
		Address:  input.Address,
		Phone:    input.Phone,
		Timezone: timezone,
		Schedule: input.Schedule,
		IsActive: true,
	}
	saved, err := s.repo.Create(ctx, location)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	return saved, nil
}

func (s *service) Get(ctx context.Context, locationID uuid.UUID) (*models.Location, error) {
	if locationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}
	location, err := s.repo.FindByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return location, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Location, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug required")
	}
	location, err := s.repo.FindBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return location, nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Location, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, locationID uuid.UUID, input UpdateLocationInput) (*models.Location, error) {
	if _, err := s.Get(ctx, locationID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Timezone != nil {
		updates["timezone"] = *input.Timezone
	}
	if input.Schedule != nil {
		updates["schedule"] = input.Schedule
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return s.Get(ctx, locationID)
	}

	if err := s.repo.Update(ctx, locationID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location")
	}
	return s.Get(ctx, locationID)
}

func (s *service) Deactivate(ctx context.Context, locationID uuid.UUID) error {
	if _, err := s.Get(ctx, locationID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, locationID, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate location")
	}
	return nil
}

// ResolveDefault picks the earliest-created active location. Deterministic so
// orders placed without a location always land in the same place.
func (s *service) ResolveDefault(ctx context.Context) (uuid.UUID, error) {
	location, err := s.repo.FindEarliestActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active location available")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve default location")
	}
	return location.ID, nil
}
