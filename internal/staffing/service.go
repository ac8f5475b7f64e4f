package staffing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
)

// Service defines staffing operations and the location access check used
// across the API.
type Service interface {
	CanAccessLocation(ctx context.Context, userID uuid.UUID, role enums.UserRole, locationID uuid.UUID) (bool, error)
	AssignUser(ctx context.Context, input AssignUserInput) (*models.UserLocation, error)
	RemoveUser(ctx context.Context, userID, locationID uuid.UUID) error
	ListLocationStaff(ctx context.Context, locationID uuid.UUID) ([]models.UserLocation, error)
	ListUserLocations(ctx context.Context, userID uuid.UUID) ([]models.UserLocation, error)
}

// AssignUserInput carries the fields for creating or refreshing an assignment.
type AssignUserInput struct {
	UserID     uuid.UUID
	LocationID uuid.UUID
	Role       enums.LocationRole
}

type service struct {
	repo Repository
}

// NewService builds a staffing service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("staffing repository required")
	}
	return &service{repo: repo}, nil
}

// CanAccessLocation grants owners access to every location; anyone else needs
// an active assignment row for that location.
func (s *service) CanAccessLocation(ctx context.Context, userID uuid.UUID, role enums.UserRole, locationID uuid.UUID) (bool, error) {
	if role == enums.UserRoleOwner {
		return true, nil
	}
	if userID == uuid.Nil || locationID == uuid.Nil {
		return false, nil
	}

	assignment, err := s.repo.FindAssignment(ctx, userID, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location assignment")
	}
	return assignment.IsActive, nil
}

func (s *service) AssignUser(ctx context.Context, input AssignUserInput) (*models.UserLocation, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.LocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid location role %q", input.Role))
	}

	assignment := &models.UserLocation{
		UserID:     input.UserID,
		LocationID: input.LocationID,
		Role:       input.Role,
		IsActive:   true,
	}
	saved, err := s.repo.UpsertAssignment(ctx, assignment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert location assignment")
	}
	return saved, nil
}

func (s *service) RemoveUser(ctx context.Context, userID, locationID uuid.UUID) error {
	if userID == uuid.Nil || locationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and location id required")
	}
	if err := s.repo.DeactivateAssignment(ctx, userID, locationID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate location assignment")
	}
	return nil
}

func (s *service) ListLocationStaff(ctx context.Context, locationID uuid.UUID) ([]models.UserLocation, error) {
	if locationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}
	staff, err := s.repo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list location staff")
	}
	return staff, nil
}

func (s *service) ListUserLocations(ctx context.Context, userID uuid.UUID) ([]models.UserLocation, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	assignments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user locations")
	}
	return assignments, nil
}
