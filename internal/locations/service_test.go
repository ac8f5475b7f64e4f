package locations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
)

type stubLocationsRepo struct {
	locations []*models.Location
	updates   map[string]any
}

func (s *stubLocationsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubLocationsRepo) Create(ctx context.Context, location *models.Location) (*models.Location, error) {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	location.CreatedAt = time.Now().UTC()
	s.locations = append(s.locations, location)
	return location, nil
}

func (s *stubLocationsRepo) FindByID(ctx context.Context, locationID uuid.UUID) (*models.Location, error) {
	for _, location := range s.locations {
		if location.ID == locationID {
			return location, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLocationsRepo) FindBySlug(ctx context.Context, slug string) (*models.Location, error) {
	for _, location := range s.locations {
		if location.Slug == slug {
			return location, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLocationsRepo) FindEarliestActive(ctx context.Context) (*models.Location, error) {
	var earliest *models.Location
	for _, location := range s.locations {
		if !location.IsActive {
			continue
		}
		if earliest == nil || location.CreatedAt.Before(earliest.CreatedAt) {
			earliest = location
		}
	}
	if earliest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return earliest, nil
}

func (s *stubLocationsRepo) List(ctx context.Context, activeOnly bool) ([]models.Location, error) {
	var out []models.Location
	for _, location := range s.locations {
		if activeOnly && !location.IsActive {
			continue
		}
		out = append(out, *location)
	}
	return out, nil
}

func (s *stubLocationsRepo) Update(ctx context.Context, locationID uuid.UUID, updates map[string]any) error {
	s.updates = updates
	location, err := s.FindByID(ctx, locationID)
	if err != nil {
		return err
	}
	if v, ok := updates["is_active"]; ok {
		location.IsActive = v.(bool)
	}
	if v, ok := updates["name"]; ok {
		location.Name = v.(string)
	}
	return nil
}

func TestCreateLocationValidatesSlug(t *testing.T) {
	svc, err := NewService(&stubLocationsRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateLocationInput{
		Name: "Downtown",
		Slug: "Not A Slug!",
	})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateLocationRejectsDuplicateSlug(t *testing.T) {
	repo := &stubLocationsRepo{}
	svc, _ := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateLocationInput{Name: "Downtown", Slug: "downtown"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, CreateLocationInput{Name: "Downtown 2", Slug: "downtown"})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateLocationDefaults(t *testing.T) {
	repo := &stubLocationsRepo{}
	svc, _ := NewService(repo)

	location, err := svc.Create(context.Background(), CreateLocationInput{
		Name: "Truck One",
		Slug: "truck-one",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if location.Type != enums.LocationTypeRestaurant {
		t.Fatalf("expected restaurant default, got %s", location.Type)
	}
	if location.Timezone != "UTC" {
		t.Fatalf("expected UTC default, got %s", location.Timezone)
	}
	if !location.IsActive {
		t.Fatalf("expected new location active")
	}
}

func TestResolveDefaultPicksEarliestActive(t *testing.T) {
	repo := &stubLocationsRepo{}
	now := time.Now().UTC()
	oldest := &models.Location{ID: uuid.New(), Slug: "a", IsActive: false, CreatedAt: now.Add(-3 * time.Hour)}
	middle := &models.Location{ID: uuid.New(), Slug: "b", IsActive: true, CreatedAt: now.Add(-2 * time.Hour)}
	newest := &models.Location{ID: uuid.New(), Slug: "c", IsActive: true, CreatedAt: now.Add(-1 * time.Hour)}
	repo.locations = []*models.Location{newest, oldest, middle}

	svc, _ := NewService(repo)
	id, err := svc.ResolveDefault(context.Background())
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if id != middle.ID {
		t.Fatalf("expected earliest active location, got %s", id)
	}
}

func TestResolveDefaultNoActiveLocations(t *testing.T) {
	svc, _ := NewService(&stubLocationsRepo{})

	_, err := svc.ResolveDefault(context.Background())
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeactivateLocation(t *testing.T) {
	repo := &stubLocationsRepo{}
	svc, _ := NewService(repo)
	ctx := context.Background()

	location, err := svc.Create(ctx, CreateLocationInput{Name: "Downtown", Slug: "downtown"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Deactivate(ctx, location.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if location.IsActive {
		t.Fatalf("expected location deactivated")
	}
}
