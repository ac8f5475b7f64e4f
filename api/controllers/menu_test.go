package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mosburritos/backend/internal/menu"
	"github.com/mosburritos/backend/pkg/db/models"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
)

type stubMenuAdminService struct {
	menu.Service

	categories map[uuid.UUID]*models.MenuCategory
	items      map[uuid.UUID]*models.MenuItem

	updatedItemID     *uuid.UUID
	updatedCategoryID *uuid.UUID
	availabilityID    *uuid.UUID
	defaultInput      *menu.SetDefaultOptionInput
}

func (s *stubMenuAdminService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.MenuCategory, error) {
	if category, ok := s.categories[categoryID]; ok {
		return category, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
}

func (s *stubMenuAdminService) GetItem(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	if item, ok := s.items[itemID]; ok {
		return item, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
}

func (s *stubMenuAdminService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input menu.UpdateCategoryInput) (*models.MenuCategory, error) {
	s.updatedCategoryID = &categoryID
	return s.categories[categoryID], nil
}

func (s *stubMenuAdminService) UpdateItem(ctx context.Context, itemID uuid.UUID, input menu.UpdateItemInput) (*models.MenuItem, error) {
	s.updatedItemID = &itemID
	return s.items[itemID], nil
}

func (s *stubMenuAdminService) SetAvailability(ctx context.Context, itemID uuid.UUID, available bool) error {
	s.availabilityID = &itemID
	return nil
}

func (s *stubMenuAdminService) SetDefaultOption(ctx context.Context, input menu.SetDefaultOptionInput) (*models.OptionGroup, error) {
	s.defaultInput = &input
	return &models.OptionGroup{ID: input.GroupID, MenuItemID: input.MenuItemID}, nil
}

func newStubMenuAdminService() *stubMenuAdminService {
	return &stubMenuAdminService{
		categories: make(map[uuid.UUID]*models.MenuCategory),
		items:      make(map[uuid.UUID]*models.MenuItem),
	}
}

func seedAdminItem(svc *stubMenuAdminService) *models.MenuItem {
	item := &models.MenuItem{
		ID:          uuid.New(),
		LocationID:  uuid.New(),
		CategoryID:  uuid.New(),
		Name:        "Barbacoa Burrito",
		Price:       decimal.NewFromFloat(10.50),
		IsAvailable: true,
	}
	svc.items[item.ID] = item
	return item
}

func menuAdminRequest(method, path, body string, params map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestMenuUpdateItemRejectsOtherLocation(t *testing.T) {
	svc := newStubMenuAdminService()
	item := seedAdminItem(svc)
	handler := MenuUpdateItem(svc, nil)

	otherLocation := uuid.New()
	req := menuAdminRequest(http.MethodPatch,
		"/api/v1/staff/locations/"+otherLocation.String()+"/menu/items/"+item.ID.String(),
		`{"name": "Renamed"}`,
		map[string]string{"locationID": otherLocation.String(), "itemID": item.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-location item, got %d", rec.Code)
	}
	if svc.updatedItemID != nil {
		t.Fatal("update must not run for another location's item")
	}
}

func TestMenuUpdateItemSameLocation(t *testing.T) {
	svc := newStubMenuAdminService()
	item := seedAdminItem(svc)
	handler := MenuUpdateItem(svc, nil)

	req := menuAdminRequest(http.MethodPatch,
		"/api/v1/staff/locations/"+item.LocationID.String()+"/menu/items/"+item.ID.String(),
		`{"name": "Renamed"}`,
		map[string]string{"locationID": item.LocationID.String(), "itemID": item.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.updatedItemID == nil || *svc.updatedItemID != item.ID {
		t.Fatal("expected update call for the scoped item")
	}
}

func TestMenuUpdateCategoryRejectsOtherLocation(t *testing.T) {
	svc := newStubMenuAdminService()
	category := &models.MenuCategory{ID: uuid.New(), LocationID: uuid.New(), Name: "Burritos", IsActive: true}
	svc.categories[category.ID] = category
	handler := MenuUpdateCategory(svc, nil)

	otherLocation := uuid.New()
	req := menuAdminRequest(http.MethodPatch,
		"/api/v1/staff/locations/"+otherLocation.String()+"/menu/categories/"+category.ID.String(),
		`{"name": "Renamed"}`,
		map[string]string{"locationID": otherLocation.String(), "categoryID": category.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-location category, got %d", rec.Code)
	}
	if svc.updatedCategoryID != nil {
		t.Fatal("update must not run for another location's category")
	}
}

func TestMenuSetAvailabilityRejectsOtherLocation(t *testing.T) {
	svc := newStubMenuAdminService()
	item := seedAdminItem(svc)
	handler := MenuSetAvailability(svc, nil)

	otherLocation := uuid.New()
	req := menuAdminRequest(http.MethodPut,
		"/api/v1/staff/locations/"+otherLocation.String()+"/menu/items/"+item.ID.String()+"/availability",
		`{"is_available": false}`,
		map[string]string{"locationID": otherLocation.String(), "itemID": item.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if svc.availabilityID != nil {
		t.Fatal("availability must not change for another location's item")
	}
}

func TestMenuSetDefaultOptionForwardsScopedInput(t *testing.T) {
	svc := newStubMenuAdminService()
	item := seedAdminItem(svc)
	handler := MenuSetDefaultOption(svc, nil)

	groupID := uuid.New()
	optionID := uuid.New()
	req := menuAdminRequest(http.MethodPut,
		"/api/v1/staff/locations/"+item.LocationID.String()+"/menu/items/"+item.ID.String()+"/option-groups/"+groupID.String()+"/default-option",
		`{"option_id": "`+optionID.String()+`"}`,
		map[string]string{
			"locationID": item.LocationID.String(),
			"itemID":     item.ID.String(),
			"groupID":    groupID.String(),
		})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.defaultInput == nil {
		t.Fatal("expected service call")
	}
	if svc.defaultInput.MenuItemID != item.ID || svc.defaultInput.GroupID != groupID || svc.defaultInput.OptionID != optionID {
		t.Fatalf("unexpected input %+v", svc.defaultInput)
	}
}
