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

	"github.com/mosburritos/backend/api/middleware"
	"github.com/mosburritos/backend/internal/menu"
	"github.com/mosburritos/backend/internal/orders"
	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
	"github.com/mosburritos/backend/pkg/pagination"
)

type stubOrdersService struct {
	createInput *orders.CreateOrderInput
	cancelInput *orders.CancelInput
	order       *models.Order
	err         error
}

func (s *stubOrdersService) Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	s.createInput = &input
	return s.order, s.err
}

func (s *stubOrdersService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) GetHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error) {
	return nil, s.err
}

func (s *stubOrdersService) List(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, s.err
}

func (s *stubOrdersService) SetStatus(ctx context.Context, input orders.SetStatusInput) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) Cancel(ctx context.Context, input orders.CancelInput) (*models.Order, error) {
	s.cancelInput = &input
	return s.order, s.err
}

func (s *stubOrdersService) ResetToCooking(ctx context.Context, orderID uuid.UUID, actor *orders.Actor) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) RecordPayment(ctx context.Context, input orders.RecordPaymentInput) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) FindByPaymentIntent(ctx context.Context, intentID string) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) DashboardStats(ctx context.Context, locationID uuid.UUID) (*orders.DashboardStats, error) {
	return &orders.DashboardStats{}, s.err
}

type stubMenuService struct {
	menu.Service

	items map[uuid.UUID]*models.MenuItem
}

func (s *stubMenuService) GetItem(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	return item, nil
}

func burritoItem(available bool) *models.MenuItem {
	return &models.MenuItem{
		ID:          uuid.New(),
		Name:        "Carnitas Burrito",
		Price:       decimal.NewFromFloat(9.50),
		IsAvailable: available,
		OptionGroups: []models.OptionGroup{
			{
				Name: "Extras",
				Options: []models.Option{
					{Name: "Guacamole", PriceModifier: decimal.NewFromFloat(1.25)},
					{Name: "Sour Cream", PriceModifier: decimal.Zero},
				},
			},
		},
	}
}

func TestOrdersCreateHydratesPricesFromMenu(t *testing.T) {
	item := burritoItem(true)
	ordersSvc := &stubOrdersService{order: &models.Order{ID: uuid.New()}}
	menuSvc := &stubMenuService{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	handler := OrdersCreate(ordersSvc, menuSvc, nil)

	body := `{
		"customer_name": "Dana",
		"items": [
			{"item_id": "` + item.ID.String() + `", "quantity": 2, "options": [{"group_name": "Extras", "option_name": "Guacamole"}]}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", rec.Code, rec.Body.String())
	}
	if ordersSvc.createInput == nil {
		t.Fatal("expected service create call")
	}
	got := ordersSvc.createInput.Items
	if len(got) != 1 {
		t.Fatalf("expected one hydrated item got %d", len(got))
	}
	if got[0].ItemID != item.ID.String() {
		t.Fatalf("expected item id %s got %q", item.ID, got[0].ItemID)
	}
	if got[0].Name != "Carnitas Burrito" {
		t.Fatalf("expected stored name got %q", got[0].Name)
	}
	if want := decimal.NewFromFloat(10.75); !got[0].Price.Equal(want) {
		t.Fatalf("expected unit price %s got %s", want, got[0].Price)
	}
	if got[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 got %d", got[0].Quantity)
	}
}

func TestOrdersCreateRejectsUnavailableItem(t *testing.T) {
	item := burritoItem(false)
	ordersSvc := &stubOrdersService{}
	menuSvc := &stubMenuService{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	handler := OrdersCreate(ordersSvc, menuSvc, nil)

	body := `{"customer_name": "Dana", "items": [{"item_id": "` + item.ID.String() + `", "quantity": 1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	if ordersSvc.createInput != nil {
		t.Fatal("service should not be called for unavailable items")
	}
}

func TestOrdersCreateRejectsUnknownOption(t *testing.T) {
	item := burritoItem(true)
	ordersSvc := &stubOrdersService{}
	menuSvc := &stubMenuService{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	handler := OrdersCreate(ordersSvc, menuSvc, nil)

	body := `{
		"customer_name": "Dana",
		"items": [
			{"item_id": "` + item.ID.String() + `", "quantity": 1, "options": [{"group_name": "Extras", "option_name": "Queso"}]}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOrdersGetHidesOtherCustomersOrders(t *testing.T) {
	owner := uuid.New()
	ordersSvc := &stubOrdersService{order: &models.Order{ID: uuid.New(), UserID: &owner}}
	handler := OrdersGet(ordersSvc, nil)

	req := orderRequest(t, http.MethodGet, ordersSvc.order.ID, nil)
	ctx := middleware.WithUserID(req.Context(), uuid.New().String())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestOrdersGetAllowsOwnOrder(t *testing.T) {
	owner := uuid.New()
	ordersSvc := &stubOrdersService{order: &models.Order{ID: uuid.New(), UserID: &owner}}
	handler := OrdersGet(ordersSvc, nil)

	req := orderRequest(t, http.MethodGet, ordersSvc.order.ID, nil)
	ctx := middleware.WithUserID(req.Context(), owner.String())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestOrdersCancelForwardsReasonAndActor(t *testing.T) {
	actorID := uuid.New()
	ordersSvc := &stubOrdersService{order: &models.Order{ID: uuid.New()}}
	handler := OrdersCancel(ordersSvc, nil)

	req := orderRequest(t, http.MethodPost, ordersSvc.order.ID, strings.NewReader(`{"reason": "changed my mind"}`))
	ctx := middleware.WithUserID(req.Context(), actorID.String())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rec.Code, rec.Body.String())
	}
	if ordersSvc.cancelInput == nil {
		t.Fatal("expected cancel call")
	}
	if ordersSvc.cancelInput.Reason == nil || *ordersSvc.cancelInput.Reason != "changed my mind" {
		t.Fatalf("unexpected reason %v", ordersSvc.cancelInput.Reason)
	}
	if ordersSvc.cancelInput.Actor == nil || ordersSvc.cancelInput.Actor.UserID != actorID {
		t.Fatal("expected actor forwarded from context")
	}
}

func orderRequest(t *testing.T, method string, orderID uuid.UUID, body *strings.Reader) *http.Request {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, "/api/v1/orders/"+orderID.String(), nil)
	} else {
		req = httptest.NewRequest(method, "/api/v1/orders/"+orderID.String(), body)
	}
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderID", orderID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}
