package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mosburritos/backend/pkg/enums"
)

type stubAccessChecker struct {
	ok  bool
	err error

	gotUser     uuid.UUID
	gotRole     enums.UserRole
	gotLocation uuid.UUID
}

func (s *stubAccessChecker) CanAccessLocation(ctx context.Context, userID uuid.UUID, role enums.UserRole, locationID uuid.UUID) (bool, error) {
	s.gotUser = userID
	s.gotRole = role
	s.gotLocation = locationID
	return s.ok, s.err
}

func locationRequest(t *testing.T, locationID string, userID uuid.UUID, role enums.UserRole) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/locations/"+locationID+"/orders", nil)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("locationID", locationID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = WithUserID(ctx, userID.String())
	ctx = WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func TestLocationAccessAllowsAssignedStaff(t *testing.T) {
	checker := &stubAccessChecker{ok: true}
	locationID := uuid.New()
	userID := uuid.New()

	var seenLocation string
	handler := LocationAccess(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenLocation = LocationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, locationRequest(t, locationID.String(), userID, enums.UserRoleStaff))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if seenLocation != locationID.String() {
		t.Fatalf("expected location %s got %s", locationID, seenLocation)
	}
	if checker.gotUser != userID || checker.gotLocation != locationID {
		t.Fatal("checker called with wrong identifiers")
	}
}

func TestLocationAccessRejectsUnassignedStaff(t *testing.T) {
	checker := &stubAccessChecker{ok: false}
	handler := LocationAccess(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, locationRequest(t, uuid.New().String(), uuid.New(), enums.UserRoleStaff))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestLocationAccessRejectsMalformedID(t *testing.T) {
	checker := &stubAccessChecker{ok: true}
	handler := LocationAccess(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, locationRequest(t, "not-a-uuid", uuid.New(), enums.UserRoleStaff))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRequireRolesBlocksCustomer(t *testing.T) {
	handler := RequireRoles(nil, string(enums.UserRoleOwner), string(enums.UserRoleManager))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.UserRoleCustomer)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	handler := RequireRoles(nil, string(enums.UserRoleOwner), string(enums.UserRoleManager))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.UserRoleManager)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
