package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mosburritos/backend/api/controllers"
	webhookcontrollers "github.com/mosburritos/backend/api/controllers/webhooks"
	"github.com/mosburritos/backend/api/middleware"
	"github.com/mosburritos/backend/internal/auth"
	"github.com/mosburritos/backend/internal/locations"
	"github.com/mosburritos/backend/internal/menu"
	"github.com/mosburritos/backend/internal/orders"
	"github.com/mosburritos/backend/internal/payments"
	"github.com/mosburritos/backend/internal/staffing"
	"github.com/mosburritos/backend/internal/users"
	stripewebhook "github.com/mosburritos/backend/internal/webhooks/stripe"
	"github.com/mosburritos/backend/pkg/config"
	"github.com/mosburritos/backend/pkg/enums"
	"github.com/mosburritos/backend/pkg/logger"
	"github.com/mosburritos/backend/pkg/metrics"
	"github.com/mosburritos/backend/pkg/redis"
	"github.com/mosburritos/backend/pkg/stripe"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Redis    *redis.Client
	Sessions middleware.SessionChecker
	Registry *prometheus.Registry
	Metrics  *metrics.HTTPMetrics

	AuthService      auth.Service
	UsersService     users.Service
	LocationsService locations.Service
	MenuService      menu.Service
	OrdersService    orders.Service
	StaffingService  staffing.Service
	PaymentsService  payments.Service

	StripeClient       *stripe.Client
	StripeWebhookSvc   *stripewebhook.Service
	StripeWebhookGuard *stripewebhook.IdempotencyGuard
}

type pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.CORS),
	)

	staffRoles := []string{
		string(enums.UserRoleOwner),
		string(enums.UserRoleManager),
		string(enums.UserRoleStaff),
	}
	managerRoles := []string{
		string(enums.UserRoleOwner),
		string(enums.UserRoleManager),
	}
	ownerRole := []string{string(enums.UserRoleOwner)}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.StripeWebhookSvc, deps.StripeClient, deps.StripeWebhookGuard, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login/external", controllers.AuthLoginExternal(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	// Guest-facing surface: browsing and ordering work without an account,
	// but authenticated callers get attributed.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))

		r.Get("/locations", controllers.LocationsList(deps.LocationsService, logg))
		r.Get("/locations/slug/{slug}", controllers.LocationsGetBySlug(deps.LocationsService, logg))
		r.Get("/locations/{locationID}", controllers.LocationsGet(deps.LocationsService, logg))
		r.Get("/locations/{locationID}/menu", controllers.MenuGet(deps.MenuService, logg))
		r.Get("/menu/items/{itemID}", controllers.MenuGetItem(deps.MenuService, logg))

		r.Post("/orders", controllers.OrdersCreate(deps.OrdersService, deps.MenuService, logg))
		r.Get("/orders/{orderID}", controllers.OrdersGet(deps.OrdersService, logg))
		r.Get("/orders/{orderID}/history", controllers.OrdersHistory(deps.OrdersService, logg))
		r.Post("/orders/{orderID}/cancel", controllers.OrdersCancel(deps.OrdersService, logg))

		r.Post("/payments/intent", controllers.PaymentsCreateIntent(deps.PaymentsService, logg))
		r.Post("/payments/verify", controllers.PaymentsVerify(deps.PaymentsService, logg))
	})

	// Account surface.
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Get("/me", controllers.UsersMe(deps.UsersService, logg))
		r.Patch("/me", controllers.UsersUpdateMe(deps.UsersService, logg))
		r.Delete("/me", controllers.UsersDeactivateMe(deps.UsersService, logg))
		r.Get("/me/locations", controllers.StaffingMyLocations(deps.StaffingService, logg))
		r.Get("/me/orders", controllers.OrdersMine(deps.OrdersService, logg))
	})

	// Kitchen and management surface.
	r.Route("/api/v1/staff", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, staffRoles...))
			r.Patch("/orders/{orderID}/status", controllers.OrdersSetStatus(deps.OrdersService, logg))
			r.Patch("/orders/{orderID}/payment", controllers.OrdersRecordPayment(deps.OrdersService, logg))
			r.Post("/orders/{orderID}/reset-to-cooking", controllers.OrdersResetToCooking(deps.OrdersService, logg))
		})

		r.Route("/locations/{locationID}", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, staffRoles...))
			r.Use(middleware.LocationAccess(deps.StaffingService, logg))

			r.Get("/orders", controllers.OrdersList(deps.OrdersService, logg))
			r.Get("/dashboard", controllers.OrdersDashboard(deps.OrdersService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, managerRoles...))
				r.Post("/menu/categories", controllers.MenuCreateCategory(deps.MenuService, logg))
				r.Patch("/menu/categories/{categoryID}", controllers.MenuUpdateCategory(deps.MenuService, logg))
				r.Post("/menu/items", controllers.MenuCreateItem(deps.MenuService, logg))
				r.Patch("/menu/items/{itemID}", controllers.MenuUpdateItem(deps.MenuService, logg))
				r.Put("/menu/items/{itemID}/availability", controllers.MenuSetAvailability(deps.MenuService, logg))
				r.Post("/menu/items/{itemID}/option-groups", controllers.MenuAddOptionGroup(deps.MenuService, logg))
				r.Put("/menu/items/{itemID}/option-groups/{groupID}/default-option", controllers.MenuSetDefaultOption(deps.MenuService, logg))
				r.Get("/staff", controllers.StaffingList(deps.StaffingService, logg))
				r.Post("/staff", controllers.StaffingAssign(deps.StaffingService, logg))
				r.Delete("/staff/{userID}", controllers.StaffingRemove(deps.StaffingService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, ownerRole...))
			r.Post("/locations", controllers.LocationsCreate(deps.LocationsService, logg))
			r.Patch("/locations/{locationID}", controllers.LocationsUpdate(deps.LocationsService, logg))
			r.Delete("/locations/{locationID}", controllers.LocationsDeactivate(deps.LocationsService, logg))
		})
	})

	return r
}
