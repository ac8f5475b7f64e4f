package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mosburritos/backend/api/middleware"
	"github.com/mosburritos/backend/api/responses"
	"github.com/mosburritos/backend/api/validators"
	"github.com/mosburritos/backend/internal/menu"
	"github.com/mosburritos/backend/internal/orders"
	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
	"github.com/mosburritos/backend/pkg/logger"
	"github.com/mosburritos/backend/pkg/pagination"
	"github.com/mosburritos/backend/pkg/types"
)

type selectedOptionRequest struct {
	GroupName  string `json:"group_name" validate:"required"`
	OptionName string `json:"option_name" validate:"required"`
}

type orderItemRequest struct {
	ItemID   string                  `json:"item_id" validate:"required,uuid"`
	Quantity int                     `json:"quantity" validate:"required,min=1"`
	Options  []selectedOptionRequest `json:"options,omitempty" validate:"omitempty,dive"`
}

type createOrderRequest struct {
	LocationID    *string            `json:"location_id,omitempty" validate:"omitempty,uuid"`
	CustomerName  string             `json:"customer_name" validate:"required"`
	CustomerPhone *string            `json:"customer_phone,omitempty"`
	CustomerEmail *string            `json:"customer_email,omitempty" validate:"omitempty,email"`
	PaymentMethod string             `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card online"`
	Notes         *string            `json:"notes,omitempty"`
	Items         []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type setStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending confirmed preparing ready completed cancelled"`
	Note   *string `json:"note,omitempty"`
}

type cancelOrderRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type recordPaymentRequest struct {
	Status          string  `json:"status" validate:"required,oneof=pending paid failed refunded"`
	PaymentIntentID *string `json:"payment_intent_id,omitempty"`
}

// actorFromContext builds the mutation actor from the authenticated claims,
// or nil for unauthenticated callers.
func actorFromContext(r *http.Request) *orders.Actor {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return nil
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return nil
	}
	return &orders.Actor{UserID: userID, Role: role}
}

// OrdersCreate places an order. Unit prices are resolved from the live menu,
// never trusted from the client.
func OrdersCreate(svc orders.Service, menuSvc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || menuSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var locationID *uuid.UUID
		if body.LocationID != nil {
			parsed, err := validators.ParsePathUUID(*body.LocationID, "location_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			locationID = &parsed
		}

		items, err := buildOrderItems(r, menuSvc, body.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CreateOrderInput{
			LocationID:    locationID,
			CustomerName:  body.CustomerName,
			CustomerPhone: body.CustomerPhone,
			CustomerEmail: body.CustomerEmail,
			PaymentMethod: enums.PaymentMethod(body.PaymentMethod),
			Notes:         body.Notes,
			Items:         items,
		}
		if actor := actorFromContext(r); actor != nil {
			input.UserID = &actor.UserID
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// buildOrderItems hydrates the requested items from the menu: names, unit
// prices and option modifiers all come from stored data.
func buildOrderItems(r *http.Request, menuSvc menu.Service, reqItems []orderItemRequest) ([]types.OrderItem, error) {
	items := make([]types.OrderItem, 0, len(reqItems))
	for _, reqItem := range reqItems {
		itemID, err := validators.ParsePathUUID(reqItem.ItemID, "item_id")
		if err != nil {
			return nil, err
		}

		menuItem, err := menuSvc.GetItem(r.Context(), itemID)
		if err != nil {
			return nil, err
		}
		if !menuItem.IsAvailable {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("%q is currently unavailable", menuItem.Name))
		}

		unitPrice := menuItem.Price
		options := make([]types.SelectedOption, 0, len(reqItem.Options))
		for _, sel := range reqItem.Options {
			modifier, err := resolveOption(menuItem, sel)
			if err != nil {
				return nil, err
			}
			unitPrice = unitPrice.Add(modifier.PriceModifier)
			options = append(options, modifier)
		}

		items = append(items, types.OrderItem{
			ItemID:   menuItem.ID.String(),
			Name:     menuItem.Name,
			Price:    unitPrice,
			Quantity: reqItem.Quantity,
			Options:  options,
		})
	}
	return items, nil
}

func resolveOption(menuItem *models.MenuItem, sel selectedOptionRequest) (types.SelectedOption, error) {
	for _, group := range menuItem.OptionGroups {
		if group.Name != sel.GroupName {
			continue
		}
		for _, option := range group.Options {
			if option.Name == sel.OptionName {
				return types.SelectedOption{
					GroupName:     group.Name,
					OptionName:    option.Name,
					PriceModifier: option.PriceModifier,
				}, nil
			}
		}
	}
	return types.SelectedOption{}, pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("option %q/%q not found for item %q", sel.GroupName, sel.OptionName, menuItem.Name))
}

// OrdersGet returns one order. Customers can only read their own.
func OrdersGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if actor := actorFromContext(r); actor != nil && actor.Role == enums.UserRoleCustomer {
			if order.UserID == nil || *order.UserID != actor.UserID {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
				return
			}
		}

		responses.WriteSuccess(w, order)
	}
}

// OrdersHistory returns the append-only status trail for one order.
func OrdersHistory(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.GetHistory(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"history": history})
	}
}

// OrdersList returns the location's orders, newest first, cursor paginated.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := orders.ListFilters{LocationID: &locationID}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			filters.Status = &status
		}
		userID, err := validators.ParseQueryUUID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.UserID = userID

		list, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// OrdersMine lists the authenticated customer's own orders.
func OrdersMine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		actor := actorFromContext(r)
		if actor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}, orders.ListFilters{UserID: &actor.UserID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// OrdersSetStatus moves an order to the requested status.
func OrdersSetStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetStatus(r.Context(), orders.SetStatusInput{
			OrderID: orderID,
			Status:  enums.OrderStatus(body.Status),
			Note:    body.Note,
			Actor:   actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrdersCancel cancels an order, enforcing the customer early-stage rule.
func OrdersCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cancelOrderRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		order, err := svc.Cancel(r.Context(), orders.CancelInput{
			OrderID: orderID,
			Reason:  body.Reason,
			Actor:   actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrdersRecordPayment applies a payment outcome directly, e.g. marking a
// cash order as paid at the counter.
func OrdersRecordPayment(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body recordPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.RecordPayment(r.Context(), orders.RecordPaymentInput{
			OrderID:         orderID,
			PaymentIntentID: body.PaymentIntentID,
			Status:          enums.PaymentStatus(body.Status),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrdersResetToCooking sends an order back to the kitchen with a fresh
// completion estimate.
func OrdersResetToCooking(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ResetToCooking(r.Context(), orderID, actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrdersDashboard aggregates today's activity for one location.
func OrdersDashboard(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.DashboardStats(r.Context(), locationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
