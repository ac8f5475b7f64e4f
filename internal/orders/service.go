package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mosburritos/backend/internal/realtime"
	"github.com/mosburritos/backend/pkg/config"
	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
	"github.com/mosburritos/backend/pkg/pagination"
	"github.com/mosburritos/backend/pkg/types"
)

const taxRateDivisor = 10000

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
	ResetToCooking(ctx context.Context, orderID uuid.UUID, actor *Actor) (*models.Order, error)
	RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Order, error)
	FindByPaymentIntent(ctx context.Context, intentID string) (*models.Order, error)
	DashboardStats(ctx context.Context, locationID uuid.UUID) (*DashboardStats, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	locations LocationResolver
	notifier  Notifier
	cfg       config.OrdersConfig
	now       func() time.Time
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, locations LocationResolver, notifier Notifier, cfg config.OrdersConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if locations == nil {
		return nil, fmt.Errorf("location resolver required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("realtime notifier required")
	}
	if cfg.TaxRateBP < 0 {
		return nil, fmt.Errorf("tax rate cannot be negative")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		locations: locations,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid quantity for item %q", item.Name))
		}
		if item.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid price for item %q", item.Name))
		}
	}

	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", method))
	}

	locationID, err := s.resolveLocation(ctx, input.LocationID)
	if err != nil {
		return nil, err
	}

	subtotal, tax, total := s.computeTotals(input.Items)

	order := &models.Order{
		LocationID:    locationID,
		UserID:        input.UserID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		CustomerEmail: input.CustomerEmail,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		PaymentMethod: method,
		Items:         input.Items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Notes:         input.Notes,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return repo.AppendHistory(ctx, &models.OrderStatusHistory{
			OrderID:         order.ID,
			Status:          enums.OrderStatusPending,
			Note:            ptr("Order created"),
			ChangedByUserID: input.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order, realtime.EventOrderCreated)
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) GetHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error) {
	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListHistory(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order history")
	}
	return entries, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// SetStatus applies the requested status without transition validation. The
// kitchen frontend drives arbitrary corrections, so any status is accepted;
// each call appends exactly one history row.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	note := fmt.Sprintf("Status changed to %s", input.Status)
	if input.Note != nil && *input.Note != "" {
		note = *input.Note
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := findForUpdate(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}

		updates := map[string]any{"status": input.Status}
		if input.Status.IsTerminal() {
			updates["completed_at"] = s.now().UTC()
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if err := s.appendTransition(ctx, repo, order.ID, input.Status, note, input.Actor); err != nil {
			return err
		}

		order.Status = input.Status
		if input.Status.IsTerminal() {
			completedAt := s.now().UTC()
			order.CompletedAt = &completedAt
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated, realtime.EventOrderUpdated)
	return updated, nil
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := findForUpdate(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}

		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already cancelled")
		}
		if order.Status == enums.OrderStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot cancel a completed order")
		}

		if input.Actor != nil && input.Actor.Role == enums.UserRoleCustomer {
			if order.UserID != nil && *order.UserID != input.Actor.UserID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
			}
			if order.Status != enums.OrderStatusPending && order.Status != enums.OrderStatusConfirmed {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					"order is already being prepared, please contact the restaurant")
			}
		}

		note := cancelNote(input)
		now := s.now().UTC()
		updates := map[string]any{
			"status":       enums.OrderStatusCancelled,
			"completed_at": now,
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if err := s.appendTransition(ctx, repo, order.ID, enums.OrderStatusCancelled, note, input.Actor); err != nil {
			return err
		}

		order.Status = enums.OrderStatusCancelled
		order.CompletedAt = &now
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated, realtime.EventOrderCanceled)
	return updated, nil
}

// ResetToCooking forces an order back to preparing regardless of its current
// state, re-seeding the kitchen estimate. Used when the kitchen restarts a
// ticket.
func (s *service) ResetToCooking(ctx context.Context, orderID uuid.UUID, actor *Actor) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	minutes := s.cfg.DefaultEstimatedMinutes
	if minutes <= 0 {
		minutes = 15
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := findForUpdate(ctx, repo, orderID)
		if err != nil {
			return err
		}

		estimate := s.now().UTC().Add(time.Duration(minutes) * time.Minute)
		updates := map[string]any{
			"status":               enums.OrderStatusPreparing,
			"estimated_completion": estimate,
			"completed_at":         nil,
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset order to cooking")
		}
		if err := s.appendTransition(ctx, repo, order.ID, enums.OrderStatusPreparing, "Order reset to cooking", actor); err != nil {
			return err
		}

		order.Status = enums.OrderStatusPreparing
		order.EstimatedCompletion = &estimate
		order.CompletedAt = nil
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated, realtime.EventOrderUpdated)
	return updated, nil
}

// RecordPayment applies the processor outcome. A successful payment confirms
// a pending order; a failure only marks the payment status. Re-applying a
// success to an already-paid order is a no-op.
func (s *service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", input.Status))
	}

	var updated *models.Order
	confirmed := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := findForUpdate(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}

		if order.PaymentStatus == enums.PaymentStatusPaid && input.Status == enums.PaymentStatusPaid {
			updated = order
			return nil
		}

		updates := map[string]any{"payment_status": input.Status}
		if input.PaymentIntentID != nil && *input.PaymentIntentID != "" {
			updates["payment_intent_id"] = *input.PaymentIntentID
			order.PaymentIntentID = input.PaymentIntentID
		}
		if input.Status == enums.PaymentStatusPaid && order.Status == enums.OrderStatusPending {
			updates["status"] = enums.OrderStatusConfirmed
			confirmed = true
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}
		if confirmed {
			if err := s.appendTransition(ctx, repo, order.ID, enums.OrderStatusConfirmed, "Payment received", nil); err != nil {
				return err
			}
			order.Status = enums.OrderStatusConfirmed
		}

		order.PaymentStatus = input.Status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if confirmed {
		s.publish(ctx, updated, realtime.EventOrderUpdated)
	}
	return updated, nil
}

func (s *service) FindByPaymentIntent(ctx context.Context, intentID string) (*models.Order, error) {
	if intentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required")
	}
	order, err := s.repo.FindByPaymentIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order by payment intent")
	}
	return order, nil
}

// DashboardStats aggregates today's orders for a location, where "today"
// starts at UTC midnight.
func (s *service) DashboardStats(ctx context.Context, locationID uuid.UUID) (*DashboardStats, error) {
	if locationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}

	since := utcMidnight(s.now())
	counts, err := s.repo.CountByStatus(ctx, locationID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}

	completedCount, revenue, err := s.repo.CompletedTotals(ctx, locationID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum completed orders")
	}

	stats := &DashboardStats{
		PendingCount:   counts[enums.OrderStatusPending],
		PreparingCount: counts[enums.OrderStatusPreparing],
		ReadyCount:     counts[enums.OrderStatusReady],
		CompletedCount: completedCount,
		Revenue:        revenue.Round(2),
	}
	for _, count := range counts {
		stats.TotalOrders += count
	}
	if completedCount > 0 {
		stats.AverageOrderValue = revenue.Div(decimal.NewFromInt(completedCount)).Round(2)
	} else {
		stats.AverageOrderValue = decimal.Zero
	}
	return stats, nil
}

func (s *service) resolveLocation(ctx context.Context, explicit *uuid.UUID) (uuid.UUID, error) {
	if explicit != nil && *explicit != uuid.Nil {
		location, err := s.locations.Get(ctx, *explicit)
		if err != nil {
			return uuid.Nil, err
		}
		if !location.IsActive {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return location.ID, nil
	}
	locationID, err := s.locations.ResolveDefault(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if locationID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active location available")
	}
	return locationID, nil
}

func (s *service) computeTotals(items []types.OrderItem) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.
		Mul(decimal.NewFromInt(int64(s.cfg.TaxRateBP))).
		Div(decimal.NewFromInt(taxRateDivisor)).
		Round(2)
	total := subtotal.Add(tax).Round(2)
	return subtotal, tax, total
}

func (s *service) appendTransition(ctx context.Context, repo Repository, orderID uuid.UUID, status enums.OrderStatus, note string, actor *Actor) error {
	entry := &models.OrderStatusHistory{
		OrderID: orderID,
		Status:  status,
		Note:    ptr(note),
	}
	if actor != nil {
		actorID := actor.UserID
		entry.ChangedByUserID = &actorID
	}
	if err := repo.AppendHistory(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
	}
	return nil
}

func (s *service) publish(ctx context.Context, order *models.Order, event string) {
	if order == nil {
		return
	}
	_ = s.notifier.OrderChanged(ctx, realtime.Message{
		Event:      event,
		OrderID:    order.ID,
		LocationID: order.LocationID,
		Status:     order.Status.String(),
		At:         s.now().UTC(),
	})
}

func findForUpdate(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func cancelNote(input CancelInput) string {
	if input.Reason != nil && *input.Reason != "" {
		return *input.Reason
	}
	if input.Actor != nil && input.Actor.Email != "" {
		return fmt.Sprintf("Order cancelled by user (%s)", input.Actor.Email)
	}
	return "Order cancelled"
}

func utcMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ptr(s string) *string {
	return &s
}
