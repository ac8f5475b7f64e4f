package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/mosburritos/backend/internal/orders"
	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
	"github.com/mosburritos/backend/pkg/logger"
)

// orderPayments is the slice of the orders service payment events touch.
type orderPayments interface {
	FindByPaymentIntent(ctx context.Context, intentID string) (*models.Order, error)
	RecordPayment(ctx context.Context, input orders.RecordPaymentInput) (*models.Order, error)
}

// Service applies Stripe payment events to orders.
type Service struct {
	orders orderPayments
	logg   *logger.Logger
}

// NewService builds the Stripe webhook service.
func NewService(orderSvc orderPayments, logg *logger.Logger) (*Service, error) {
	if orderSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	return &Service{orders: orderSvc, logg: logg}, nil
}

// HandleEvent routes a verified Stripe event. Events that do not map to a
// known order are acknowledged without mutation so Stripe stops retrying.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		return s.applyIntentOutcome(ctx, event, enums.PaymentStatusPaid)
	case stripe.EventTypePaymentIntentPaymentFailed:
		return s.applyIntentOutcome(ctx, event, enums.PaymentStatusFailed)
	default:
		return nil
	}
}

func (s *Service) applyIntentOutcome(ctx context.Context, event *stripe.Event, status enums.PaymentStatus) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
	}
	if intent.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent id missing")
	}

	orderID, err := s.resolveOrderID(ctx, &intent)
	if err != nil {
		return err
	}
	if orderID == uuid.Nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "stripe event for unknown order, acknowledging")
		}
		return nil
	}

	_, err = s.orders.RecordPayment(ctx, orders.RecordPaymentInput{
		OrderID:         orderID,
		PaymentIntentID: &intent.ID,
		Status:          status,
	})
	return err
}

// resolveOrderID looks up the order by stored intent id first, then falls
// back to the order_id metadata stamped at intent creation.
func (s *Service) resolveOrderID(ctx context.Context, intent *stripe.PaymentIntent) (uuid.UUID, error) {
	order, err := s.orders.FindByPaymentIntent(ctx, intent.ID)
	if err == nil {
		return order.ID, nil
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		return uuid.Nil, err
	}

	raw, ok := intent.Metadata["order_id"]
	if !ok || raw == "" {
		return uuid.Nil, nil
	}
	orderID, parseErr := uuid.Parse(raw)
	if parseErr != nil {
		return uuid.Nil, nil
	}
	return orderID, nil
}
