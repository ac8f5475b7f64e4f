package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/mosburritos/backend/internal/orders"
	"github.com/mosburritos/backend/pkg/config"
	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
)

type stubOrders struct {
	order    *models.Order
	recorded []orders.RecordPaymentInput
}

func (s *stubOrders) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.order, nil
}

func (s *stubOrders) RecordPayment(ctx context.Context, input orders.RecordPaymentInput) (*models.Order, error) {
	s.recorded = append(s.recorded, input)
	if s.order != nil {
		s.order.PaymentStatus = input.Status
		if input.PaymentIntentID != nil {
			s.order.PaymentIntentID = input.PaymentIntentID
		}
	}
	return s.order, nil
}

type stubProcessor struct {
	intent     *stripe.PaymentIntent
	session    *stripe.CheckoutSession
	intentErr  error
	sessionErr error

	createdParams *stripe.PaymentIntentParams
	gotIntentID   string
	gotSessionID  string
}

func (s *stubProcessor) CreateIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	s.createdParams = params
	return s.intent, s.intentErr
}

func (s *stubProcessor) GetIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	s.gotIntentID = intentID
	return s.intent, s.intentErr
}

func (s *stubProcessor) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	s.gotSessionID = sessionID
	return s.session, s.sessionErr
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		LocationID:    uuid.New(),
		CustomerName:  "Maria Lopez",
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		Total:         decimal.RequireFromString("24.88"),
	}
}

func TestCreateIntentUsesStoredTotal(t *testing.T) {
	order := pendingOrder()
	store := &stubOrders{order: order}
	processor := &stubProcessor{intent: &stripe.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}}
	svc, err := NewService(store, processor, config.StripeConfig{Currency: "usd"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.CreateIntent(context.Background(), CreateIntentInput{OrderID: order.ID})
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if result.IntentID != "pi_123" || result.ClientSecret != "pi_123_secret" {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := *processor.createdParams.Amount; got != 2488 {
		t.Fatalf("expected 2488 cents, got %d", got)
	}
	if got := *processor.createdParams.Currency; got != "usd" {
		t.Fatalf("expected usd, got %s", got)
	}
	if len(store.recorded) != 1 || store.recorded[0].Status != enums.PaymentStatusPending {
		t.Fatalf("expected pending record with intent id, got %+v", store.recorded)
	}
	if store.recorded[0].PaymentIntentID == nil || *store.recorded[0].PaymentIntentID != "pi_123" {
		t.Fatalf("intent id not stored")
	}
}

func TestCreateIntentRejectsPaidOrder(t *testing.T) {
	order := pendingOrder()
	order.PaymentStatus = enums.PaymentStatusPaid
	svc, _ := NewService(&stubOrders{order: order}, &stubProcessor{}, config.StripeConfig{})

	_, err := svc.CreateIntent(context.Background(), CreateIntentInput{OrderID: order.ID})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestVerifyPaymentSucceededMarksPaid(t *testing.T) {
	order := pendingOrder()
	store := &stubOrders{order: order}
	processor := &stubProcessor{intent: &stripe.PaymentIntent{ID: "pi_abc", Status: stripe.PaymentIntentStatusSucceeded}}
	svc, _ := NewService(store, processor, config.StripeConfig{})

	result, err := svc.VerifyPayment(context.Background(), VerifyInput{OrderID: order.ID, Reference: "pi_abc"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.Success || result.Status != "succeeded" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(store.recorded) != 1 || store.recorded[0].Status != enums.PaymentStatusPaid {
		t.Fatalf("expected paid record, got %+v", store.recorded)
	}
}

func TestVerifyPaymentResolvesCheckoutSession(t *testing.T) {
	order := pendingOrder()
	store := &stubOrders{order: order}
	processor := &stubProcessor{
		session: &stripe.CheckoutSession{PaymentIntent: &stripe.PaymentIntent{ID: "pi_from_session"}},
		intent:  &stripe.PaymentIntent{ID: "pi_from_session", Status: stripe.PaymentIntentStatusSucceeded},
	}
	svc, _ := NewService(store, processor, config.StripeConfig{})

	result, err := svc.VerifyPayment(context.Background(), VerifyInput{OrderID: order.ID, Reference: "cs_test_123"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if processor.gotSessionID != "cs_test_123" {
		t.Fatalf("session was not resolved")
	}
	if processor.gotIntentID != "pi_from_session" {
		t.Fatalf("resolved wrong intent %q", processor.gotIntentID)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
}

func TestVerifyPaymentNotSucceededDoesNotMutate(t *testing.T) {
	order := pendingOrder()
	store := &stubOrders{order: order}
	processor := &stubProcessor{intent: &stripe.PaymentIntent{ID: "pi_abc", Status: stripe.PaymentIntentStatusRequiresPaymentMethod}}
	svc, _ := NewService(store, processor, config.StripeConfig{})

	result, err := svc.VerifyPayment(context.Background(), VerifyInput{OrderID: order.ID, Reference: "pi_abc"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Success {
		t.Fatalf("expected failure result")
	}
	if result.Status != string(stripe.PaymentIntentStatusRequiresPaymentMethod) {
		t.Fatalf("expected processor status passthrough, got %q", result.Status)
	}
	if len(store.recorded) != 0 {
		t.Fatalf("order should not be mutated")
	}
}

func TestVerifyPaymentProcessorFailure(t *testing.T) {
	order := pendingOrder()
	processor := &stubProcessor{intentErr: errors.New("stripe down")}
	svc, _ := NewService(&stubOrders{order: order}, processor, config.StripeConfig{})

	_, err := svc.VerifyPayment(context.Background(), VerifyInput{OrderID: order.ID, Reference: "pi_abc"})
	if te := pkgerrors.As(err); te == nil || te.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
