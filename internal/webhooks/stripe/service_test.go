package stripewebhook

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/mosburritos/backend/internal/orders"
	"github.com/mosburritos/backend/pkg/db/models"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
)

type stubOrderPayments struct {
	byIntent map[string]*models.Order
	recorded []orders.RecordPaymentInput
}

func (s *stubOrderPayments) FindByPaymentIntent(ctx context.Context, intentID string) (*models.Order, error) {
	if order, ok := s.byIntent[intentID]; ok {
		return order, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderPayments) RecordPayment(ctx context.Context, input orders.RecordPaymentInput) (*models.Order, error) {
	s.recorded = append(s.recorded, input)
	return &models.Order{ID: input.OrderID}, nil
}

func intentEvent(t *testing.T, eventType stripe.EventType, intent stripe.PaymentIntent) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(intent)
	if err != nil {
		t.Fatalf("marshal intent: %v", err)
	}
	return &stripe.Event{
		ID:   "evt_" + uuid.NewString(),
		Type: eventType,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestHandleEventSucceededMarksPaid(t *testing.T) {
	orderID := uuid.New()
	store := &stubOrderPayments{byIntent: map[string]*models.Order{
		"pi_123": {ID: orderID},
	}}
	svc, err := NewService(store, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	event := intentEvent(t, stripe.EventTypePaymentIntentSucceeded, stripe.PaymentIntent{ID: "pi_123"})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.recorded) != 1 {
		t.Fatalf("expected one payment record, got %d", len(store.recorded))
	}
	if store.recorded[0].OrderID != orderID || store.recorded[0].Status != enums.PaymentStatusPaid {
		t.Fatalf("unexpected record %+v", store.recorded[0])
	}
}

func TestHandleEventFailedMarksFailed(t *testing.T) {
	orderID := uuid.New()
	store := &stubOrderPayments{byIntent: map[string]*models.Order{
		"pi_123": {ID: orderID},
	}}
	svc, _ := NewService(store, nil)

	event := intentEvent(t, stripe.EventTypePaymentIntentPaymentFailed, stripe.PaymentIntent{ID: "pi_123"})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.recorded) != 1 || store.recorded[0].Status != enums.PaymentStatusFailed {
		t.Fatalf("expected failed record, got %+v", store.recorded)
	}
}

func TestHandleEventMetadataFallback(t *testing.T) {
	orderID := uuid.New()
	store := &stubOrderPayments{byIntent: map[string]*models.Order{}}
	svc, _ := NewService(store, nil)

	event := intentEvent(t, stripe.EventTypePaymentIntentSucceeded, stripe.PaymentIntent{
		ID:       "pi_unseen",
		Metadata: map[string]string{"order_id": orderID.String()},
	})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.recorded) != 1 || store.recorded[0].OrderID != orderID {
		t.Fatalf("expected metadata order match, got %+v", store.recorded)
	}
}

func TestHandleEventUnknownOrderAcks(t *testing.T) {
	store := &stubOrderPayments{byIntent: map[string]*models.Order{}}
	svc, _ := NewService(store, nil)

	event := intentEvent(t, stripe.EventTypePaymentIntentSucceeded, stripe.PaymentIntent{ID: "pi_orphan"})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown order should be acknowledged, got %v", err)
	}
	if len(store.recorded) != 0 {
		t.Fatalf("no order should be mutated")
	}
}

func TestHandleEventIgnoresOtherTypes(t *testing.T) {
	store := &stubOrderPayments{byIntent: map[string]*models.Order{}}
	svc, _ := NewService(store, nil)

	event := intentEvent(t, stripe.EventTypeChargeRefunded, stripe.PaymentIntent{ID: "pi_123"})
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unrelated events should be acknowledged, got %v", err)
	}
	if len(store.recorded) != 0 {
		t.Fatalf("no order should be mutated")
	}
}

type memoryIdempotencyStore struct {
	keys map[string]string
}

func (m *memoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if m.keys == nil {
		m.keys = make(map[string]string)
	}
	if _, exists := m.keys[key]; exists {
		return false, nil
	}
	m.keys[key] = "1"
	return true, nil
}

func (m *memoryIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.keys, key)
	}
	return nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "mosb:idempotency:" + scope + ":" + id
}

func TestIdempotencyGuard(t *testing.T) {
	guard, err := NewIdempotencyGuard(&memoryIdempotencyStore{}, time.Minute, "stripe-webhook")
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	ctx := context.Background()

	seen, err := guard.CheckAndMark(ctx, "evt_1")
	if err != nil || seen {
		t.Fatalf("first delivery should not be seen, got seen=%v err=%v", seen, err)
	}
	seen, err = guard.CheckAndMark(ctx, "evt_1")
	if err != nil || !seen {
		t.Fatalf("second delivery should be seen, got seen=%v err=%v", seen, err)
	}

	if err := guard.Delete(ctx, "evt_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	seen, err = guard.CheckAndMark(ctx, "evt_1")
	if err != nil || seen {
		t.Fatalf("deleted marker should allow reprocessing, got seen=%v err=%v", seen, err)
	}
}
