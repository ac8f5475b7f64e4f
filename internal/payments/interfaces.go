package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/mosburritos/backend/internal/orders"
	"github.com/mosburritos/backend/pkg/db/models"
)

// orderRecorder is the slice of the orders service the payment bridge needs.
type orderRecorder interface {
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	RecordPayment(ctx context.Context, input orders.RecordPaymentInput) (*models.Order, error)
}

// Processor exposes the Stripe operations the payment service depends on, so
// tests can substitute a fake.
type Processor interface {
	CreateIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	GetIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}
