package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/mosburritos/backend/internal/orders"
	"github.com/mosburritos/backend/pkg/config"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
)

// Service bridges orders to the card processor.
type Service interface {
	CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentResult, error)
	VerifyPayment(ctx context.Context, input VerifyInput) (*VerifyResult, error)
}

type service struct {
	orders    orderRecorder
	processor Processor
	cfg       config.StripeConfig
}

// NewService builds the payment service.
func NewService(orderSvc orderRecorder, processor Processor, cfg config.StripeConfig) (Service, error) {
	if orderSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if processor == nil {
		return nil, fmt.Errorf("payment processor required")
	}
	return &service{orders: orderSvc, processor: processor, cfg: cfg}, nil
}

// CreateIntent starts a card payment for the order's current total. The
// amount is taken from the stored order, never from the client.
func (s *service) CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentResult, error) {
	order, err := s.orders.Get(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}

	currency := strings.ToLower(strings.TrimSpace(s.cfg.Currency))
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(order.Total)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", order.ID.String())
	if input.CustomerEmail != nil && *input.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(*input.CustomerEmail)
	} else if order.CustomerEmail != nil && *order.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(*order.CustomerEmail)
	}

	intent, err := s.processor.CreateIntent(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}

	if _, err := s.orders.RecordPayment(ctx, orders.RecordPaymentInput{
		OrderID:         order.ID,
		PaymentIntentID: &intent.ID,
		Status:          enums.PaymentStatusPending,
	}); err != nil {
		return nil, err
	}

	return &IntentResult{IntentID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// VerifyPayment resolves a payment intent or checkout session id against the
// processor and applies the outcome to the order. A succeeded intent marks
// the order paid; anything else reports the processor status without
// mutating the order.
func (s *service) VerifyPayment(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}

	intentID := reference
	if !strings.HasPrefix(reference, "pi_") {
		sess, err := s.processor.GetCheckoutSession(ctx, reference)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve checkout session")
		}
		if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout session has no payment intent")
		}
		intentID = sess.PaymentIntent.ID
	}

	intent, err := s.processor.GetIntent(ctx, intentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retrieve payment intent")
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return &VerifyResult{
			Success: false,
			Status:  string(intent.Status),
			OrderID: input.OrderID.String(),
		}, nil
	}

	order, err := s.orders.RecordPayment(ctx, orders.RecordPaymentInput{
		OrderID:         input.OrderID,
		PaymentIntentID: &intent.ID,
		Status:          enums.PaymentStatusPaid,
	})
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		Success: true,
		Status:  string(intent.Status),
		OrderID: order.ID.String(),
	}, nil
}

// toMinorUnits converts a decimal amount to the processor's integer cents.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
