package payments

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	checkoutsession "github.com/stripe/stripe-go/v84/checkout/session"
	"github.com/stripe/stripe-go/v84/paymentintent"

	pkgstripe "github.com/mosburritos/backend/pkg/stripe"
)

type stripeProcessor struct{}

// NewProcessor wraps the initialized Stripe client behind the Processor
// interface used by the payment service.
func NewProcessor(client *pkgstripe.Client) Processor {
	if client == nil {
		return nil
	}
	return &stripeProcessor{}
}

func (p *stripeProcessor) CreateIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}

func (p *stripeProcessor) GetIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	return paymentintent.Get(intentID, params)
}

func (p *stripeProcessor) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")
	return checkoutsession.Get(sessionID, params)
}
