package payments

import "github.com/google/uuid"

// CreateIntentInput describes a card payment to start for an existing order.
type CreateIntentInput struct {
	OrderID       uuid.UUID
	CustomerEmail *string
}

// IntentResult carries what the client needs to complete the payment.
type IntentResult struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
}

// VerifyInput resolves a processor reference against an order.
type VerifyInput struct {
	OrderID   uuid.UUID
	Reference string
}

// VerifyResult reports the processor outcome for a verification request.
type VerifyResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}
