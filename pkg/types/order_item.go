package types

import "github.com/shopspring/decimal"

// OrderItem is the immutable line-item snapshot denormalized onto an order at
// checkout. Name and unit price are captured at order time and never
// recomputed from the live menu; the unit price already includes any selected
// option modifiers.
type OrderItem struct {
	ItemID   string           `json:"item_id"`
	Name     string           `json:"name"`
	Price    decimal.Decimal  `json:"price"`
	Quantity int              `json:"quantity"`
	Options  []SelectedOption `json:"options,omitempty"`
}

// SelectedOption records one modifier chosen from an option group, with its
// price delta frozen at order time.
type SelectedOption struct {
	GroupName     string          `json:"group_name"`
	OptionName    string          `json:"option_name"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

// LineTotal returns unit price times quantity for the snapshot line.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
