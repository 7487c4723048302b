package order

import (
	"github.com/google/uuid"

	"github.com/noah-isme/commerce-pricing/internal/money"
)

// AdjustmentType discriminates adjustment records.
type AdjustmentType string

// Adjustment types produced by the pipeline.
const (
	AdjustmentTax      AdjustmentType = "tax"
	AdjustmentShipping AdjustmentType = "shipping"
	AdjustmentDiscount AdjustmentType = "discount"
)

// Adjustment is one monetary correction applied to an order by an adjuster.
// Discounts carry negative amounts. Included is true only for tax that is already
// inside the displayed unit price; such amounts are informational and never enter
// TotalPrice. SourceSnapshot preserves the producing rule for audit and display.
type Adjustment struct {
	Type           AdjustmentType
	Name           string
	Description    string
	Amount         money.Amount
	Included       bool
	LineItemID     *uuid.UUID // nil for order-level adjustments
	SourceSnapshot map[string]any
}
