package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/commerce-pricing/internal/money"
)

// LineItem is one purchasable-and-quantity entry within an order.
//
// The four amount fields are additive accumulators with a single writer each:
// discount writes DiscountAmount, shipping writes ShippingAmount, tax writes
// TaxAmount and TaxIncludedAmount. They are zeroed at the start of every
// recalculation pass and no adjuster overwrites another's contribution.
type LineItem struct {
	ID            uuid.UUID
	PurchasableID uuid.UUID
	Qty           int
	SalePrice     money.Amount // unit price
	Weight        money.Amount // unit weight
	Length        money.Amount
	Width         money.Amount
	Height        money.Amount

	TaxCategoryID      uuid.UUID
	ShippingCategoryID uuid.UUID
	FreeShipping       bool // inherited from the purchasable
	Promotable         bool
	Note               string

	TaxAmount         money.Amount
	TaxIncludedAmount money.Amount
	ShippingAmount    money.Amount
	DiscountAmount    money.Amount

	// ShippingWaived is set by a free-shipping discount during the current pass and
	// read by the shipping adjuster. It is cleared on reset like the accumulators.
	ShippingWaived bool
}

// Subtotal is unit price times quantity, before any adjustment.
func (li *LineItem) Subtotal() money.Amount {
	return li.SalePrice.Mul(decimal.NewFromInt(int64(li.Qty)))
}

// TotalWeight is unit weight times quantity.
func (li *LineItem) TotalWeight() money.Amount {
	return li.Weight.Mul(decimal.NewFromInt(int64(li.Qty)))
}

func (li *LineItem) resetAdjustments() {
	li.TaxAmount = money.Zero()
	li.TaxIncludedAmount = money.Zero()
	li.ShippingAmount = money.Zero()
	li.DiscountAmount = money.Zero()
	li.ShippingWaived = false
}
