package order

import (
	"github.com/google/uuid"

	"github.com/noah-isme/commerce-pricing/internal/money"
)

// Order is the aggregate root of a pricing pass: the line items it exclusively owns
// for the duration of the pass, weak references to addresses held by an external
// address book, the applied coupon and shipping method, the adjustments of the last
// pass, and totals derived from line items plus adjustments.
//
// Totals are never authoritative state. A recalculation rebuilds every one of them
// from scratch, so the pipeline can be re-run at any time.
type Order struct {
	ID uuid.UUID

	LineItems            []*LineItem
	ShippingAddressID    *uuid.UUID
	BillingAddressID     *uuid.UUID
	CouponCode           string
	ShippingMethodHandle string

	Adjustments []Adjustment

	ItemTotal         money.Amount
	BaseShippingCost  money.Amount
	BaseDiscount      money.Amount
	TotalTax          money.Amount
	TotalTaxIncluded  money.Amount
	TotalShippingCost money.Amount
	TotalDiscount     money.Amount
	TotalPrice        money.Amount
	TotalPaid         money.Amount

	// ShippingRateWaived is set by a free-shipping discount during the current pass;
	// the shipping adjuster then prices the matched rule's base rate at zero. Cleared
	// on reset.
	ShippingRateWaived bool

	dirty bool
}

// New constructs an empty order that requires a first recalculation.
func New(id uuid.UUID) *Order {
	return &Order{ID: id, dirty: true}
}

// AddLineItem appends the item and marks the order dirty.
func (o *Order) AddLineItem(li *LineItem) {
	o.LineItems = append(o.LineItems, li)
	o.dirty = true
}

// RemoveLineItem removes the item with the given id and reports whether it was
// present. Removal marks the order dirty.
func (o *Order) RemoveLineItem(id uuid.UUID) bool {
	for i, li := range o.LineItems {
		if li.ID == id {
			o.LineItems = append(o.LineItems[:i], o.LineItems[i+1:]...)
			o.dirty = true
			return true
		}
	}
	return false
}

// SetShippingAddress updates the shipping address reference and marks the order dirty.
func (o *Order) SetShippingAddress(id *uuid.UUID) {
	o.ShippingAddressID = id
	o.dirty = true
}

// SetCouponCode updates the coupon code and marks the order dirty.
func (o *Order) SetCouponCode(code string) {
	o.CouponCode = code
	o.dirty = true
}

// SetShippingMethod updates the selected shipping method handle and marks the order
// dirty.
func (o *Order) SetShippingMethod(handle string) {
	o.ShippingMethodHandle = handle
	o.dirty = true
}

// Dirty reports whether order contents changed since the last recalculation.
func (o *Order) Dirty() bool {
	return o.dirty
}

// MarkDirty flags the order for recalculation.
func (o *Order) MarkDirty() {
	o.dirty = true
}

// MarkClean records that adjustments and totals reflect the current contents.
// Called by the pricing engine after a successful pass.
func (o *Order) MarkClean() {
	o.dirty = false
}

// ItemSubtotal sums line item subtotals before adjustments.
func (o *Order) ItemSubtotal() money.Amount {
	total := money.Zero()
	for _, li := range o.LineItems {
		total = total.Add(li.Subtotal())
	}
	return total
}

// TotalQty sums line item quantities.
func (o *Order) TotalQty() int {
	qty := 0
	for _, li := range o.LineItems {
		qty += li.Qty
	}
	return qty
}

// TotalWeight sums line item weights.
func (o *Order) TotalWeight() money.Amount {
	total := money.Zero()
	for _, li := range o.LineItems {
		total = total.Add(li.TotalWeight())
	}
	return total
}

// ResetAdjustments clears adjustment records, per-line accumulators, per-pass flags
// and derived totals ahead of a recalculation pass.
func (o *Order) ResetAdjustments() {
	o.Adjustments = nil
	for _, li := range o.LineItems {
		li.resetAdjustments()
	}
	o.ShippingRateWaived = false
	o.ItemTotal = money.Zero()
	o.BaseShippingCost = money.Zero()
	o.BaseDiscount = money.Zero()
	o.TotalTax = money.Zero()
	o.TotalTaxIncluded = money.Zero()
	o.TotalShippingCost = money.Zero()
	o.TotalDiscount = money.Zero()
	o.TotalPrice = money.Zero()
}
