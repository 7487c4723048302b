package pricing

import (
	"context"

	"github.com/noah-isme/commerce-pricing/internal/common"
	"github.com/noah-isme/commerce-pricing/internal/money"
	"github.com/noah-isme/commerce-pricing/internal/order"
)

// Adjuster is one stage of a recalculation pass: a pure computation from the order
// and an external catalog to zero or more adjustments, plus writes to the stage's
// own line-item accumulator fields.
type Adjuster interface {
	Adjust(ctx context.Context, o *order.Order) ([]order.Adjustment, error)
}

// Engine runs the adjuster chain over an order and rolls the resulting adjustments
// into totals. The chain order is fixed at construction: discount, then shipping,
// then tax. The discount stage records free-shipping effects the shipping stage must
// see, so the ordering is a contract, not a call-site accident.
type Engine struct {
	adjusters []Adjuster
}

// NewEngine fixes the adjuster chain. Nil stages are skipped, which lets callers
// run a partial pipeline in tests.
func NewEngine(discount, shipping, tax Adjuster) *Engine {
	chain := make([]Adjuster, 0, 3)
	for _, a := range []Adjuster{discount, shipping, tax} {
		if a != nil {
			chain = append(chain, a)
		}
	}
	return &Engine{adjusters: chain}
}

// Recalculate clears previous adjustments and accumulators, runs every stage in
// order, derives totals and verifies that they reconcile. The pass is idempotent:
// recalculating an unchanged order reproduces identical adjustments and totals. On
// success the order is marked clean.
func (e *Engine) Recalculate(ctx context.Context, o *order.Order) error {
	if o == nil {
		return common.NewDataError("nil order", nil)
	}
	o.ResetAdjustments()
	for _, a := range e.adjusters {
		adjustments, err := a.Adjust(ctx, o)
		if err != nil {
			return err
		}
		o.Adjustments = append(o.Adjustments, adjustments...)
	}
	rollUp(o)
	if err := reconcile(o); err != nil {
		return err
	}
	o.MarkClean()
	return nil
}

// rollUp derives order totals from line items and collected adjustments.
// TotalDiscount is the magnitude of the (negative) discount adjustments, so the
// totals identity reads itemTotal + shipping + tax - discount. Included tax never
// enters TotalPrice; it already sits inside the unit prices.
func rollUp(o *order.Order) {
	o.ItemTotal = money.Round(o.ItemSubtotal())

	totalTax := money.Zero()
	totalTaxIncluded := money.Zero()
	totalShipping := money.Zero()
	discountSum := money.Zero()
	for _, adj := range o.Adjustments {
		switch adj.Type {
		case order.AdjustmentTax:
			if adj.Included {
				totalTaxIncluded = totalTaxIncluded.Add(adj.Amount)
			} else {
				totalTax = totalTax.Add(adj.Amount)
			}
		case order.AdjustmentShipping:
			totalShipping = totalShipping.Add(adj.Amount)
		case order.AdjustmentDiscount:
			discountSum = discountSum.Add(adj.Amount)
		}
	}
	o.TotalTax = totalTax
	o.TotalTaxIncluded = totalTaxIncluded
	o.TotalShippingCost = totalShipping
	o.TotalDiscount = discountSum.Neg()
	o.TotalPrice = o.ItemTotal.Add(o.TotalShippingCost).Add(o.TotalTax).Sub(o.TotalDiscount)
}

// reconcile cross-checks adjustment sums against the derived totals. A mismatch is
// a programming defect in an adjuster rather than a recoverable condition.
func reconcile(o *order.Order) error {
	tax := money.Zero()
	taxIncluded := money.Zero()
	shipping := money.Zero()
	discount := money.Zero()
	for _, adj := range o.Adjustments {
		switch adj.Type {
		case order.AdjustmentTax:
			if adj.Included {
				taxIncluded = taxIncluded.Add(adj.Amount)
			} else {
				tax = tax.Add(adj.Amount)
			}
		case order.AdjustmentShipping:
			shipping = shipping.Add(adj.Amount)
		case order.AdjustmentDiscount:
			discount = discount.Add(adj.Amount)
		}
	}
	if !money.Equal(tax, o.TotalTax) {
		return common.NewInvariantError("tax adjustments do not reconcile with totalTax")
	}
	if !money.Equal(taxIncluded, o.TotalTaxIncluded) {
		return common.NewInvariantError("included tax adjustments do not reconcile with totalTaxIncluded")
	}
	if !money.Equal(shipping, o.TotalShippingCost) {
		return common.NewInvariantError("shipping adjustments do not reconcile with totalShippingCost")
	}
	if !money.Equal(discount.Neg(), o.TotalDiscount) {
		return common.NewInvariantError("discount adjustments do not reconcile with totalDiscount")
	}
	want := o.ItemTotal.Add(o.TotalShippingCost).Add(o.TotalTax).Sub(o.TotalDiscount)
	if !money.Equal(want, o.TotalPrice) {
		return common.NewInvariantError("totalPrice does not satisfy the totals identity")
	}
	return nil
}
