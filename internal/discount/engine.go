package discount

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/commerce-pricing/internal/catalog"
	"github.com/noah-isme/commerce-pricing/internal/common"
	"github.com/noah-isme/commerce-pricing/internal/money"
	"github.com/noah-isme/commerce-pricing/internal/order"
)

// ErrPositiveAmount is returned in strict-sign mode when a discount resolves to a
// positive amount, which would act as a surcharge.
var ErrPositiveAmount = errors.New("discount resolves to a positive amount")

// Matcher decides whether a discount applies to a line item. Eligibility rules such
// as product, product-type or customer-group membership live outside the pricing
// core; the adjuster only consumes the verdict.
type Matcher func(d catalog.Discount, li *order.LineItem) bool

// MatchAll accepts every line item.
func MatchAll(catalog.Discount, *order.LineItem) bool { return true }

// Adjuster applies the coupon-resolved discount to an order. It runs before the
// shipping and tax adjusters so free-shipping effects are recorded on the order and
// its line items before shipping is priced.
type Adjuster struct {
	Discounts catalog.DiscountSource
	Match     Matcher

	// StrictSign makes a positive computed amount a data error instead of passing it
	// through as a surcharge.
	StrictSign bool
}

// Adjust resolves the order's coupon code and emits at most one order-level
// discount adjustment. Unknown or ineligible codes yield an empty set.
func (a *Adjuster) Adjust(ctx context.Context, o *order.Order) ([]order.Adjustment, error) {
	if a == nil || a.Discounts == nil || len(o.LineItems) == 0 {
		return nil, nil
	}
	code := strings.TrimSpace(o.CouponCode)
	if code == "" {
		return nil, nil
	}
	d, err := a.Discounts.DiscountByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d == nil || !d.Enabled {
		return nil, nil
	}
	if err := catalog.ValidateDiscount(*d); err != nil {
		return nil, err
	}

	match := a.Match
	if match == nil {
		match = MatchAll
	}

	var matching []*order.LineItem
	matchingQty := 0
	matchingTotal := money.Zero()
	for _, li := range o.LineItems {
		if !li.Promotable || !match(*d, li) {
			continue
		}
		matching = append(matching, li)
		matchingQty += li.Qty
		matchingTotal = matchingTotal.Add(li.Subtotal())
	}
	if matchingQty == 0 {
		return nil, nil
	}
	if d.PurchaseQty > 0 && matchingQty < d.PurchaseQty {
		return nil, nil
	}
	if d.PurchaseTotal.IsPositive() && matchingTotal.LessThan(d.PurchaseTotal) {
		return nil, nil
	}

	amount := money.Round(d.BaseDiscount.
		Add(d.PerItemDiscount.Mul(decimal.NewFromInt(int64(matchingQty)))).
		Add(d.PercentDiscount.Mul(matchingTotal)))
	if a.StrictSign && amount.IsPositive() {
		return nil, common.NewDataError(fmt.Sprintf("discount %q", d.Code), ErrPositiveAmount)
	}

	for _, li := range matching {
		// Informational per-item breakdown; the order-level amount stays authoritative.
		share := money.Round(d.PerItemDiscount.Mul(decimal.NewFromInt(int64(li.Qty))).
			Add(d.PercentDiscount.Mul(li.Subtotal())))
		li.DiscountAmount = li.DiscountAmount.Add(share)
		if d.FreeShipping {
			li.ShippingWaived = true
		}
	}
	if d.FreeShipping {
		o.ShippingRateWaived = true
	}
	o.BaseDiscount = o.BaseDiscount.Add(money.Round(d.BaseDiscount))

	if amount.IsZero() {
		return nil, nil
	}
	adj := order.Adjustment{
		Type:           order.AdjustmentDiscount,
		Name:           d.Name,
		Description:    "coupon " + d.Code,
		Amount:         amount,
		SourceSnapshot: snapshot(d),
	}
	return []order.Adjustment{adj}, nil
}

func snapshot(d *catalog.Discount) map[string]any {
	return map[string]any{
		"id":              d.ID.String(),
		"code":            d.Code,
		"baseDiscount":    d.BaseDiscount.String(),
		"perItemDiscount": d.PerItemDiscount.String(),
		"percentDiscount": d.PercentDiscount.String(),
		"purchaseQty":     d.PurchaseQty,
		"purchaseTotal":   d.PurchaseTotal.String(),
		"freeShipping":    d.FreeShipping,
	}
}
