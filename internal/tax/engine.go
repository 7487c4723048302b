package tax

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/commerce-pricing/internal/catalog"
	"github.com/noah-isme/commerce-pricing/internal/money"
	"github.com/noah-isme/commerce-pricing/internal/order"
	"github.com/noah-isme/commerce-pricing/internal/zone"
)

var one = decimal.NewFromInt(1)

// Adjuster applies every configured tax rate to an order. It runs last, after
// discounts and shipping.
type Adjuster struct {
	Rates     catalog.TaxRateSource
	Addresses catalog.AddressSource
}

// Adjust evaluates each tax rate against the order's shipping address and tax
// categories, producing zero or more rate-level adjustments.
func (a *Adjuster) Adjust(ctx context.Context, o *order.Order) ([]order.Adjustment, error) {
	if a == nil || a.Rates == nil {
		return nil, nil
	}
	rates, err := a.Rates.TaxRates(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := a.address(ctx, o)
	if err != nil {
		return nil, err
	}

	var adjustments []order.Adjustment
	for _, rate := range rates {
		if err := catalog.ValidateTaxRate(rate); err != nil {
			return nil, err
		}
		if adj := applyRate(o, rate, addr); adj != nil {
			adjustments = append(adjustments, *adj)
		}
	}
	return adjustments, nil
}

func (a *Adjuster) address(ctx context.Context, o *order.Order) (*zone.Address, error) {
	if o.ShippingAddressID == nil || a.Addresses == nil {
		return nil, nil
	}
	return a.Addresses.Address(ctx, *o.ShippingAddressID)
}

func applyRate(o *order.Order, rate catalog.TaxRate, addr *zone.Address) *order.Adjustment {
	if !rate.Zone.Matches(addr) {
		if rate.Include {
			removeIncludedTax(o, rate)
		}
		return nil
	}

	amount := money.Zero()
	matched := false
	for _, li := range o.LineItems {
		if li.TaxCategoryID != rate.TaxCategoryID {
			continue
		}
		matched = true
		qty := decimal.NewFromInt(int64(li.Qty))
		if rate.Include {
			itemTax := money.Round(embeddedTax(li.SalePrice, rate.Rate).Mul(qty))
			// Not an additional charge: the tax is already inside the unit price.
			li.TaxIncludedAmount = li.TaxIncludedAmount.Add(itemTax)
			amount = amount.Add(itemTax)
		} else {
			itemTax := money.Round(rate.Rate.Mul(li.SalePrice).Mul(qty))
			li.TaxAmount = li.TaxAmount.Add(itemTax)
			amount = amount.Add(itemTax)
		}
	}
	if !matched {
		return nil
	}
	return &order.Adjustment{
		Type:           order.AdjustmentTax,
		Name:           rate.Name,
		Description:    rate.Rate.String(),
		Amount:         amount,
		Included:       rate.Include,
		SourceSnapshot: snapshot(rate),
	}
}

// embeddedTax extracts the tax already inside a gross unit price using the identity
// gross - gross/(1+rate). Charging gross*rate instead would double-charge tax that
// is part of the displayed price.
func embeddedTax(gross, rate money.Amount) money.Amount {
	return gross.Sub(gross.Div(one.Add(rate)))
}

// removeIncludedTax backs the embedded tax out of matching-category line items when
// an inclusive zone does not apply to this customer, correcting the displayed price.
func removeIncludedTax(o *order.Order, rate catalog.TaxRate) {
	for _, li := range o.LineItems {
		if li.TaxCategoryID != rate.TaxCategoryID {
			continue
		}
		removal := money.Round(embeddedTax(li.SalePrice, rate.Rate).Mul(decimal.NewFromInt(int64(li.Qty))))
		li.TaxAmount = li.TaxAmount.Sub(removal)
	}
}

func snapshot(rate catalog.TaxRate) map[string]any {
	return map[string]any{
		"id":            rate.ID.String(),
		"name":          rate.Name,
		"rate":          rate.Rate.String(),
		"include":       rate.Include,
		"taxCategoryId": rate.TaxCategoryID.String(),
		"zoneId":        rate.Zone.ID.String(),
	}
}
