package shipping

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/commerce-pricing/internal/catalog"
	"github.com/noah-isme/commerce-pricing/internal/money"
	"github.com/noah-isme/commerce-pricing/internal/order"
)

// Adjuster prices the order's selected shipping method. It runs after the discount
// adjuster so free-shipping effects are already recorded on the order.
type Adjuster struct {
	Methods catalog.ShippingMethodSource
}

// Adjust resolves the selected method and its first matching rule, accumulates
// per-item shipping costs, and emits at most one order-level shipping adjustment.
// A missing or unmatched method means the cart simply has no shipping cost yet.
func (a *Adjuster) Adjust(ctx context.Context, o *order.Order) ([]order.Adjustment, error) {
	if a == nil || a.Methods == nil {
		return nil, nil
	}
	handle := strings.TrimSpace(o.ShippingMethodHandle)
	if handle == "" {
		return nil, nil
	}
	methods, err := a.Methods.ShippingMethods(ctx)
	if err != nil {
		return nil, err
	}
	var method *catalog.ShippingMethod
	for i := range methods {
		if methods[i].Enabled && strings.EqualFold(methods[i].Handle, handle) {
			method = &methods[i]
			break
		}
	}
	if method == nil {
		return nil, nil
	}
	if err := catalog.ValidateShippingMethod(*method); err != nil {
		return nil, err
	}
	rule := matchRule(method.Rules, o)
	if rule == nil {
		return nil, nil
	}

	itemShippingTotal := money.Zero()
	freeShippingAmount := money.Zero()
	for _, li := range o.LineItems {
		if rule.ShippingCategoryID != nil && *rule.ShippingCategoryID != li.ShippingCategoryID {
			continue
		}
		cost := money.Round(li.Subtotal().Mul(rule.PercentageRate).
			Add(rule.PerItemRate.Mul(decimal.NewFromInt(int64(li.Qty)))).
			Add(rule.WeightRate.Mul(li.TotalWeight())))
		itemShippingTotal = itemShippingTotal.Add(cost)
		if li.FreeShipping || li.ShippingWaived {
			freeShippingAmount = freeShippingAmount.Add(cost)
			continue
		}
		li.ShippingAmount = li.ShippingAmount.Add(cost)
	}

	base := rule.BaseRate
	if o.ShippingRateWaived {
		base = money.Zero()
	}
	amount := money.Round(base.Add(itemShippingTotal).Sub(freeShippingAmount))
	if amount.LessThan(rule.MinRate) {
		amount = money.Round(rule.MinRate)
	}
	if rule.MaxRate.IsPositive() && amount.GreaterThan(rule.MaxRate) {
		amount = money.Round(rule.MaxRate)
	}

	// The base portion reported to the user excludes per-item contributions. This is
	// a display decomposition, not a second charge.
	o.BaseShippingCost = amount.Sub(itemShippingTotal.Sub(freeShippingAmount))

	adj := order.Adjustment{
		Type:           order.AdjustmentShipping,
		Name:           method.Name,
		Description:    rule.Name,
		Amount:         amount,
		SourceSnapshot: snapshot(method, rule),
	}
	return []order.Adjustment{adj}, nil
}

// matchRule returns the first enabled rule, in ascending priority, whose bounds
// accept the order.
func matchRule(rules []catalog.ShippingRule, o *order.Order) *catalog.ShippingRule {
	ordered := make([]catalog.ShippingRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	qty := o.TotalQty()
	total := o.ItemSubtotal()
	weight := o.TotalWeight()
	for i := range ordered {
		if !ordered[i].Enabled {
			continue
		}
		if ordered[i].MatchOrder(qty, total, weight) {
			return &ordered[i]
		}
	}
	return nil
}

func snapshot(m *catalog.ShippingMethod, r *catalog.ShippingRule) map[string]any {
	return map[string]any{
		"methodId":       m.ID.String(),
		"methodHandle":   m.Handle,
		"ruleId":         r.ID.String(),
		"ruleName":       r.Name,
		"baseRate":       r.BaseRate.String(),
		"perItemRate":    r.PerItemRate.String(),
		"weightRate":     r.WeightRate.String(),
		"percentageRate": r.PercentageRate.String(),
		"minRate":        r.MinRate.String(),
		"maxRate":        r.MaxRate.String(),
	}
}
