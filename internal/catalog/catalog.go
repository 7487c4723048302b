package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/commerce-pricing/internal/zone"
)

// TaxRate applies a percentage to line items in one tax category whenever its zone
// matches the order's shipping address. Include marks rates that are already
// embedded in the displayed unit price and therefore extracted instead of added.
type TaxRate struct {
	ID            uuid.UUID       `json:"id" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Rate          decimal.Decimal `json:"rate"` // 0.10 means 10%
	Include       bool            `json:"include"`
	TaxCategoryID uuid.UUID       `json:"taxCategoryId" validate:"required"`
	Zone          zone.Zone       `json:"zone"`
}

// ShippingRule prices an order for one shipping method. Rules are evaluated in
// ascending Priority and the first enabled rule whose bounds accept the order wins.
type ShippingRule struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	Name     string    `json:"name" validate:"required"`
	Priority int       `json:"priority" validate:"gte=0"`
	Enabled  bool      `json:"enabled"`

	BaseRate       decimal.Decimal `json:"baseRate"`
	PerItemRate    decimal.Decimal `json:"perItemRate"`
	WeightRate     decimal.Decimal `json:"weightRate"`
	PercentageRate decimal.Decimal `json:"percentageRate"`
	MinRate        decimal.Decimal `json:"minRate"`
	MaxRate        decimal.Decimal `json:"maxRate"` // zero disables the upper clamp

	// Order bounds; a zero maximum leaves that bound open.
	MinQty    int             `json:"minQty" validate:"gte=0"`
	MaxQty    int             `json:"maxQty" validate:"gte=0"`
	MinTotal  decimal.Decimal `json:"minTotal"`
	MaxTotal  decimal.Decimal `json:"maxTotal"`
	MinWeight decimal.Decimal `json:"minWeight"`
	MaxWeight decimal.Decimal `json:"maxWeight"`

	// ShippingCategoryID limits per-item costs to one category; nil covers all items.
	ShippingCategoryID *uuid.UUID `json:"shippingCategoryId"`
}

// MatchOrder reports whether an order with the given aggregate quantity, item
// subtotal and weight falls inside the rule's bounds.
func (r ShippingRule) MatchOrder(qty int, total, weight decimal.Decimal) bool {
	if r.MinQty > 0 && qty < r.MinQty {
		return false
	}
	if r.MaxQty > 0 && qty > r.MaxQty {
		return false
	}
	if r.MinTotal.IsPositive() && total.LessThan(r.MinTotal) {
		return false
	}
	if r.MaxTotal.IsPositive() && total.GreaterThan(r.MaxTotal) {
		return false
	}
	if r.MinWeight.IsPositive() && weight.LessThan(r.MinWeight) {
		return false
	}
	if r.MaxWeight.IsPositive() && weight.GreaterThan(r.MaxWeight) {
		return false
	}
	return true
}

// ShippingMethod groups shipping rules under a storefront-selectable handle.
type ShippingMethod struct {
	ID      uuid.UUID      `json:"id" validate:"required"`
	Name    string         `json:"name" validate:"required"`
	Handle  string         `json:"handle" validate:"required"`
	Enabled bool           `json:"enabled"`
	Rules   []ShippingRule `json:"rules" validate:"dive"`
}

// Discount is a promotion resolved by coupon code. The monetary components are
// expected to be negative (subtractive); the pipeline does not clamp the sign unless
// strict-sign mode is enabled on the discount adjuster.
type Discount struct {
	ID              uuid.UUID       `json:"id" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	Code            string          `json:"code"`
	Enabled         bool            `json:"enabled"`
	BaseDiscount    decimal.Decimal `json:"baseDiscount"`
	PerItemDiscount decimal.Decimal `json:"perItemDiscount"`
	PercentDiscount decimal.Decimal `json:"percentDiscount"`
	PurchaseQty     int             `json:"purchaseQty" validate:"gte=0"`
	PurchaseTotal   decimal.Decimal `json:"purchaseTotal"`
	FreeShipping    bool            `json:"freeShipping"`
}

// TaxRateSource enumerates the tax rates in effect for one recalculation pass.
type TaxRateSource interface {
	TaxRates(ctx context.Context) ([]TaxRate, error)
}

// ShippingMethodSource enumerates the shipping methods available to an order.
type ShippingMethodSource interface {
	ShippingMethods(ctx context.Context) ([]ShippingMethod, error)
}

// DiscountSource resolves a coupon code to a discount. A nil discount with a nil
// error means the code is unknown, which the adjuster treats as a configuration miss
// rather than a failure.
type DiscountSource interface {
	DiscountByCode(ctx context.Context, code string) (*Discount, error)
}

// AddressSource looks up an address by id. A nil address with a nil error means the
// order has no confirmed destination yet.
type AddressSource interface {
	Address(ctx context.Context, id uuid.UUID) (*zone.Address, error)
}
