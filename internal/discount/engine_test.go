package discount

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/noah-isme/commerce-pricing/internal/catalog"
	"github.com/noah-isme/commerce-pricing/internal/common"
	"github.com/noah-isme/commerce-pricing/internal/money"
	"github.com/noah-isme/commerce-pricing/internal/order"
)

func promoItem(qty int, price string) *order.LineItem {
	return &order.LineItem{
		ID:         uuid.New(),
		Qty:        qty,
		SalePrice:  money.MustParse(price),
		Promotable: true,
	}
}

func orderWithCoupon(code string, items ...*order.LineItem) *order.Order {
	o := order.New(uuid.New())
	for _, li := range items {
		o.AddLineItem(li)
	}
	o.SetCouponCode(code)
	return o
}

func tenPercentOff() catalog.Discount {
	return catalog.Discount{
		ID:              uuid.New(),
		Name:            "Ten percent off",
		Code:            "SAVE10",
		Enabled:         true,
		PercentDiscount: money.MustParse("-0.10"),
	}
}

func TestUnknownOrMissingCodeYieldsNothing(t *testing.T) {
	adjuster := &Adjuster{Discounts: &catalog.Static{Discounts: []catalog.Discount{tenPercentOff()}}}

	o := orderWithCoupon("", promoItem(1, "100"))
	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil || len(adjustments) != 0 {
		t.Fatalf("empty coupon should yield nothing, got %v %v", adjustments, err)
	}

	o = orderWithCoupon("NOPE", promoItem(1, "100"))
	adjustments, err = adjuster.Adjust(context.Background(), o)
	if err != nil || len(adjustments) != 0 {
		t.Fatalf("unknown coupon should yield nothing, got %v %v", adjustments, err)
	}
}

func TestAmountComposition(t *testing.T) {
	d := catalog.Discount{
		ID:              uuid.New(),
		Name:            "Bundle",
		Code:            "BUNDLE",
		Enabled:         true,
		BaseDiscount:    money.MustParse("-5"),
		PerItemDiscount: money.MustParse("-1"),
		PercentDiscount: money.MustParse("-0.10"),
	}
	li := promoItem(2, "50")
	o := orderWithCoupon("BUNDLE", li)
	adjuster := &Adjuster{Discounts: &catalog.Static{Discounts: []catalog.Discount{d}}}

	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if len(adjustments) != 1 {
		t.Fatalf("expected one discount adjustment, got %d", len(adjustments))
	}
	// -5 + 2*-1 + 100*-0.10 = -17
	if !money.Equal(adjustments[0].Amount, money.MustParse("-17")) {
		t.Fatalf("amount = %s, want -17", adjustments[0].Amount)
	}
	// per-item share: 2*-1 + 100*-0.10 = -12
	if !money.Equal(li.DiscountAmount, money.MustParse("-12")) {
		t.Fatalf("discountAmount = %s, want -12", li.DiscountAmount)
	}
	if !money.Equal(o.BaseDiscount, money.MustParse("-5")) {
		t.Fatalf("baseDiscount = %s, want -5", o.BaseDiscount)
	}
}

func TestPurchaseQtyThresholdBoundary(t *testing.T) {
	d := tenPercentOff()
	d.PurchaseQty = 3
	adjuster := &Adjuster{Discounts: &catalog.Static{Discounts: []catalog.Discount{d}}}

	o := orderWithCoupon("SAVE10", promoItem(2, "50"))
	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil || len(adjustments) != 0 {
		t.Fatalf("qty 2 below threshold 3 must not apply, got %v %v", adjustments, err)
	}

	o = orderWithCoupon("SAVE10", promoItem(3, "50"))
	adjustments, err = adjuster.Adjust(context.Background(), o)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if len(adjustments) != 1 {
		t.Fatal("qty exactly at threshold 3 must apply")
	}
}

func TestPurchaseTotalThreshold(t *testing.T) {
	d := tenPercentOff()
	d.PurchaseTotal = money.MustParse("200")
	adjuster := &Adjuster{Discounts: &catalog.Static{Discounts: []catalog.Discount{d}}}

	o := orderWithCoupon("SAVE10", promoItem(1, "199.99"))
	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil || len(adjustments) != 0 {
		t.Fatalf("total below threshold must not apply, got %v %v", adjustments, err)
	}
}

func TestNonPromotableAndUnmatchedItemsAreExcluded(t *testing.T) {
	d := tenPercentOff()
	plain := promoItem(1, "100")
	locked := promoItem(1, "400")
	locked.Promotable = false
	o := orderWithCoupon("SAVE10", plain, locked)
	adjuster := &Adjuster{Discounts: &catalog.Static{Discounts: []catalog.Discount{d}}}

	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !money.Equal(adjustments[0].Amount, money.MustParse("-10")) {
		t.Fatalf("amount = %s, want -10 over the promotable item only", adjustments[0].Amount)
	}
	if !locked.DiscountAmount.IsZero() {
		t.Fatal("non-promotable item must not accumulate a discount share")
	}

	none := &Adjuster{
		Discounts: &catalog.Static{Discounts: []catalog.Discount{d}},
		Match:     func(catalog.Discount, *order.LineItem) bool { return false },
	}
	o = orderWithCoupon("SAVE10", promoItem(1, "100"))
	adjustments, err = none.Adjust(context.Background(), o)
	if err != nil || len(adjustments) != 0 {
		t.Fatalf("no matching items must yield nothing, got %v %v", adjustments, err)
	}
}

func TestFreeShippingFlagsAreSetEvenWithZeroAmount(t *testing.T) {
	d := catalog.Discount{
		ID:           uuid.New(),
		Name:         "Free shipping",
		Code:         "SHIPFREE",
		Enabled:      true,
		FreeShipping: true,
	}
	li := promoItem(1, "100")
	o := orderWithCoupon("SHIPFREE", li)
	adjuster := &Adjuster{Discounts: &catalog.Static{Discounts: []catalog.Discount{d}}}

	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if len(adjustments) != 0 {
		t.Fatal("a zero amount emits no adjustment")
	}
	if !li.ShippingWaived || !o.ShippingRateWaived {
		t.Fatal("free-shipping flags must be set for the shipping adjuster to read")
	}
}

func TestStrictSignRejectsPositiveAmount(t *testing.T) {
	d := tenPercentOff()
	d.BaseDiscount = money.MustParse("50")
	d.PercentDiscount = money.Zero()

	permissive := &Adjuster{Discounts: &catalog.Static{Discounts: []catalog.Discount{d}}}
	o := orderWithCoupon("SAVE10", promoItem(1, "100"))
	adjustments, err := permissive.Adjust(context.Background(), o)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if len(adjustments) != 1 || !money.Equal(adjustments[0].Amount, money.MustParse("50")) {
		t.Fatal("default mode passes a positive amount through unchanged")
	}

	strict := &Adjuster{Discounts: &catalog.Static{Discounts: []catalog.Discount{d}}, StrictSign: true}
	o = orderWithCoupon("SAVE10", promoItem(1, "100"))
	_, err = strict.Adjust(context.Background(), o)
	if !common.IsDataError(err) {
		t.Fatalf("strict mode must classify a positive amount as a data error, got %v", err)
	}
}
