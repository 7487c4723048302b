package order

import (
	"testing"

	"github.com/google/uuid"

	"github.com/noah-isme/commerce-pricing/internal/money"
)

func TestLineItemSubtotal(t *testing.T) {
	li := &LineItem{Qty: 3, SalePrice: money.MustParse("19.99")}
	if !money.Equal(li.Subtotal(), money.MustParse("59.97")) {
		t.Fatalf("subtotal = %s, want 59.97", li.Subtotal())
	}
}

func TestMutationsMarkDirty(t *testing.T) {
	o := New(uuid.New())
	if !o.Dirty() {
		t.Fatal("new order should start dirty")
	}
	o.MarkClean()

	li := &LineItem{ID: uuid.New(), Qty: 1, SalePrice: money.FromInt(10)}
	o.AddLineItem(li)
	if !o.Dirty() {
		t.Fatal("adding a line item should mark the order dirty")
	}

	o.MarkClean()
	o.SetCouponCode("WELCOME")
	if !o.Dirty() {
		t.Fatal("changing the coupon code should mark the order dirty")
	}

	o.MarkClean()
	if !o.RemoveLineItem(li.ID) {
		t.Fatal("expected line item to be removed")
	}
	if !o.Dirty() {
		t.Fatal("removing a line item should mark the order dirty")
	}
	if o.RemoveLineItem(li.ID) {
		t.Fatal("removing an absent line item should report false")
	}
}

func TestResetAdjustmentsClearsAccumulators(t *testing.T) {
	li := &LineItem{Qty: 1, SalePrice: money.FromInt(100)}
	li.TaxAmount = money.FromInt(7)
	li.ShippingAmount = money.FromInt(3)
	li.DiscountAmount = money.FromInt(-5)
	li.ShippingWaived = true

	o := New(uuid.New())
	o.AddLineItem(li)
	o.Adjustments = []Adjustment{{Type: AdjustmentTax, Amount: money.FromInt(7)}}
	o.TotalTax = money.FromInt(7)
	o.ShippingRateWaived = true

	o.ResetAdjustments()

	if len(o.Adjustments) != 0 {
		t.Fatalf("expected adjustments cleared, got %d", len(o.Adjustments))
	}
	if !li.TaxAmount.IsZero() || !li.ShippingAmount.IsZero() || !li.DiscountAmount.IsZero() {
		t.Fatal("expected line item accumulators zeroed")
	}
	if li.ShippingWaived || o.ShippingRateWaived {
		t.Fatal("expected per-pass flags cleared")
	}
	if !o.TotalTax.IsZero() {
		t.Fatal("expected totals zeroed")
	}
}
