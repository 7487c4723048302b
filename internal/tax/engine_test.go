package tax

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/commerce-pricing/internal/catalog"
	"github.com/noah-isme/commerce-pricing/internal/money"
	"github.com/noah-isme/commerce-pricing/internal/order"
	"github.com/noah-isme/commerce-pricing/internal/zone"
)

var (
	taxCategory = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	countryID   = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002")
	addressID   = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000003")
)

func newOrderWithItem(qty int, price string) (*order.Order, *order.LineItem) {
	li := &order.LineItem{
		ID:            uuid.New(),
		Qty:           qty,
		SalePrice:     money.MustParse(price),
		TaxCategoryID: taxCategory,
		Promotable:    true,
	}
	o := order.New(uuid.New())
	o.AddLineItem(li)
	return o, li
}

func taxRate(rate string, include bool, z zone.Zone) catalog.TaxRate {
	return catalog.TaxRate{
		ID:            uuid.New(),
		Name:          "VAT",
		Rate:          money.MustParse(rate),
		Include:       include,
		TaxCategoryID: taxCategory,
		Zone:          z,
	}
}

func TestInclusiveRateMatchingDefaultZone(t *testing.T) {
	o, li := newOrderWithItem(1, "100")
	adjuster := &Adjuster{Rates: &catalog.Static{Rates: []catalog.TaxRate{
		taxRate("0.10", true, zone.Zone{Default: true}),
	}}}

	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if len(adjustments) != 1 {
		t.Fatalf("expected 1 adjustment, got %d", len(adjustments))
	}
	adj := adjustments[0]
	if !adj.Included {
		t.Fatal("expected included flag to mirror the rate")
	}
	if !money.Equal(adj.Amount, money.MustParse("9.09")) {
		t.Fatalf("amount = %s, want 9.09", adj.Amount)
	}
	if !money.Equal(li.TaxIncludedAmount, money.MustParse("9.09")) {
		t.Fatalf("taxIncludedAmount = %s, want 9.09", li.TaxIncludedAmount)
	}
	if !li.TaxAmount.IsZero() {
		t.Fatalf("inclusive tax must never hit TaxAmount, got %s", li.TaxAmount)
	}
}

func TestExclusiveRate(t *testing.T) {
	o, li := newOrderWithItem(2, "50")
	adjuster := &Adjuster{Rates: &catalog.Static{Rates: []catalog.TaxRate{
		taxRate("0.08", false, zone.Zone{Default: true}),
	}}}

	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if len(adjustments) != 1 || adjustments[0].Included {
		t.Fatalf("expected one exclusive adjustment, got %+v", adjustments)
	}
	if !money.Equal(adjustments[0].Amount, money.MustParse("8")) {
		t.Fatalf("amount = %s, want 8", adjustments[0].Amount)
	}
	if !money.Equal(li.TaxAmount, money.MustParse("8")) {
		t.Fatalf("taxAmount = %s, want 8", li.TaxAmount)
	}
}

func TestInclusiveRateZoneMissBacksOutEmbeddedTax(t *testing.T) {
	o, li := newOrderWithItem(1, "100")
	o.SetShippingAddress(&addressID)
	static := &catalog.Static{
		Rates: []catalog.TaxRate{taxRate("0.10", true, zone.Zone{
			CountryBased: true,
			CountryIDs:   []uuid.UUID{countryID},
		})},
		Addresses: map[uuid.UUID]zone.Address{addressID: {ID: addressID, CountryID: uuid.New()}},
	}
	adjuster := &Adjuster{Rates: static, Addresses: static}

	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if len(adjustments) != 0 {
		t.Fatalf("expected no adjustment on zone miss, got %d", len(adjustments))
	}
	if !money.Equal(li.TaxAmount, money.MustParse("-9.09")) {
		t.Fatalf("taxAmount = %s, want -9.09 (embedded tax backed out)", li.TaxAmount)
	}
	if !li.TaxIncludedAmount.IsZero() {
		t.Fatalf("taxIncludedAmount = %s, want 0", li.TaxIncludedAmount)
	}
}

func TestExclusiveRateZoneMissIsSkipped(t *testing.T) {
	o, li := newOrderWithItem(1, "100")
	adjuster := &Adjuster{Rates: &catalog.Static{Rates: []catalog.TaxRate{
		taxRate("0.10", false, zone.Zone{CountryBased: true, CountryIDs: []uuid.UUID{countryID}}),
	}}}

	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if len(adjustments) != 0 || !li.TaxAmount.IsZero() {
		t.Fatal("exclusive rate with a zone miss must do nothing")
	}
}

func TestNoCategoryMatchEmitsNothing(t *testing.T) {
	o, _ := newOrderWithItem(1, "100")
	rate := taxRate("0.10", false, zone.Zone{Default: true})
	rate.TaxCategoryID = uuid.New()
	adjuster := &Adjuster{Rates: &catalog.Static{Rates: []catalog.TaxRate{rate}}}

	adjustments, err := adjuster.Adjust(context.Background(), o)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if len(adjustments) != 0 {
		t.Fatal("a rate with no category-matching items must emit no adjustment")
	}
}

func TestMalformedRateIsDataError(t *testing.T) {
	o, _ := newOrderWithItem(1, "100")
	rate := taxRate("-0.10", false, zone.Zone{Default: true})
	adjuster := &Adjuster{Rates: &catalog.Static{Rates: []catalog.TaxRate{rate}}}

	if _, err := adjuster.Adjust(context.Background(), o); err == nil {
		t.Fatal("expected a data error for a negative rate")
	}
}

func TestEmbeddedTaxIdentity(t *testing.T) {
	embedded := embeddedTax(money.MustParse("100"), money.MustParse("0.10"))
	want := money.MustParse("100").Sub(money.MustParse("100").Div(decimal.NewFromInt(1).Add(money.MustParse("0.10"))))
	if !money.Equal(embedded, want) {
		t.Fatalf("embeddedTax = %s, want %s", embedded, want)
	}
}
