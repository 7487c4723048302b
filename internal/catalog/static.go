package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/commerce-pricing/internal/zone"
)

// Static serves catalogs from in-memory snapshots. It backs tests and callers that
// load rates and rules up front; the pipeline treats whatever source it is handed as
// a read-only snapshot for the duration of a pass.
type Static struct {
	Rates     []TaxRate
	Methods   []ShippingMethod
	Discounts []Discount
	Addresses map[uuid.UUID]zone.Address
}

// TaxRates implements TaxRateSource.
func (s *Static) TaxRates(_ context.Context) ([]TaxRate, error) {
	if s == nil {
		return nil, nil
	}
	return s.Rates, nil
}

// ShippingMethods implements ShippingMethodSource.
func (s *Static) ShippingMethods(_ context.Context) ([]ShippingMethod, error) {
	if s == nil {
		return nil, nil
	}
	return s.Methods, nil
}

// DiscountByCode implements DiscountSource with a case-insensitive code match over
// enabled discounts.
func (s *Static) DiscountByCode(_ context.Context, code string) (*Discount, error) {
	if s == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, nil
	}
	for i := range s.Discounts {
		d := s.Discounts[i]
		if d.Enabled && strings.EqualFold(d.Code, trimmed) {
			return &d, nil
		}
	}
	return nil, nil
}

// Address implements AddressSource.
func (s *Static) Address(_ context.Context, id uuid.UUID) (*zone.Address, error) {
	if s == nil || s.Addresses == nil {
		return nil, nil
	}
	addr, ok := s.Addresses[id]
	if !ok {
		return nil, nil
	}
	return &addr, nil
}
