package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/commerce-pricing/internal/common"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateTaxRate reports a data error when the rate definition is malformed. The
// rate must be non-negative; an inclusive rate additionally divides by 1+rate, which
// the non-negative check keeps well defined.
func ValidateTaxRate(r TaxRate) error {
	if err := validate.Struct(r); err != nil {
		return common.NewDataError("invalid tax rate definition", err)
	}
	if r.Rate.IsNegative() {
		return common.NewDataError(fmt.Sprintf("tax rate %q has a negative rate", r.Name), nil)
	}
	return nil
}

// ValidateShippingMethod reports a data error when the method or one of its rules is
// malformed.
func ValidateShippingMethod(m ShippingMethod) error {
	if err := validate.Struct(m); err != nil {
		return common.NewDataError("invalid shipping method definition", err)
	}
	for _, r := range m.Rules {
		if r.MinRate.IsNegative() {
			return common.NewDataError(fmt.Sprintf("shipping rule %q has a negative minimum rate", r.Name), nil)
		}
		if r.MaxRate.IsPositive() && r.MaxRate.LessThan(r.MinRate) {
			return common.NewDataError(fmt.Sprintf("shipping rule %q has maxRate below minRate", r.Name), nil)
		}
		if r.MaxQty > 0 && r.MaxQty < r.MinQty {
			return common.NewDataError(fmt.Sprintf("shipping rule %q has maxQty below minQty", r.Name), nil)
		}
	}
	return nil
}

// ValidateDiscount reports a data error when the discount definition is malformed.
// The sign of the monetary components is deliberately not validated here; see the
// strict-sign option on the discount adjuster.
func ValidateDiscount(d Discount) error {
	if err := validate.Struct(d); err != nil {
		return common.NewDataError("invalid discount definition", err)
	}
	return nil
}
