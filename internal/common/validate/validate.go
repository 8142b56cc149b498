package validate

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const TagNonNegativeDecimal = "dgte0"

// New returns a validator that understands decimal.Decimal and
// decimal.NullDecimal fields. A null decimal is seen as an empty value so
// it pairs with omitempty. It panics when the custom tag cannot be
// registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(DecimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	if err := v.RegisterValidation(TagNonNegativeDecimal, ValidateNonNegativeDecimal); err != nil {
		panic(fmt.Errorf("failed registering validation tag=%s with error=%w", TagNonNegativeDecimal, err))
	}
	return v
}

func DecimalValue(v reflect.Value) interface{} {
	switch n := v.Interface().(type) {
	case decimal.Decimal:
		return n.String()
	case decimal.NullDecimal:
		if !n.Valid {
			return nil
		}
		return n.Decimal.String()
	default:
		return nil
	}
}

func ValidateNonNegativeDecimal(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}
