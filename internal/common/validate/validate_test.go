package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateNonNegativeDecimal(t *testing.T) {
	type priced struct {
		Price decimal.Decimal `validate:"dgte0"`
	}

	tests := []struct {
		name    string
		input   priced
		isValid bool
	}{
		{name: "given positive price should be valid", input: priced{Price: decimal.NewFromInt(15)}, isValid: true},
		{name: "given zero price should be valid", input: priced{Price: decimal.Zero}, isValid: true},
		{name: "given negative price should be invalid", input: priced{Price: decimal.NewFromInt(-1)}, isValid: false},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.isValid {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
		})
	}
}

func TestValidateNonNegativeNullDecimal(t *testing.T) {
	type priced struct {
		Price decimal.NullDecimal `validate:"omitempty,dgte0"`
	}

	tests := []struct {
		name    string
		input   priced
		isValid bool
	}{
		{name: "given null price should be valid", input: priced{}, isValid: true},
		{name: "given positive price should be valid", input: priced{Price: decimal.NewNullDecimal(decimal.NewFromInt(15))}, isValid: true},
		{name: "given negative price should be invalid", input: priced{Price: decimal.NewNullDecimal(decimal.NewFromInt(-1))}, isValid: false},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.isValid {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
		})
	}
}

func TestNewRegistersTag(t *testing.T) {
	assert.NotPanics(t, func() { New() })
}
