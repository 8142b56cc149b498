package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	commonErrors "github.com/Alturino/florist/internal/common/errors"
)

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		input       string
		expected    PaymentMethod
		expectedErr error
	}{
		{input: "cod", expected: PaymentMethodCOD},
		{input: " PayPal ", expected: PaymentMethodPaypal},
		{input: "VNPAY", expected: PaymentMethodVnpay},
		{input: "momo", expectedErr: commonErrors.ErrUnsupportedPaymentMethod},
		{input: "", expectedErr: commonErrors.ErrUnsupportedPaymentMethod},
	}

	for _, tt := range tests {
		t.Run("given "+tt.input, func(t *testing.T) {
			method, err := ParsePaymentMethod(tt.input)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, method)
		})
	}
}

func TestParseBankCode(t *testing.T) {
	tests := []struct {
		input       string
		expected    BankCode
		expectedErr error
	}{
		{input: "", expected: BankCodeAny},
		{input: "vnpayqr", expected: BankCodeVnpayQR},
		{input: "VNBANK", expected: BankCodeVnbank},
		{input: "intcard", expected: BankCodeIntcard},
		{input: "ACB", expectedErr: commonErrors.ErrUnsupportedBankCode},
	}

	for _, tt := range tests {
		t.Run("given "+tt.input, func(t *testing.T) {
			code, err := ParseBankCode(tt.input)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "ShippingDetails", StepShippingDetails.String())
	assert.Equal(t, "Payment", StepPayment.String())
	assert.Equal(t, "Success", StepSuccess.String())
	assert.Equal(t, "Failure", StepFailure.String())
	assert.Equal(t, "Step(9)", Step(9).String())
	assert.True(t, StepFailure.Terminal())
	assert.False(t, StepPayment.Terminal())
}
