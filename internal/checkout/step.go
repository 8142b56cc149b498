package checkout

import (
	"fmt"
	"strings"

	commonErrors "github.com/Alturino/florist/internal/common/errors"
)

type Step int

const (
	StepShippingDetails Step = iota
	StepPayment
	StepSuccess
	StepFailure
)

func (s Step) String() string {
	switch s {
	case StepShippingDetails:
		return "ShippingDetails"
	case StepPayment:
		return "Payment"
	case StepSuccess:
		return "Success"
	case StepFailure:
		return "Failure"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

func (s Step) Terminal() bool {
	return s == StepSuccess || s == StepFailure
}

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodPaypal PaymentMethod = "PAYPAL"
	PaymentMethodVnpay  PaymentMethod = "VNPAY"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch method := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); method {
	case PaymentMethodCOD, PaymentMethodPaypal, PaymentMethodVnpay:
		return method, nil
	default:
		return "", fmt.Errorf("paymentMethod=%s: %w", s, commonErrors.ErrUnsupportedPaymentMethod)
	}
}

// BankCode narrows the VNPay payment page. The empty code lets the
// customer choose.
type BankCode string

const (
	BankCodeAny     BankCode = ""
	BankCodeVnpayQR BankCode = "VNPAYQR"
	BankCodeVnbank  BankCode = "VNBANK"
	BankCodeIntcard BankCode = "INTCARD"
)

func ParseBankCode(s string) (BankCode, error) {
	switch code := BankCode(strings.ToUpper(strings.TrimSpace(s))); code {
	case BankCodeAny, BankCodeVnpayQR, BankCodeVnbank, BankCodeIntcard:
		return code, nil
	default:
		return "", fmt.Errorf("bankCode=%s: %w", s, commonErrors.ErrUnsupportedBankCode)
	}
}
