package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrUnexpectedStatus         = errors.New("unexpected response status")
	ErrInvalidQuantity          = errors.New("quantity must be a positive integer")
	ErrEmptyCart                = errors.New("cart is empty")
	ErrIncompleteAddress        = errors.New("shipping address is incomplete")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrUnsupportedBankCode      = errors.New("unsupported bank code")
	ErrMissingPaymentURL        = errors.New("payment provider returned no redirect url")
	ErrPendingOrderNotFound     = errors.New("pending order not found")
	ErrInvalidCheckoutStep      = errors.New("action not allowed at current checkout step")
	ErrMissingSessionID         = errors.New("missing checkout session id")
	ErrTokenInvalid             = errors.New("invalid token")
	ErrVolatileSessionStorage   = errors.New("VNPay needs session storage that outlives the process")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
