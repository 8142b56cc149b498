package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/florist/internal/cart"
	"github.com/Alturino/florist/internal/storefront"
)

const orderStatusPending = "Pending"

// Address is the shipping draft. Only presence is checked; phone and
// street formats are left to the backend.
type Address struct {
	FullName      string `validate:"required" json:"fullName"`
	PhoneNumber   string `validate:"required" json:"phoneNumber"`
	StreetAddress string `validate:"required" json:"streetAddress"`
	City          string `validate:"required" json:"city"`
	CallRecipient bool   `json:"callRecipient"`
}

func (a Address) toRequest() storefront.CreateAddress {
	return storefront.CreateAddress{
		FullName:      a.FullName,
		PhoneNumber:   a.PhoneNumber,
		StreetAddress: a.StreetAddress,
		City:          a.City,
		CallRecipient: a.CallRecipient,
	}
}

// Session is the state of one checkout attempt. It lives in memory and is
// only written to a SessionStore right before a VNPay redirect.
type Session struct {
	ID       uuid.UUID
	Step     Step
	Address  Address
	Method   PaymentMethod
	BankCode BankCode
	Order    *storefront.Order
	Payment  *storefront.Payment
}

func NewSession() *Session {
	return &Session{
		ID:     uuid.New(),
		Step:   StepShippingDetails,
		Method: PaymentMethodCOD,
	}
}

// PendingOrder is what survives the round trip to the payment provider.
type PendingOrder struct {
	OrderID     uuid.UUID       `json:"orderId"`
	PaymentID   uuid.UUID       `json:"paymentId"`
	CartItems   []cart.LineItem `json:"cartItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	AddressData Address         `json:"addressData"`
}

// Result is the outcome of a provider return. On failure the session is
// back at the payment step.
type Result struct {
	Outcome      Step
	ResponseCode string
	Session      *Session
	PendingOrder *PendingOrder
}
