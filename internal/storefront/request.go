package storefront

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddCartItem struct {
	ProductID uuid.UUID `validate:"required"       json:"productId"`
	Quantity  int       `validate:"required,gte=1" json:"quantity"`
}

type UpdateCartItem struct {
	CartItemID uuid.UUID `validate:"required"       json:"cartItemId"`
	Quantity   int       `validate:"required,gte=1" json:"quantity"`
}

type CreateAddress struct {
	FullName      string `validate:"required" json:"fullName"`
	PhoneNumber   string `validate:"required" json:"phoneNumber"`
	StreetAddress string `validate:"required" json:"streetAddress"`
	City          string `validate:"required" json:"city"`
	CallRecipient bool   `json:"callRecipient"`
}

type CreateOrder struct {
	CartID        uuid.UUID  `validate:"required" json:"cartId"`
	AddressID     uuid.UUID  `validate:"required" json:"addressId"`
	PaymentMethod string     `validate:"required" json:"paymentMethod"`
	PaymentID     *uuid.UUID `json:"paymentId,omitempty"`
	Status        string     `validate:"required" json:"status"`
}

type CreatePayment struct {
	OrderID   uuid.UUID       `validate:"required" json:"orderId"`
	Amount    decimal.Decimal `validate:"dgte0"    json:"amount"`
	Method    string          `validate:"required" json:"method"`
	BankCode  string          `json:"bankCode,omitempty"`
	Currency  string          `validate:"required" json:"currency"`
	Language  string          `json:"language,omitempty"`
	ReturnURL string          `json:"returnUrl,omitempty"`
}
