package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	ID          uuid.UUID       `json:"id"`
	Items       []CartItem      `json:"items"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type CartItem struct {
	ID           uuid.UUID           `json:"id"`
	CartID       uuid.UUID           `json:"cartId"`
	ProductID    uuid.UUID           `json:"productId"`
	ProductName  string              `json:"productName"`
	ImageURL     string              `json:"imageUrl"`
	Price        decimal.Decimal     `json:"price"`
	DynamicPrice decimal.NullDecimal `json:"dynamicPrice"`
	Quantity     int                 `json:"quantity"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
}

type CartCount struct {
	Count int `json:"count"`
}

type DynamicPrice struct {
	ProductID          uuid.UUID           `json:"productId"`
	BasePrice          decimal.Decimal     `json:"basePrice"`
	DynamicPrice       decimal.NullDecimal `json:"dynamicPrice"       validate:"omitempty,dgte0"`
	Discount           decimal.Decimal     `json:"discount"`
	DiscountPercentage decimal.Decimal     `json:"discountPercentage"`
	HasDiscount        bool                `json:"hasDiscount"`
	HasSurcharge       bool                `json:"hasSurcharge"`
	AppliedRule        string              `json:"appliedRule"`
	CalculatedAt       time.Time           `json:"calculatedAt"`
}

type Address struct {
	ID uuid.UUID `json:"id"`
}

type Order struct {
	ID            uuid.UUID       `json:"id"`
	Sum           decimal.Decimal `json:"sum"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
}

type Payment struct {
	PaymentID  uuid.UUID `json:"paymentId"`
	PaymentURL string    `json:"paymentUrl"`
}

type PaymentStatus struct {
	PaymentID uuid.UUID `json:"paymentId"`
	Status    string    `json:"status"`
}
