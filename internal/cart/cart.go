package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/florist/internal/pricing"
	"github.com/Alturino/florist/internal/storefront"
)

// LineItem is one product and quantity entry of the cart. Subtotal is the
// backend's figure and is never recomputed here.
type LineItem struct {
	ID           uuid.UUID           `json:"id"`
	CartID       uuid.UUID           `json:"cartId"`
	ProductID    uuid.UUID           `json:"productId"`
	Name         string              `json:"name"`
	ImageURL     string              `json:"imageUrl"`
	BasePrice    decimal.Decimal     `json:"basePrice"`
	DynamicPrice decimal.NullDecimal `json:"dynamicPrice"`
	Quantity     int                 `json:"quantity"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Quote        *pricing.Quote      `json:"quote,omitempty"`
}

func (i LineItem) UnitPrice() decimal.Decimal {
	if i.DynamicPrice.Valid {
		return i.DynamicPrice.Decimal
	}
	return i.BasePrice
}

func lineItemFromResponse(item storefront.CartItem) LineItem {
	return LineItem{
		ID:           item.ID,
		CartID:       item.CartID,
		ProductID:    item.ProductID,
		Name:         item.ProductName,
		ImageURL:     item.ImageURL,
		BasePrice:    item.Price,
		DynamicPrice: item.DynamicPrice,
		Quantity:     item.Quantity,
		Subtotal:     item.Subtotal,
	}
}

// Snapshot is a copy of the cart at one point in time. ItemCount and Total
// come from the backend.
type Snapshot struct {
	CartID    uuid.UUID       `json:"cartId"`
	Items     []LineItem      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s Snapshot) clone() Snapshot {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}
