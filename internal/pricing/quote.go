package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/florist/internal/storefront"
)

// Quote is the price of a product after promotional and time based rules.
// An unresolved quote carries no dynamic price; callers then use the base
// price they already know.
type Quote struct {
	ProductID          uuid.UUID           `json:"productId"`
	BasePrice          decimal.Decimal     `json:"basePrice"`
	DynamicPrice       decimal.NullDecimal `json:"dynamicPrice"`
	Discount           decimal.Decimal     `json:"discount"`
	DiscountPercentage decimal.Decimal     `json:"discountPercentage"`
	HasDiscount        bool                `json:"hasDiscount"`
	HasSurcharge       bool                `json:"hasSurcharge"`
	AppliedRule        string              `json:"appliedRule"`
	CalculatedAt       time.Time           `json:"calculatedAt"`
}

func NoDiscount(productID uuid.UUID) Quote {
	return Quote{ProductID: productID}
}

func QuoteFromResponse(price storefront.DynamicPrice) Quote {
	return Quote{
		ProductID:          price.ProductID,
		BasePrice:          price.BasePrice,
		DynamicPrice:       price.DynamicPrice,
		Discount:           price.Discount,
		DiscountPercentage: price.DiscountPercentage,
		HasDiscount:        price.HasDiscount,
		HasSurcharge:       price.HasSurcharge,
		AppliedRule:        price.AppliedRule,
		CalculatedAt:       price.CalculatedAt,
	}
}

func (q Quote) Resolved() bool {
	return q.DynamicPrice.Valid
}

// EffectivePrice returns the dynamic price, or base when the quote is
// unresolved.
func (q Quote) EffectivePrice(base decimal.Decimal) decimal.Decimal {
	if !q.Resolved() {
		return base
	}
	return q.DynamicPrice.Decimal
}
