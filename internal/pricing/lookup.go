package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/common/validate"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/metrics"
	"github.com/Alturino/florist/internal/otel"
	"github.com/Alturino/florist/internal/storefront"
)

type PriceAPI interface {
	GetDynamicPrice(
		c context.Context,
		productID uuid.UUID,
		requestTime *time.Time,
	) (storefront.DynamicPrice, error)
}

// Quoter resolves the current price of a product. Implementations never
// fail; a failed lookup yields an unresolved quote.
type Quoter interface {
	Quote(c context.Context, productID uuid.UUID, at *time.Time) Quote
}

type Lookup struct {
	api      PriceAPI
	validate *validator.Validate
}

func NewLookup(api PriceAPI) *Lookup {
	return &Lookup{api: api, validate: validate.New()}
}

func (l *Lookup) Quote(c context.Context, productID uuid.UUID, at *time.Time) Quote {
	c, span := otel.Tracer.Start(c, "pricing Lookup Quote")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "pricing Lookup Quote").
		Str(log.KeyProcess, "getting dynamic price").
		Str(log.KeyProductID, productID.String()).
		Logger()

	logger.Debug().Msg("getting dynamic price")
	price, err := l.api.GetDynamicPrice(logger.WithContext(c), productID, at)
	if err != nil {
		err = fmt.Errorf("failed getting dynamic price, falling back to base price with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		metrics.PriceQuoteTotal.WithLabelValues(metrics.OutcomeFallback).Inc()
		return NoDiscount(productID)
	}

	logger = logger.With().Str(log.KeyProcess, "validating dynamic price").Logger()
	if err := l.validate.StructCtx(c, price); err != nil {
		err = fmt.Errorf("failed validating dynamic price, falling back to base price with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		metrics.PriceQuoteTotal.WithLabelValues(metrics.OutcomeFallback).Inc()
		return NoDiscount(productID)
	}

	if !price.DynamicPrice.Valid {
		logger.Debug().Msg("no dynamic price, falling back to base price")
		metrics.PriceQuoteTotal.WithLabelValues(metrics.OutcomeFallback).Inc()
		return NoDiscount(productID)
	}

	quote := QuoteFromResponse(price)
	quote.ProductID = productID
	metrics.PriceQuoteTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	logger.Debug().
		Str(log.KeyDynamicPrice, quote.DynamicPrice.Decimal.String()).
		Msg("got dynamic price")

	return quote
}
