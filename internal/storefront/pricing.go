package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/otel"
)

// GetDynamicPrice asks the backend for the price of productID at requestTime,
// or at the backend's current time when requestTime is nil.
func (cl *Client) GetDynamicPrice(
	c context.Context,
	productID uuid.UUID,
	requestTime *time.Time,
) (DynamicPrice, error) {
	c, span := otel.Tracer.Start(c, "storefront Client GetDynamicPrice")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client GetDynamicPrice").
		Str(log.KeyProcess, "getting dynamic price").
		Str(log.KeyProductID, productID.String()).
		Logger()

	query := url.Values{}
	if requestTime != nil {
		query.Set("requestTime", requestTime.UTC().Format(time.RFC3339))
		logger = logger.With().Time(log.KeyPriceRequestTime, *requestTime).Logger()
	}

	logger.Debug().Msg("getting dynamic price")
	price := DynamicPrice{}
	path := fmt.Sprintf("/api/pricing/products/%s/dynamic-price", productID)
	if err := cl.do(logger.WithContext(c), http.MethodGet, path, query, nil, &price); err != nil {
		err = fmt.Errorf("failed getting dynamic price of productId=%s with error=%w", productID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return DynamicPrice{}, err
	}
	logger.Debug().Str(log.KeyDynamicPrice, price.DynamicPrice.Decimal.String()).Msg("got dynamic price")

	return price, nil
}
