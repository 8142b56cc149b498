package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/metrics"
	"github.com/Alturino/florist/internal/otel"
)

const keyPriceQuote = "%s:price:%s:%d"

// Memo shares resolved quotes between consumers for a short time. Quotes
// are keyed by product and by the time bucket the evaluation time falls
// in, so a bucket never serves a price computed for another bucket.
type Memo struct {
	next   Quoter
	cache  *redis.Client
	prefix string
	ttl    time.Duration
	bucket time.Duration
	now    func() time.Time
}

func NewMemo(
	next Quoter,
	cache *redis.Client,
	prefix string,
	ttl time.Duration,
	bucket time.Duration,
) *Memo {
	if bucket <= 0 {
		bucket = time.Minute
	}
	return &Memo{
		next:   next,
		cache:  cache,
		prefix: prefix,
		ttl:    ttl,
		bucket: bucket,
		now:    time.Now,
	}
}

func (m *Memo) key(productID uuid.UUID, at *time.Time) string {
	t := m.now()
	if at != nil {
		t = *at
	}
	return fmt.Sprintf(keyPriceQuote, m.prefix, productID, t.Truncate(m.bucket).Unix())
}

func (m *Memo) Quote(c context.Context, productID uuid.UUID, at *time.Time) Quote {
	c, span := otel.Tracer.Start(c, "pricing Memo Quote")
	defer span.End()

	cacheKey := m.key(productID, at)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "pricing Memo Quote").
		Str(log.KeyProcess, "getting quote from cache").
		Str(log.KeyProductID, productID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger.Debug().Msg("getting quote from cache")
	cached, err := m.cache.Get(c, cacheKey).Bytes()
	switch {
	case err == nil:
		quote := Quote{}
		if err := json.Unmarshal(cached, &quote); err == nil {
			metrics.PriceQuoteTotal.WithLabelValues(metrics.OutcomeCached).Inc()
			logger.Debug().Msg("got quote from cache")
			return quote
		}
		logger.Warn().Msg("ignoring malformed cached quote")
	case errors.Is(err, redis.Nil):
		logger.Debug().Msg("quote not in cache")
	default:
		err = fmt.Errorf("failed getting quote from cache with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}

	quote := m.next.Quote(logger.WithContext(c), productID, at)
	if !quote.Resolved() {
		return quote
	}

	logger = logger.With().Str(log.KeyProcess, "inserting quote to cache").Logger()
	logger.Debug().Msg("inserting quote to cache")
	payload, err := json.Marshal(quote)
	if err != nil {
		err = fmt.Errorf("failed marshaling quote with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return quote
	}
	if err := m.cache.Set(c, cacheKey, payload, m.ttl).Err(); err != nil {
		err = fmt.Errorf("failed inserting quote to cache with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return quote
	}
	logger.Debug().Msg("inserted quote to cache")

	return quote
}
