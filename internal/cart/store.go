package cart

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/common/validate"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/metrics"
	"github.com/Alturino/florist/internal/otel"
	"github.com/Alturino/florist/internal/pricing"
	"github.com/Alturino/florist/internal/storefront"
)

const (
	operationAdd    = "add"
	operationUpdate = "update"
	operationRemove = "remove"
)

type API interface {
	GetCart(c context.Context) (storefront.Cart, error)
	CountCartItems(c context.Context) (int, error)
	AddCartItem(c context.Context, param storefront.AddCartItem) error
	UpdateCartItem(c context.Context, param storefront.UpdateCartItem) error
	RemoveCartItem(c context.Context, cartItemID uuid.UUID) error
}

// Store holds what is in the cart right now. Every mutation is followed by
// a full refresh. Overlapping calls are not serialized: whichever refresh
// answer lands last is what the store shows.
type Store struct {
	api      API
	quoter   pricing.Quoter
	validate *validator.Validate

	mu       sync.RWMutex
	snapshot Snapshot
	inFlight atomic.Int32
}

func NewStore(api API, quoter pricing.Quoter) *Store {
	return &Store{api: api, quoter: quoter, validate: validate.New()}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.clone()
}

// Loading reports whether a mutation is running.
func (s *Store) Loading() bool {
	return s.inFlight.Load() > 0
}

func (s *Store) begin() func() {
	s.inFlight.Add(1)
	return func() { s.inFlight.Add(-1) }
}

// Refresh replaces the cart with the backend's and attaches a dynamic price
// to every line item. It never fails: when the cart cannot be fetched only
// the item count is refreshed and the items are left as they were.
func (s *Store) Refresh(c context.Context) Snapshot {
	c, span := otel.Tracer.Start(c, "cart Store Refresh")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cart Store Refresh").
		Str(log.KeyProcess, "getting cart").
		Logger()

	logger.Info().Msg("getting cart")
	cart, err := s.api.GetCart(logger.WithContext(c))
	if err != nil {
		err = fmt.Errorf("failed getting cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.refreshCount(logger.WithContext(c))
		return s.Snapshot()
	}
	logger = logger.With().
		Str(log.KeyCartID, cart.ID.String()).
		Int(log.KeyCartItemCount, cart.TotalItems).
		Logger()
	logger.Info().Msg("got cart")

	logger = logger.With().Str(log.KeyProcess, "quoting line items").Logger()
	logger.Debug().Msg("quoting line items")
	items := make([]LineItem, len(cart.Items))
	var wg sync.WaitGroup
	for i, item := range cart.Items {
		items[i] = lineItemFromResponse(item)
		wg.Add(1)
		go func() {
			defer wg.Done()
			quote := s.quoter.Quote(logger.WithContext(c), items[i].ProductID, nil)
			if !quote.Resolved() {
				return
			}
			items[i].DynamicPrice = quote.DynamicPrice
			items[i].Quote = &quote
		}()
	}
	wg.Wait()
	logger.Debug().Msg("quoted line items")

	snapshot := Snapshot{
		CartID:    cart.ID,
		Items:     items,
		ItemCount: cart.TotalItems,
		Total:     cart.TotalAmount,
	}
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	metrics.CartRefreshTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	logger.Info().Str(log.KeyCartTotal, snapshot.Total.String()).Msg("refreshed cart")

	return snapshot.clone()
}

func (s *Store) refreshCount(c context.Context) {
	c, span := otel.Tracer.Start(c, "cart Store refreshCount")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cart Store refreshCount").
		Str(log.KeyProcess, "counting cart items").
		Logger()

	logger.Info().Msg("counting cart items")
	count, err := s.api.CountCartItems(logger.WithContext(c))
	if err != nil {
		err = fmt.Errorf("failed counting cart items with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		metrics.CartRefreshTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return
	}

	s.mu.Lock()
	s.snapshot.ItemCount = count
	s.mu.Unlock()
	metrics.CartRefreshTotal.WithLabelValues(metrics.OutcomeDegraded).Inc()
	logger.Info().Int(log.KeyCartItemCount, count).Msg("counted cart items")
}

// AddItem adds quantity of productID and refreshes the cart. It reports
// success only; the cause of a failure is logged.
func (s *Store) AddItem(c context.Context, productID uuid.UUID, quantity int) bool {
	defer s.begin()()

	c, span := otel.Tracer.Start(c, "cart Store AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cart Store AddItem").
		Str(log.KeyProcess, "validating cart item").
		Str(log.KeyProductID, productID.String()).
		Int(log.KeyCartItemQuantity, quantity).
		Logger()

	param := storefront.AddCartItem{ProductID: productID, Quantity: quantity}
	if err := s.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating cart item with error=%w", commonErrors.ErrInvalidQuantity)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		metrics.CartMutationTotal.WithLabelValues(operationAdd, metrics.OutcomeFailed).Inc()
		return false
	}

	logger = logger.With().Str(log.KeyProcess, "adding cart item").Logger()
	logger.Info().Msg("adding cart item")
	err := s.api.AddCartItem(logger.WithContext(c), param)
	if err != nil {
		err = fmt.Errorf("failed adding cart item with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("added cart item")
	}

	s.Refresh(logger.WithContext(c))
	return s.record(operationAdd, err)
}

// UpdateItem sets the quantity of a line item. Zero removes the item; the
// update endpoint never receives a zero quantity.
func (s *Store) UpdateItem(c context.Context, lineItemID uuid.UUID, quantity int) bool {
	if quantity == 0 {
		return s.RemoveItem(c, lineItemID)
	}

	defer s.begin()()

	c, span := otel.Tracer.Start(c, "cart Store UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cart Store UpdateItem").
		Str(log.KeyProcess, "validating cart item").
		Str(log.KeyCartItemID, lineItemID.String()).
		Int(log.KeyCartItemQuantity, quantity).
		Logger()

	param := storefront.UpdateCartItem{CartItemID: lineItemID, Quantity: quantity}
	if err := s.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating cart item with error=%w", commonErrors.ErrInvalidQuantity)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		metrics.CartMutationTotal.WithLabelValues(operationUpdate, metrics.OutcomeFailed).Inc()
		return false
	}

	logger = logger.With().Str(log.KeyProcess, "updating cart item").Logger()
	logger.Info().Msg("updating cart item")
	err := s.api.UpdateCartItem(logger.WithContext(c), param)
	if err != nil {
		err = fmt.Errorf("failed updating cart item with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("updated cart item")
	}

	s.Refresh(logger.WithContext(c))
	return s.record(operationUpdate, err)
}

func (s *Store) RemoveItem(c context.Context, lineItemID uuid.UUID) bool {
	defer s.begin()()

	c, span := otel.Tracer.Start(c, "cart Store RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cart Store RemoveItem").
		Str(log.KeyProcess, "removing cart item").
		Str(log.KeyCartItemID, lineItemID.String()).
		Logger()

	logger.Info().Msg("removing cart item")
	err := s.api.RemoveCartItem(logger.WithContext(c), lineItemID)
	if err != nil {
		err = fmt.Errorf("failed removing cart item with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("removed cart item")
	}

	s.Refresh(logger.WithContext(c))
	return s.record(operationRemove, err)
}

func (s *Store) record(operation string, err error) bool {
	if err != nil {
		metrics.CartMutationTotal.WithLabelValues(operation, metrics.OutcomeFailed).Inc()
		return false
	}
	metrics.CartMutationTotal.WithLabelValues(operation, metrics.OutcomeOK).Inc()
	return true
}
