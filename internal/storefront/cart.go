package storefront

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/otel"
)

const (
	pathCart      = "/api/cart"
	pathCartCount = "/api/cart/count"
	pathCartItems = "/api/cart/items"
)

func (cl *Client) GetCart(c context.Context) (Cart, error) {
	c, span := otel.Tracer.Start(c, "storefront Client GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client GetCart").
		Str(log.KeyProcess, "getting cart").
		Logger()

	logger.Info().Msg("getting cart")
	cart := Cart{}
	if err := cl.do(logger.WithContext(c), http.MethodGet, pathCart, nil, nil, &cart); err != nil {
		err = fmt.Errorf("failed getting cart with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Cart{}, err
	}
	logger.Info().
		Str(log.KeyCartID, cart.ID.String()).
		Int(log.KeyCartItemCount, cart.TotalItems).
		Msg("got cart")

	return cart, nil
}

func (cl *Client) CountCartItems(c context.Context) (int, error) {
	c, span := otel.Tracer.Start(c, "storefront Client CountCartItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client CountCartItems").
		Str(log.KeyProcess, "counting cart items").
		Logger()

	logger.Info().Msg("counting cart items")
	count := CartCount{}
	if err := cl.do(logger.WithContext(c), http.MethodGet, pathCartCount, nil, nil, &count); err != nil {
		err = fmt.Errorf("failed counting cart items with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return 0, err
	}
	logger.Info().Int(log.KeyCartItemCount, count.Count).Msg("counted cart items")

	return count.Count, nil
}

func (cl *Client) AddCartItem(c context.Context, param AddCartItem) error {
	c, span := otel.Tracer.Start(c, "storefront Client AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client AddCartItem").
		Str(log.KeyProcess, "adding cart item").
		Str(log.KeyProductID, param.ProductID.String()).
		Int(log.KeyCartItemQuantity, param.Quantity).
		Logger()

	logger.Info().Msg("adding cart item")
	if err := cl.do(logger.WithContext(c), http.MethodPost, pathCartItems, nil, param, nil); err != nil {
		err = fmt.Errorf("failed adding productId=%s with error=%w", param.ProductID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("added cart item")

	return nil
}

func (cl *Client) UpdateCartItem(c context.Context, param UpdateCartItem) error {
	c, span := otel.Tracer.Start(c, "storefront Client UpdateCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client UpdateCartItem").
		Str(log.KeyProcess, "updating cart item").
		Str(log.KeyCartItemID, param.CartItemID.String()).
		Int(log.KeyCartItemQuantity, param.Quantity).
		Logger()

	logger.Info().Msg("updating cart item")
	path := pathCartItems + "/" + param.CartItemID.String()
	if err := cl.do(logger.WithContext(c), http.MethodPut, path, nil, param, nil); err != nil {
		err = fmt.Errorf("failed updating cartItemId=%s with error=%w", param.CartItemID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("updated cart item")

	return nil
}

func (cl *Client) RemoveCartItem(c context.Context, cartItemID uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "storefront Client RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client RemoveCartItem").
		Str(log.KeyProcess, "removing cart item").
		Str(log.KeyCartItemID, cartItemID.String()).
		Logger()

	logger.Info().Msg("removing cart item")
	path := pathCartItems + "/" + cartItemID.String()
	if err := cl.do(logger.WithContext(c), http.MethodDelete, path, nil, nil, nil); err != nil {
		err = fmt.Errorf("failed removing cartItemId=%s with error=%w", cartItemID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("removed cart item")

	return nil
}
