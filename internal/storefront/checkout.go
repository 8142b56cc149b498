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
	pathAddresses = "/api/addresses"
	pathOrders    = "/api/orders"
	pathPayments  = "/api/payments"
)

func (cl *Client) CreateAddress(c context.Context, param CreateAddress) (Address, error) {
	c, span := otel.Tracer.Start(c, "storefront Client CreateAddress")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client CreateAddress").
		Str(log.KeyProcess, "creating address").
		Logger()

	logger.Info().Msg("creating address")
	address := Address{}
	if err := cl.do(logger.WithContext(c), http.MethodPost, pathAddresses, nil, param, &address); err != nil {
		err = fmt.Errorf("failed creating address with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Address{}, err
	}
	logger.Info().Str(log.KeyAddressID, address.ID.String()).Msg("created address")

	return address, nil
}

func (cl *Client) CreateOrder(c context.Context, param CreateOrder) (Order, error) {
	c, span := otel.Tracer.Start(c, "storefront Client CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client CreateOrder").
		Str(log.KeyProcess, "creating order").
		Str(log.KeyCartID, param.CartID.String()).
		Str(log.KeyAddressID, param.AddressID.String()).
		Str(log.KeyPaymentMethod, param.PaymentMethod).
		Logger()

	logger.Info().Msg("creating order")
	order := Order{}
	if err := cl.do(logger.WithContext(c), http.MethodPost, pathOrders, nil, param, &order); err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Order{}, err
	}
	logger.Info().
		Str(log.KeyOrderID, order.ID.String()).
		Str(log.KeyOrderSum, order.Sum.String()).
		Msg("created order")

	return order, nil
}

func (cl *Client) CreatePayment(c context.Context, param CreatePayment) (Payment, error) {
	c, span := otel.Tracer.Start(c, "storefront Client CreatePayment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client CreatePayment").
		Str(log.KeyProcess, "creating payment").
		Str(log.KeyOrderID, param.OrderID.String()).
		Str(log.KeyPaymentMethod, param.Method).
		Str(log.KeyBankCode, param.BankCode).
		Logger()

	logger.Info().Msg("creating payment")
	payment := Payment{}
	if err := cl.do(logger.WithContext(c), http.MethodPost, pathPayments, nil, param, &payment); err != nil {
		err = fmt.Errorf("failed creating payment for orderId=%s with error=%w", param.OrderID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Payment{}, err
	}
	logger.Info().Str(log.KeyPaymentID, payment.PaymentID.String()).Msg("created payment")

	return payment, nil
}

func (cl *Client) GetPaymentStatus(c context.Context, paymentID uuid.UUID) (PaymentStatus, error) {
	c, span := otel.Tracer.Start(c, "storefront Client GetPaymentStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "storefront Client GetPaymentStatus").
		Str(log.KeyProcess, "getting payment status").
		Str(log.KeyPaymentID, paymentID.String()).
		Logger()

	logger.Info().Msg("getting payment status")
	status := PaymentStatus{}
	path := pathPayments + "/" + paymentID.String()
	if err := cl.do(logger.WithContext(c), http.MethodGet, path, nil, nil, &status); err != nil {
		err = fmt.Errorf("failed getting status of paymentId=%s with error=%w", paymentID, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return PaymentStatus{}, err
	}
	logger.Info().Str("paymentStatus", status.Status).Msg("got payment status")

	return status, nil
}
