package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/florist/internal/cart"
	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/common/validate"
	"github.com/Alturino/florist/internal/config"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/metrics"
	"github.com/Alturino/florist/internal/otel"
	"github.com/Alturino/florist/internal/storefront"
)

const (
	QuerySessionID      = "sid"
	QueryResponseCode   = "vnp_ResponseCode"
	ResponseCodeSuccess = "00"
)

type API interface {
	CreateAddress(c context.Context, param storefront.CreateAddress) (storefront.Address, error)
	CreateOrder(c context.Context, param storefront.CreateOrder) (storefront.Order, error)
	CreatePayment(c context.Context, param storefront.CreatePayment) (storefront.Payment, error)
}

type Cart interface {
	Refresh(c context.Context) cart.Snapshot
	Snapshot() cart.Snapshot
}

// Flow drives a Session from shipping details to a placed order. A failed
// step leaves the session where it was; orders already created by the
// backend are not cancelled.
type Flow struct {
	api       API
	cart      Cart
	store     SessionStore
	navigator Navigator
	cfg       config.Payment
	validate  *validator.Validate
}

func NewFlow(
	api API,
	cart Cart,
	store SessionStore,
	navigator Navigator,
	cfg config.Payment,
) *Flow {
	return &Flow{
		api:       api,
		cart:      cart,
		store:     store,
		navigator: navigator,
		cfg:       cfg,
		validate:  validate.New(),
	}
}

// Enter refreshes the cart and starts a new session. An empty cart sends
// the customer back to the catalog.
func (f *Flow) Enter(c context.Context) (*Session, error) {
	c, span := otel.Tracer.Start(c, "checkout Flow Enter")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Flow Enter").
		Str(log.KeyProcess, "refreshing cart").
		Logger()

	logger.Info().Msg("refreshing cart")
	f.cart.Refresh(logger.WithContext(c))
	logger.Info().Msg("refreshed cart")

	if err := f.guard(logger.WithContext(c), span); err != nil {
		return nil, err
	}

	s := NewSession()
	logger.Info().
		Str(log.KeySessionID, s.ID.String()).
		Str(log.KeyCheckoutStep, s.Step.String()).
		Msg("entered checkout")
	return s, nil
}

func (f *Flow) guard(c context.Context, span trace.Span) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Flow guard").
		Str(log.KeyProcess, "checking cart").
		Logger()

	if !f.cart.Snapshot().IsEmpty() {
		return nil
	}

	err := fmt.Errorf("failed entering checkout with error=%w", commonErrors.ErrEmptyCart)
	commonErrors.HandleError(err, span)
	logger.Warn().Err(err).Msg(err.Error())

	logger = logger.With().
		Str(log.KeyProcess, "navigating to catalog").
		Str(log.KeyNavigationTarget, TargetCatalogHome).
		Logger()
	logger.Info().Msg("navigating to catalog")
	if navErr := f.navigator.Navigate(logger.WithContext(c), TargetCatalogHome); navErr != nil {
		navErr = fmt.Errorf("failed navigating to catalog with error=%w", navErr)
		logger.Error().Err(navErr).Msg(navErr.Error())
		return errors.Join(err, navErr)
	}
	logger.Info().Msg("navigated to catalog")

	return err
}

func (f *Flow) expectStep(s *Session, step Step) error {
	if s.Step != step {
		return fmt.Errorf(
			"expected step=%s got step=%s: %w",
			step,
			s.Step,
			commonErrors.ErrInvalidCheckoutStep,
		)
	}
	return nil
}

func (f *Flow) SubmitShipping(c context.Context, s *Session, address Address) error {
	c, span := otel.Tracer.Start(c, "checkout Flow SubmitShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Flow SubmitShipping").
		Str(log.KeyProcess, "validating address").
		Str(log.KeySessionID, s.ID.String()).
		Logger()

	if err := f.guard(logger.WithContext(c), span); err != nil {
		return err
	}
	if err := f.expectStep(s, StepShippingDetails); err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Debug().Msg("validating address")
	if err := f.validate.StructCtx(c, address); err != nil {
		err = fmt.Errorf(
			"failed validating address with error=%w",
			errors.Join(commonErrors.ErrIncompleteAddress, err),
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Debug().Msg("validated address")

	s.Address = address
	s.Step = StepPayment
	logger.Info().Str(log.KeyCheckoutStep, s.Step.String()).Msg("submitted shipping details")

	return nil
}

func (f *Flow) SelectPayment(s *Session, method PaymentMethod, bankCode BankCode) error {
	if err := f.expectStep(s, StepPayment); err != nil {
		return err
	}
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return err
	}
	if _, err := ParseBankCode(string(bankCode)); err != nil {
		return err
	}
	s.Method = method
	s.BankCode = bankCode
	return nil
}

// Back returns from the payment step to the shipping details.
func (f *Flow) Back(s *Session) error {
	if err := f.expectStep(s, StepPayment); err != nil {
		return err
	}
	s.Step = StepShippingDetails
	return nil
}

// SubmitPayment places the order. Cash on delivery and PayPal end in
// StepSuccess; PayPal does not wait for the provider to confirm. VNPay
// persists the session, hands the customer to the provider and stays at
// StepPayment until Reconcile.
func (f *Flow) SubmitPayment(c context.Context, s *Session) error {
	c, span := otel.Tracer.Start(c, "checkout Flow SubmitPayment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Flow SubmitPayment").
		Str(log.KeySessionID, s.ID.String()).
		Str(log.KeyPaymentMethod, string(s.Method)).
		Logger()

	if err := f.guard(logger.WithContext(c), span); err != nil {
		return err
	}
	if err := f.expectStep(s, StepPayment); err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if _, err := ParsePaymentMethod(string(s.Method)); err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	err := f.submitPayment(logger.WithContext(c), s)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		metrics.CheckoutTotal.WithLabelValues(string(s.Method), metrics.OutcomeFailed).Inc()
		return err
	}

	if s.Step == StepSuccess {
		metrics.CheckoutTotal.WithLabelValues(string(s.Method), metrics.OutcomeSuccess).Inc()
	} else {
		metrics.CheckoutTotal.WithLabelValues(string(s.Method), metrics.OutcomePending).Inc()
	}
	logger.Info().Str(log.KeyCheckoutStep, s.Step.String()).Msg("submitted payment")

	return nil
}

func (f *Flow) submitPayment(c context.Context, s *Session) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Flow submitPayment").
		Logger()

	snapshot := f.cart.Snapshot()

	logger = logger.With().Str(log.KeyProcess, "creating address").Logger()
	logger.Info().Msg("creating address")
	address, err := f.api.CreateAddress(logger.WithContext(c), s.Address.toRequest())
	if err != nil {
		return fmt.Errorf("failed creating address with error=%w", err)
	}
	logger = logger.With().Str(log.KeyAddressID, address.ID.String()).Logger()
	logger.Info().Msg("created address")

	logger = logger.With().Str(log.KeyProcess, "creating order").Logger()
	logger.Info().Msg("creating order")
	order, err := f.api.CreateOrder(logger.WithContext(c), storefront.CreateOrder{
		CartID:        snapshot.CartID,
		AddressID:     address.ID,
		PaymentMethod: string(s.Method),
		Status:        orderStatusPending,
	})
	if err != nil {
		return fmt.Errorf("failed creating order with error=%w", err)
	}
	s.Order = &order
	logger = logger.With().
		Str(log.KeyOrderID, order.ID.String()).
		Str(log.KeyOrderSum, order.Sum.String()).
		Logger()
	logger.Info().Msg("created order")

	if s.Method == PaymentMethodCOD {
		s.Step = StepSuccess
		return nil
	}

	param := storefront.CreatePayment{
		OrderID:  order.ID,
		Amount:   order.Sum,
		Method:   string(s.Method),
		Currency: f.cfg.PaypalCurrency,
		Language: f.cfg.Language,
	}
	if s.Method == PaymentMethodVnpay {
		returnURL, err := f.returnURL(s.ID)
		if err != nil {
			return err
		}
		param.Currency = f.cfg.VnpayCurrency
		param.BankCode = string(s.BankCode)
		param.ReturnURL = returnURL
	}

	logger = logger.With().Str(log.KeyProcess, "creating payment").Logger()
	logger.Info().Msg("creating payment")
	payment, err := f.api.CreatePayment(logger.WithContext(c), param)
	if err != nil {
		return fmt.Errorf("failed creating payment with error=%w", err)
	}
	s.Payment = &payment
	logger = logger.With().Str(log.KeyPaymentID, payment.PaymentID.String()).Logger()
	logger.Info().Msg("created payment")

	if s.Method == PaymentMethodPaypal {
		s.Step = StepSuccess
		return nil
	}

	if payment.PaymentURL == "" {
		return fmt.Errorf("failed redirecting to provider with error=%w", commonErrors.ErrMissingPaymentURL)
	}

	logger = logger.With().Str(log.KeyProcess, "saving pending order").Logger()
	logger.Info().Msg("saving pending order")
	pending := PendingOrder{
		OrderID:     order.ID,
		PaymentID:   payment.PaymentID,
		CartItems:   snapshot.Items,
		TotalAmount: order.Sum,
		AddressData: s.Address,
	}
	if err := f.store.Save(logger.WithContext(c), s.ID, pending); err != nil {
		return fmt.Errorf("failed saving pending order with error=%w", err)
	}
	logger.Info().Msg("saved pending order")

	logger = logger.With().
		Str(log.KeyProcess, "navigating to payment provider").
		Str(log.KeyPaymentURL, payment.PaymentURL).
		Logger()
	logger.Info().Msg("navigating to payment provider")
	if err := f.navigator.Navigate(logger.WithContext(c), payment.PaymentURL); err != nil {
		return fmt.Errorf("failed navigating to payment provider with error=%w", err)
	}
	logger.Info().Msg("navigated to payment provider")

	return nil
}

func (f *Flow) returnURL(sessionID uuid.UUID) (string, error) {
	u, err := url.Parse(f.cfg.ReturnURL)
	if err != nil {
		return "", fmt.Errorf("failed parsing returnUrl=%s with error=%w", f.cfg.ReturnURL, err)
	}
	q := u.Query()
	q.Set(QuerySessionID, sessionID.String())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Reconcile handles the customer coming back from VNPay. Only the response
// code is read; the provider's signature is not checked, so the outcome is
// a hint for the customer and not proof of payment.
func (f *Flow) Reconcile(c context.Context, query url.Values) (Result, error) {
	c, span := otel.Tracer.Start(c, "checkout Flow Reconcile")
	defer span.End()

	code := query.Get(QueryResponseCode)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Flow Reconcile").
		Str(log.KeyProcess, "parsing session id").
		Str(log.KeyResponseCode, code).
		Logger()

	sessionID, err := uuid.Parse(query.Get(QuerySessionID))
	if err != nil {
		err = fmt.Errorf(
			"failed parsing sid=%s with error=%w",
			query.Get(QuerySessionID),
			errors.Join(commonErrors.ErrMissingSessionID, err),
		)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		metrics.ReconcileTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return Result{}, err
	}
	logger = logger.With().Str(log.KeySessionID, sessionID.String()).Logger()
	c = logger.WithContext(c)

	s := &Session{ID: sessionID, Step: StepPayment, Method: PaymentMethodVnpay}
	if code != ResponseCodeSuccess {
		return f.decline(c, s, code), nil
	}

	logger = logger.With().Str(log.KeyProcess, "getting pending order").Logger()
	logger.Info().Msg("getting pending order")
	pending, err := f.store.Get(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed getting pending order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		metrics.ReconcileTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return Result{Outcome: StepFailure, ResponseCode: code, Session: s}, err
	}
	logger.Info().Str(log.KeyOrderID, pending.OrderID.String()).Msg("got pending order")

	logger = logger.With().Str(log.KeyProcess, "refreshing cart").Logger()
	logger.Info().Msg("refreshing cart")
	snapshot := f.cart.Refresh(c)
	logger.Info().Int(log.KeyCartItemCount, snapshot.ItemCount).Msg("refreshed cart")

	s.Address = pending.AddressData
	s.Order = &storefront.Order{
		ID:            pending.OrderID,
		Sum:           pending.TotalAmount,
		PaymentMethod: string(PaymentMethodVnpay),
		Status:        orderStatusPending,
	}
	s.Payment = &storefront.Payment{PaymentID: pending.PaymentID}
	s.Step = StepSuccess

	logger = logger.With().Str(log.KeyProcess, "deleting pending order").Logger()
	logger.Info().Msg("deleting pending order")
	if err := f.store.Delete(c, sessionID); err != nil {
		err = fmt.Errorf("failed deleting pending order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("deleted pending order")
	}

	metrics.ReconcileTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logger.Info().Str(log.KeyCheckoutStep, s.Step.String()).Msg("reconciled payment")

	return Result{Outcome: StepSuccess, ResponseCode: code, Session: s, PendingOrder: &pending}, nil
}

func (f *Flow) decline(c context.Context, s *Session, code string) Result {
	c, span := otel.Tracer.Start(c, "checkout Flow decline")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Flow decline").
		Str(log.KeyProcess, "getting pending order").
		Logger()

	result := Result{Outcome: StepFailure, ResponseCode: code, Session: s}
	pending, err := f.store.Get(c, s.ID)
	if err == nil {
		s.Address = pending.AddressData
		result.PendingOrder = &pending
	}

	logger = logger.With().Str(log.KeyProcess, "deleting pending order").Logger()
	logger.Info().Msg("deleting pending order")
	if err := f.store.Delete(c, s.ID); err != nil {
		err = fmt.Errorf("failed deleting pending order with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Info().Msg("deleted pending order")
	}

	metrics.ReconcileTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	logger.Info().Str(log.KeyCheckoutStep, s.Step.String()).Msg("payment declined")

	return result
}

// Abandon drops whatever the session left in the store.
func (f *Flow) Abandon(c context.Context, sessionID uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "checkout Flow Abandon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Flow Abandon").
		Str(log.KeyProcess, "deleting pending order").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	logger.Info().Msg("deleting pending order")
	if err := f.store.Delete(logger.WithContext(c), sessionID); err != nil {
		err = fmt.Errorf("failed abandoning checkout with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("abandoned checkout")

	return nil
}
