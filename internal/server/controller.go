package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/florist/internal/checkout"
	commonErrors "github.com/Alturino/florist/internal/common/errors"
	commonHttp "github.com/Alturino/florist/internal/common/http"
	"github.com/Alturino/florist/internal/log"
	"github.com/Alturino/florist/internal/otel"
)

const PathVnpayReturn = "/checkout/vnpay-return"

type Reconciler interface {
	Reconcile(c context.Context, query url.Values) (checkout.Result, error)
}

type CheckoutController struct {
	reconciler Reconciler
}

func AttachCheckoutController(mux *mux.Router, reconciler Reconciler) {
	controller := CheckoutController{reconciler: reconciler}

	mux.HandleFunc(PathVnpayReturn, controller.VnpayReturn).Methods(http.MethodGet)
}

func (t CheckoutController) VnpayReturn(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController VnpayReturn")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController VnpayReturn").
		Str(log.KeyProcess, "reconciling payment").
		Logger()

	logger.Info().Msg("reconciling payment")
	result, err := t.reconciler.Reconcile(logger.WithContext(c), r.URL.Query())
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, commonErrors.ErrMissingSessionID):
			statusCode = http.StatusBadRequest
		case errors.Is(err, commonErrors.ErrPendingOrderNotFound):
			statusCode = http.StatusNotFound
		}
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Str(log.KeyCheckoutStep, result.Outcome.String()).Msg("reconciled payment")

	if result.Outcome != checkout.StepSuccess {
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusPaymentRequired,
			"message":    "payment was not completed, please choose a payment method again",
			"data":       resultData(result),
		})
		return
	}

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "order placed",
		"data":       resultData(result),
	})
}

func resultData(result checkout.Result) map[string]interface{} {
	data := map[string]interface{}{
		"sessionId":    result.Session.ID,
		"outcome":      result.Outcome.String(),
		"step":         result.Session.Step.String(),
		"responseCode": result.ResponseCode,
	}
	if result.PendingOrder != nil {
		data["orderId"] = result.PendingOrder.OrderID
		data["paymentId"] = result.PendingOrder.PaymentID
		data["totalAmount"] = result.PendingOrder.TotalAmount
	}
	return data
}

func AttachHealthController(mux *mux.Router) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		commonHttp.WriteJsonResponse(r.Context(), w, map[string]string{}, map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    "ok",
		})
	}).Methods(http.MethodGet)
}
