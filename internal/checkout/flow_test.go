package checkout

import (
	"context"
	"errors"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/florist/internal/cart"
	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/config"
	"github.com/Alturino/florist/internal/storefront"
)

var errBackendDown = errors.New("backend down")

type fakeAPI struct {
	calls      []string
	orderErr   error
	paymentErr error
	paymentURL string
	order      storefront.CreateOrder
	payment    storefront.CreatePayment
	orderID    uuid.UUID
	paymentID  uuid.UUID
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		orderID:    uuid.New(),
		paymentID:  uuid.New(),
		paymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_TxnRef=1",
	}
}

func (f *fakeAPI) CreateAddress(c context.Context, param storefront.CreateAddress) (storefront.Address, error) {
	f.calls = append(f.calls, "address")
	return storefront.Address{ID: uuid.New()}, nil
}

func (f *fakeAPI) CreateOrder(c context.Context, param storefront.CreateOrder) (storefront.Order, error) {
	f.calls = append(f.calls, "order")
	f.order = param
	if f.orderErr != nil {
		return storefront.Order{}, f.orderErr
	}
	return storefront.Order{
		ID:            f.orderID,
		Sum:           decimal.NewFromInt(300000),
		PaymentMethod: param.PaymentMethod,
		Status:        param.Status,
	}, nil
}

func (f *fakeAPI) CreatePayment(c context.Context, param storefront.CreatePayment) (storefront.Payment, error) {
	f.calls = append(f.calls, "payment")
	f.payment = param
	if f.paymentErr != nil {
		return storefront.Payment{}, f.paymentErr
	}
	payment := storefront.Payment{PaymentID: f.paymentID}
	if param.Method == string(PaymentMethodVnpay) {
		payment.PaymentURL = f.paymentURL
	}
	return payment, nil
}

type fakeCart struct {
	snapshot  cart.Snapshot
	refreshed int
	onRefresh func(*fakeCart)
}

func (f *fakeCart) Refresh(c context.Context) cart.Snapshot {
	f.refreshed++
	if f.onRefresh != nil {
		f.onRefresh(f)
	}
	return f.snapshot
}

func (f *fakeCart) Snapshot() cart.Snapshot {
	return f.snapshot
}

type recordingNavigator struct {
	targets []string
}

func (n *recordingNavigator) Navigate(c context.Context, target string) error {
	n.targets = append(n.targets, target)
	return nil
}

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func filledCart() *fakeCart {
	cartID := uuid.New()
	return &fakeCart{snapshot: cart.Snapshot{
		CartID: cartID,
		Items: []cart.LineItem{{
			ID:        uuid.New(),
			CartID:    cartID,
			ProductID: uuid.New(),
			Name:      "Sunflower bouquet",
			BasePrice: decimal.NewFromInt(150000),
			Quantity:  2,
			Subtotal:  decimal.NewFromInt(300000),
		}},
		ItemCount: 2,
		Total:     decimal.NewFromInt(300000),
	}}
}

func testPaymentConfig() config.Payment {
	return config.Payment{
		ReturnURL:      "http://localhost:8080/checkout/vnpay-return",
		Language:       "vn",
		VnpayCurrency:  "VND",
		PaypalCurrency: "USD",
	}
}

func testAddress() Address {
	return Address{
		FullName:      "Lan Nguyen",
		PhoneNumber:   "0900000000",
		StreetAddress: "1 Hoa Lan",
		City:          "Hanoi",
	}
}

type flowFixture struct {
	api       *fakeAPI
	cart      *fakeCart
	store     *MemorySessionStore
	navigator *recordingNavigator
	flow      *Flow
}

func newFlowFixture(cart *fakeCart) flowFixture {
	fx := flowFixture{
		api:       newFakeAPI(),
		cart:      cart,
		store:     NewMemorySessionStore(),
		navigator: &recordingNavigator{},
	}
	fx.flow = NewFlow(fx.api, fx.cart, fx.store, fx.navigator, testPaymentConfig())
	return fx
}

func (fx flowFixture) atPayment(t *testing.T, method PaymentMethod, bankCode BankCode) *Session {
	c := testContext()
	s, err := fx.flow.Enter(c)
	require.NoError(t, err)
	require.NoError(t, fx.flow.SubmitShipping(c, s, testAddress()))
	require.NoError(t, fx.flow.SelectPayment(s, method, bankCode))
	return s
}

func TestFlowEnter(t *testing.T) {
	t.Run("given empty cart should navigate to catalog home", func(t *testing.T) {
		fx := newFlowFixture(&fakeCart{})

		s, err := fx.flow.Enter(testContext())
		assert.ErrorIs(t, err, commonErrors.ErrEmptyCart)
		assert.Nil(t, s)
		assert.Equal(t, []string{TargetCatalogHome}, fx.navigator.targets)
		assert.Equal(t, 1, fx.cart.refreshed)
	})

	t.Run("given filled cart should start at shipping details", func(t *testing.T) {
		fx := newFlowFixture(filledCart())

		s, err := fx.flow.Enter(testContext())
		require.NoError(t, err)
		assert.Equal(t, StepShippingDetails, s.Step)
		assert.NotEqual(t, uuid.Nil, s.ID)
		assert.Empty(t, fx.navigator.targets)
	})

	t.Run("given cart emptied mid checkout should navigate on next submit", func(t *testing.T) {
		fx := newFlowFixture(filledCart())
		s, err := fx.flow.Enter(testContext())
		require.NoError(t, err)

		fx.cart.snapshot = cart.Snapshot{}
		err = fx.flow.SubmitShipping(testContext(), s, testAddress())
		assert.ErrorIs(t, err, commonErrors.ErrEmptyCart)
		assert.Equal(t, []string{TargetCatalogHome}, fx.navigator.targets)
		assert.Equal(t, StepShippingDetails, s.Step)
	})
}

func TestFlowSubmitShipping(t *testing.T) {
	tests := []struct {
		name         string
		address      Address
		expectedErr  error
		expectedStep Step
	}{
		{
			name:         "given complete address should advance to payment",
			address:      testAddress(),
			expectedStep: StepPayment,
		},
		{
			name:         "given address without phone should stay at shipping details",
			address:      Address{FullName: "Lan Nguyen", StreetAddress: "1 Hoa Lan", City: "Hanoi"},
			expectedErr:  commonErrors.ErrIncompleteAddress,
			expectedStep: StepShippingDetails,
		},
		{
			name:         "given unformatted phone should still advance",
			address:      Address{FullName: "Lan", PhoneNumber: "call me", StreetAddress: "?", City: "Hue"},
			expectedStep: StepPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFlowFixture(filledCart())
			s, err := fx.flow.Enter(testContext())
			require.NoError(t, err)

			err = fx.flow.SubmitShipping(testContext(), s, tt.address)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedStep, s.Step)
			assert.Empty(t, fx.api.calls)
		})
	}
}

func TestFlowSubmitPayment(t *testing.T) {
	t.Run("given cash on delivery should not create payment", func(t *testing.T) {
		fx := newFlowFixture(filledCart())
		s := fx.atPayment(t, PaymentMethodCOD, BankCodeAny)

		require.NoError(t, fx.flow.SubmitPayment(testContext(), s))
		assert.Equal(t, []string{"address", "order"}, fx.api.calls)
		assert.Equal(t, "COD", fx.api.order.PaymentMethod)
		assert.Equal(t, "Pending", fx.api.order.Status)
		assert.Nil(t, fx.api.order.PaymentID)
		assert.Equal(t, fx.cart.snapshot.CartID, fx.api.order.CartID)
		assert.Equal(t, StepSuccess, s.Step)
		assert.Nil(t, s.Payment)
	})

	t.Run("given paypal should succeed right after payment is created", func(t *testing.T) {
		fx := newFlowFixture(filledCart())
		s := fx.atPayment(t, PaymentMethodPaypal, BankCodeAny)

		require.NoError(t, fx.flow.SubmitPayment(testContext(), s))
		assert.Equal(t, []string{"address", "order", "payment"}, fx.api.calls)
		assert.Equal(t, "USD", fx.api.payment.Currency)
		assert.Empty(t, fx.api.payment.ReturnURL)
		assert.True(t, decimal.NewFromInt(300000).Equal(fx.api.payment.Amount))
		assert.Equal(t, StepSuccess, s.Step)
		assert.Empty(t, fx.navigator.targets)
	})

	t.Run("given vnpay should persist pending order and navigate to provider", func(t *testing.T) {
		fx := newFlowFixture(filledCart())
		s := fx.atPayment(t, PaymentMethodVnpay, BankCodeVnbank)

		require.NoError(t, fx.flow.SubmitPayment(testContext(), s))
		assert.Equal(t, []string{"address", "order", "payment"}, fx.api.calls)
		assert.Equal(t, "VND", fx.api.payment.Currency)
		assert.Equal(t, "VNBANK", fx.api.payment.BankCode)
		assert.Equal(t, "vn", fx.api.payment.Language)

		returnURL, err := url.Parse(fx.api.payment.ReturnURL)
		require.NoError(t, err)
		assert.Equal(t, "/checkout/vnpay-return", returnURL.Path)
		assert.Equal(t, s.ID.String(), returnURL.Query().Get(QuerySessionID))

		assert.Equal(t, []string{fx.api.paymentURL}, fx.navigator.targets)
		assert.Equal(t, StepPayment, s.Step)

		pending, err := fx.store.Get(testContext(), s.ID)
		require.NoError(t, err)
		assert.Equal(t, fx.api.orderID, pending.OrderID)
		assert.Equal(t, fx.api.paymentID, pending.PaymentID)
		assert.Equal(t, testAddress(), pending.AddressData)
		assert.True(t, decimal.NewFromInt(300000).Equal(pending.TotalAmount))
		require.Len(t, pending.CartItems, 1)
		assert.Equal(t, "Sunflower bouquet", pending.CartItems[0].Name)
	})

	t.Run("given vnpay without redirect url should fail and persist nothing", func(t *testing.T) {
		fx := newFlowFixture(filledCart())
		fx.api.paymentURL = ""
		s := fx.atPayment(t, PaymentMethodVnpay, BankCodeAny)

		err := fx.flow.SubmitPayment(testContext(), s)
		assert.ErrorIs(t, err, commonErrors.ErrMissingPaymentURL)
		assert.Equal(t, StepPayment, s.Step)
		assert.Empty(t, fx.navigator.targets)

		_, err = fx.store.Get(testContext(), s.ID)
		assert.ErrorIs(t, err, commonErrors.ErrPendingOrderNotFound)
	})

	t.Run("given order failure should abort before payment", func(t *testing.T) {
		fx := newFlowFixture(filledCart())
		fx.api.orderErr = errBackendDown
		s := fx.atPayment(t, PaymentMethodPaypal, BankCodeAny)

		err := fx.flow.SubmitPayment(testContext(), s)
		assert.ErrorIs(t, err, errBackendDown)
		assert.Equal(t, []string{"address", "order"}, fx.api.calls)
		assert.Equal(t, StepPayment, s.Step)
	})

	t.Run("given payment failure should leave created order alone", func(t *testing.T) {
		fx := newFlowFixture(filledCart())
		fx.api.paymentErr = errBackendDown
		s := fx.atPayment(t, PaymentMethodVnpay, BankCodeAny)

		err := fx.flow.SubmitPayment(testContext(), s)
		assert.ErrorIs(t, err, errBackendDown)
		assert.Equal(t, []string{"address", "order", "payment"}, fx.api.calls)
		assert.Equal(t, StepPayment, s.Step)
		require.NotNil(t, s.Order)
		assert.Equal(t, fx.api.orderID, s.Order.ID)
	})

	t.Run("given shipping step should reject payment", func(t *testing.T) {
		fx := newFlowFixture(filledCart())
		s, err := fx.flow.Enter(testContext())
		require.NoError(t, err)

		err = fx.flow.SubmitPayment(testContext(), s)
		assert.ErrorIs(t, err, commonErrors.ErrInvalidCheckoutStep)
		assert.Empty(t, fx.api.calls)
	})
}

func TestFlowSelectPayment(t *testing.T) {
	fx := newFlowFixture(filledCart())
	s := fx.atPayment(t, PaymentMethodCOD, BankCodeAny)

	assert.ErrorIs(
		t,
		fx.flow.SelectPayment(s, PaymentMethod("BITCOIN"), BankCodeAny),
		commonErrors.ErrUnsupportedPaymentMethod,
	)
	assert.ErrorIs(
		t,
		fx.flow.SelectPayment(s, PaymentMethodVnpay, BankCode("ACB")),
		commonErrors.ErrUnsupportedBankCode,
	)
	assert.Equal(t, PaymentMethodCOD, s.Method)

	require.NoError(t, fx.flow.Back(s))
	assert.Equal(t, StepShippingDetails, s.Step)
	assert.ErrorIs(t, fx.flow.SelectPayment(s, PaymentMethodVnpay, BankCodeAny), commonErrors.ErrInvalidCheckoutStep)
}

func TestFlowReconcile(t *testing.T) {
	vnpayCheckout := func(t *testing.T) (flowFixture, *Session) {
		fx := newFlowFixture(filledCart())
		s := fx.atPayment(t, PaymentMethodVnpay, BankCodeAny)
		require.NoError(t, fx.flow.SubmitPayment(testContext(), s))
		fx.cart.onRefresh = func(f *fakeCart) { f.snapshot = cart.Snapshot{} }
		fx.cart.refreshed = 0
		return fx, s
	}

	t.Run("given success code should mark success refresh cart and delete pending order", func(t *testing.T) {
		fx, s := vnpayCheckout(t)

		result, err := fx.flow.Reconcile(testContext(), url.Values{
			QuerySessionID:    {s.ID.String()},
			QueryResponseCode: {"00"},
		})
		require.NoError(t, err)
		assert.Equal(t, StepSuccess, result.Outcome)
		assert.Equal(t, StepSuccess, result.Session.Step)
		require.NotNil(t, result.Session.Order)
		assert.Equal(t, fx.api.orderID, result.Session.Order.ID)
		assert.Equal(t, 1, fx.cart.refreshed)

		_, err = fx.store.Get(testContext(), s.ID)
		assert.ErrorIs(t, err, commonErrors.ErrPendingOrderNotFound)
	})

	t.Run("given other code should delete pending order and return to payment", func(t *testing.T) {
		fx, s := vnpayCheckout(t)

		result, err := fx.flow.Reconcile(testContext(), url.Values{
			QuerySessionID:    {s.ID.String()},
			QueryResponseCode: {"24"},
		})
		require.NoError(t, err)
		assert.Equal(t, StepFailure, result.Outcome)
		assert.Equal(t, StepPayment, result.Session.Step)
		assert.Nil(t, result.Session.Order)
		assert.Equal(t, testAddress(), result.Session.Address)
		assert.Equal(t, 0, fx.cart.refreshed)

		_, err = fx.store.Get(testContext(), s.ID)
		assert.ErrorIs(t, err, commonErrors.ErrPendingOrderNotFound)
	})

	t.Run("given success code without pending order should not mark success", func(t *testing.T) {
		fx := newFlowFixture(filledCart())

		result, err := fx.flow.Reconcile(testContext(), url.Values{
			QuerySessionID:    {uuid.NewString()},
			QueryResponseCode: {"00"},
		})
		assert.ErrorIs(t, err, commonErrors.ErrPendingOrderNotFound)
		assert.Equal(t, StepFailure, result.Outcome)
		assert.Equal(t, StepPayment, result.Session.Step)
		assert.Equal(t, 0, fx.cart.refreshed)
	})

	t.Run("given missing session id should fail", func(t *testing.T) {
		fx := newFlowFixture(filledCart())

		_, err := fx.flow.Reconcile(testContext(), url.Values{QueryResponseCode: {"00"}})
		assert.ErrorIs(t, err, commonErrors.ErrMissingSessionID)
	})
}

func TestFlowAbandon(t *testing.T) {
	fx := newFlowFixture(filledCart())
	s := fx.atPayment(t, PaymentMethodVnpay, BankCodeAny)
	require.NoError(t, fx.flow.SubmitPayment(testContext(), s))

	require.NoError(t, fx.flow.Abandon(testContext(), s.ID))
	_, err := fx.store.Get(testContext(), s.ID)
	assert.ErrorIs(t, err, commonErrors.ErrPendingOrderNotFound)

	assert.NoError(t, fx.flow.Abandon(testContext(), uuid.New()))
}
