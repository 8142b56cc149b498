package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/Alturino/florist/internal/common/errors"
	"github.com/Alturino/florist/internal/config"
)

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.Api{BaseURL: server.URL, Token: token})
	require.NoError(t, err)
	return client
}

func TestGetCart(t *testing.T) {
	cartID := uuid.New()
	itemID := uuid.New()
	productID := uuid.New()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/cart", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"id":          cartID,
			"totalItems":  2,
			"totalAmount": 30,
			"items": []map[string]any{
				{
					"id":           itemID,
					"cartId":       cartID,
					"productId":    productID,
					"productName":  "Red roses",
					"price":        "20",
					"dynamicPrice": nil,
					"quantity":     2,
					"subtotal":     30,
				},
			},
		})
	}), "")

	cart, err := client.GetCart(testContext())
	require.NoError(t, err)
	assert.Equal(t, cartID, cart.ID)
	assert.Equal(t, 2, cart.TotalItems)
	assert.True(t, decimal.NewFromInt(30).Equal(cart.TotalAmount))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, itemID, cart.Items[0].ID)
	assert.Equal(t, productID, cart.Items[0].ProductID)
	assert.False(t, cart.Items[0].DynamicPrice.Valid)
	assert.True(t, decimal.NewFromInt(30).Equal(cart.Items[0].Subtotal))
}

func TestDoMapsStatusToError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cart not found", http.StatusNotFound)
	}), "")

	_, err := client.GetCart(testContext())
	require.Error(t, err)
	assert.ErrorIs(t, err, commonErrors.ErrUnexpectedStatus)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "cart not found", apiErr.Message)
}

func TestDoSendsBearerToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "7"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	productID := uuid.New()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart/items", r.URL.Path)

		body := AddCartItem{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, productID, body.ProductID)
		assert.Equal(t, 3, body.Quantity)
		w.WriteHeader(http.StatusCreated)
	}), token)

	assert.Equal(t, "7", client.Identity().UserID)
	err = client.AddCartItem(testContext(), AddCartItem{ProductID: productID, Quantity: 3})
	assert.NoError(t, err)
}

func TestGetDynamicPrice(t *testing.T) {
	productID := uuid.New()
	requestTime := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pricing/products/"+productID.String()+"/dynamic-price", r.URL.Path)
		assert.Equal(t, "2026-02-14T09:00:00Z", r.URL.Query().Get("requestTime"))
		json.NewEncoder(w).Encode(map[string]any{
			"productId":          productID,
			"basePrice":          20,
			"dynamicPrice":       15,
			"discount":           5,
			"discountPercentage": 25,
			"hasDiscount":        true,
			"hasSurcharge":       false,
			"appliedRule":        "valentine",
			"calculatedAt":       requestTime,
		})
	}), "")

	price, err := client.GetDynamicPrice(testContext(), productID, &requestTime)
	require.NoError(t, err)
	require.True(t, price.DynamicPrice.Valid)
	assert.True(t, decimal.NewFromInt(15).Equal(price.DynamicPrice.Decimal))
	assert.True(t, price.HasDiscount)
	assert.Equal(t, "valentine", price.AppliedRule)
}

func TestCheckoutEndpoints(t *testing.T) {
	addressID := uuid.New()
	orderID := uuid.New()
	paymentID := uuid.New()
	cartID := uuid.New()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/addresses", func(w http.ResponseWriter, r *http.Request) {
		body := CreateAddress{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Lan Nguyen", body.FullName)
		json.NewEncoder(w).Encode(Address{ID: addressID})
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "COD", body["paymentMethod"])
		assert.NotContains(t, body, "paymentId")
		json.NewEncoder(w).Encode(Order{ID: orderID, Sum: decimal.NewFromInt(150000), PaymentMethod: "COD"})
	})
	mux.HandleFunc("/api/payments/"+paymentID.String(), func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(PaymentStatus{PaymentID: paymentID, Status: "Completed"})
	})
	client := newTestClient(t, mux, "")
	c := testContext()

	address, err := client.CreateAddress(c, CreateAddress{
		FullName:      "Lan Nguyen",
		PhoneNumber:   "0900000000",
		StreetAddress: "1 Hoa Lan",
		City:          "Hanoi",
	})
	require.NoError(t, err)
	assert.Equal(t, addressID, address.ID)

	order, err := client.CreateOrder(c, CreateOrder{
		CartID:        cartID,
		AddressID:     address.ID,
		PaymentMethod: "COD",
		Status:        "Pending",
	})
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	assert.True(t, decimal.NewFromInt(150000).Equal(order.Sum))

	status, err := client.GetPaymentStatus(c, paymentID)
	require.NoError(t, err)
	assert.Equal(t, "Completed", status.Status)
}

func TestGetDynamicPriceNull(t *testing.T) {
	productID := uuid.New()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"productId":"` + productID.String() + `","basePrice":20,"dynamicPrice":null}`))
	}), "")

	price, err := client.GetDynamicPrice(testContext(), productID, nil)
	require.NoError(t, err)
	assert.False(t, price.DynamicPrice.Valid)
	assert.True(t, decimal.NewFromInt(20).Equal(price.BasePrice))
}
