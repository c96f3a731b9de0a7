package cashfree

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	var gotPayload map[string]any

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pg/orders", r.URL.Path)
		assert.Equal(t, "2023-08-01", r.Header.Get("x-api-version"))
		assert.Equal(t, "app-id", r.Header.Get("x-client-id"))
		assert.Equal(t, "secret", r.Header.Get("x-client-secret"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		fmt.Fprintf(w, `{"order_id":%q,"payment_session_id":"sess_123","order_status":"ACTIVE"}`, gotPayload["order_id"])
	}))
	defer ts.Close()

	client := NewClient("app-id", "secret", WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))

	session, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		AmountINR: 199,
		Customer: CustomerDetails{
			CustomerID:    "cust_jane",
			CustomerPhone: "9876543210",
		},
		ReturnURL: "https://example.com/success?order_id={order_id}",
	})
	require.NoError(t, err)

	assert.Equal(t, "sess_123", session.PaymentSessionID)
	assert.Equal(t, "ACTIVE", session.OrderStatus)
	assert.Regexp(t, regexp.MustCompile(`^ORDER_\d+_[0-9a-f]+$`), session.OrderID)

	assert.Equal(t, float64(199), gotPayload["order_amount"])
	assert.Equal(t, "INR", gotPayload["order_currency"])
	assert.Equal(t, "Instagram Growth Panel Order", gotPayload["order_note"])

	customer := gotPayload["customer_details"].(map[string]any)
	assert.Equal(t, "Customer", customer["customer_name"])
	assert.Equal(t, "customer@example.com", customer["customer_email"])
	assert.Equal(t, "9876543210", customer["customer_phone"])

	meta := gotPayload["order_meta"].(map[string]any)
	assert.Equal(t, "https://example.com/success?order_id={order_id}", meta["return_url"])
}

func TestCreateOrderAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"authentication failed"}`)
	}))
	defer ts.Close()

	client := NewClient("app-id", "secret", WithBaseURL(ts.URL))

	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{AmountINR: 99})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
}

func TestCreateOrderMissingCredentials(t *testing.T) {
	client := NewClient("", "")
	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{AmountINR: 99})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestVerifyOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/pg/orders/ORDER_1_abc", r.URL.Path)
		fmt.Fprint(w, `{"order_id":"ORDER_1_abc","order_status":"PAID","order_amount":199}`)
	}))
	defer ts.Close()

	client := NewClient("app-id", "secret", WithBaseURL(ts.URL))

	state, err := client.VerifyOrder(context.Background(), "ORDER_1_abc")
	require.NoError(t, err)
	assert.Equal(t, "PAID", state.OrderStatus)
	assert.Equal(t, float64(199), state.OrderAmount)
}

func TestVerifyOrderRequiresID(t *testing.T) {
	client := NewClient("app-id", "secret")
	_, err := client.VerifyOrder(context.Background(), "  ")
	assert.Error(t, err)
}
