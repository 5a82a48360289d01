package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
)

func TestRazorpayGateway_CreateOrder(t *testing.T) {
	var received orderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(orderResponse{
			ID:       "order_123",
			Amount:   received.Amount,
			Currency: received.Currency,
			Receipt:  received.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	gw := NewRazorpayGateway(server.URL, "rzp_test_key", "secret", time.Second)
	order, err := gw.CreateOrder(context.Background(), repository.GatewayOrderRequest{
		AmountMinor: 200000,
		Currency:    "INR",
		Receipt:     "projexhub_1_abcd1234",
		Notes:       map[string]string{"projectId": "1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(200000), order.AmountMinor)
	assert.Equal(t, "INR", received.Currency)
	assert.Equal(t, "1", received.Notes["projectId"])
	assert.Equal(t, "rzp_test_key", gw.KeyID())
}

func TestRazorpayGateway_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer server.Close()

	gw := NewRazorpayGateway(server.URL, "key", "secret", time.Second)
	_, err := gw.CreateOrder(context.Background(), repository.GatewayOrderRequest{AmountMinor: 1, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount too small")
}

func TestRazorpayGateway_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	gw := NewRazorpayGateway(server.URL, "key", "secret", 50*time.Millisecond)
	_, err := gw.CreateOrder(context.Background(), repository.GatewayOrderRequest{AmountMinor: 100, Currency: "INR"})
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	gw := NewRazorpayGateway("", "key", "secret", 0)
	signature := Sign("secret", "order_1", "pay_1")

	assert.True(t, gw.VerifySignature("order_1", "pay_1", signature))
	assert.False(t, gw.VerifySignature("order_1", "pay_2", signature))
	assert.False(t, gw.VerifySignature("order_1", "pay_1", "deadbeef"))
	assert.False(t, Unconfigured{}.VerifySignature("order_1", "pay_1", signature))
}
