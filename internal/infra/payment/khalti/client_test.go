package khalti

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"voltcart/config"
	"voltcart/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) service.PaymentGateway {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Khalti: &config.KhaltiConfig{
			BaseURL:    server.URL,
			SecretKey:  "test-secret",
			ReturnURL:  "https://shop.example.com/payment/return",
			WebsiteURL: "https://shop.example.com",
		},
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)

	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(&config.Config{})
	require.Error(t, err)

	_, err = NewClient(&config.Config{Khalti: &config.KhaltiConfig{BaseURL: "https://khalti.example.com"}})
	require.Error(t, err)
}

func TestClient_Initiate(t *testing.T) {
	var captured initiateRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/epayment/initiate/", r.URL.Path)
		assert.Equal(t, "Key test-secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(initiateResponse{
			Pidx:       "pidx-abc",
			PaymentURL: "https://pay.khalti.com/?pidx=pidx-abc",
			ExpiresAt:  "2026-09-01T12:00:00Z",
		})
	})

	handoff, err := client.Initiate(context.Background(), service.PaymentInitiation{
		AmountPaisa:       34000,
		PurchaseOrderID:   "order-1",
		PurchaseOrderName: "Order 1234abcd",
		CustomerName:      "Asha Shrestha",
		CustomerEmail:     "asha@example.com",
		CustomerPhone:     "9800000000",
	})

	require.NoError(t, err)
	assert.Equal(t, "pidx-abc", handoff.Pidx)
	assert.Equal(t, "https://pay.khalti.com/?pidx=pidx-abc", handoff.PaymentURL)

	assert.Equal(t, int64(34000), captured.Amount)
	assert.Equal(t, "order-1", captured.PurchaseOrderID)
	assert.Equal(t, "https://shop.example.com/payment/return", captured.ReturnURL)
	assert.Equal(t, "https://shop.example.com", captured.WebsiteURL)
	assert.Equal(t, "Asha Shrestha", captured.CustomerInfo.Name)
}

func TestClient_Initiate_MissingPidx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(initiateResponse{})
	})

	handoff, err := client.Initiate(context.Background(), service.PaymentInitiation{AmountPaisa: 100})

	require.Error(t, err)
	assert.Nil(t, handoff)
	assert.ErrorIs(t, err, service.ErrGatewayRejected)
}

func TestClient_Initiate_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Invalid token."}`, http.StatusUnauthorized)
	})

	handoff, err := client.Initiate(context.Background(), service.PaymentInitiation{AmountPaisa: 100})

	require.Error(t, err)
	assert.Nil(t, handoff)
	assert.ErrorIs(t, err, service.ErrGatewayRejected)
}

func TestClient_Lookup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/epayment/lookup/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pidx-abc", body["pidx"])

		json.NewEncoder(w).Encode(lookupResponse{
			Pidx:          "pidx-abc",
			TotalAmount:   34000,
			Status:        "Completed",
			TransactionID: "txn-789",
		})
	})

	status, err := client.Lookup(context.Background(), "pidx-abc")

	require.NoError(t, err)
	assert.Equal(t, service.GatewayStatusCompleted, status.Status)
	assert.Equal(t, "txn-789", status.TransactionID)
	assert.Equal(t, int64(34000), status.AmountPaisa)
	assert.False(t, status.Refunded)
}

func TestClient_Lookup_CanceledByUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(lookupResponse{
			Pidx:   "pidx-abc",
			Status: "User canceled",
		})
	})

	status, err := client.Lookup(context.Background(), "pidx-abc")

	require.NoError(t, err)
	assert.Equal(t, service.GatewayStatusFailed, status.Status)
}
