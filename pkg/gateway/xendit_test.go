package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/bookshop/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestXenditCreatePayment(t *testing.T) {
	var gotBody map[string]interface{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/invoices", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "62efe4c33e45694d63f585f0",
			"status":      "PENDING",
			"invoice_url": "https://checkout.xendit.co/web/62efe4c3",
		})
	}))
	defer ts.Close()

	gw := NewXenditGateway(&config.XenditConfig{
		BaseURL:   ts.URL,
		SecretKey: "xnd_development_test",
		Timeout:   5 * time.Second,
	}, zap.NewNop())

	resp, err := gw.CreatePayment(context.Background(), "INV-20260830120000-XYZ789", 275000, ChargeOptions{
		CustomerEmail: "dewi@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "https://checkout.xendit.co/web/62efe4c3", resp.PaymentURL)
	assert.Equal(t, "INV-20260830120000-XYZ789", resp.Reference)

	assert.Equal(t, "INV-20260830120000-XYZ789", gotBody["external_id"])
	assert.EqualValues(t, 275000, gotBody["amount"])
	assert.Equal(t, "IDR", gotBody["currency"])
	assert.Equal(t, "dewi@example.com", gotBody["payer_email"])
	assert.NotEmpty(t, gotBody["description"])
}

func TestXenditCreatePayment_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_code":"API_VALIDATION_ERROR"}`))
	}))
	defer ts.Close()

	gw := NewXenditGateway(&config.XenditConfig{BaseURL: ts.URL, SecretKey: "bad"}, zap.NewNop())

	_, err := gw.CreatePayment(context.Background(), "INV-X", 1000, ChargeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestXenditExtractors(t *testing.T) {
	gw := NewXenditGateway(&config.XenditConfig{}, zap.NewNop())

	payload := map[string]interface{}{
		"external_id":    "INV-20260830120000-XYZ789",
		"status":         "PAID",
		"payment_method": "BANK_TRANSFER",
	}
	assert.Equal(t, "INV-20260830120000-XYZ789", gw.ExtractReference(payload))
	assert.Equal(t, "paid", gw.ExtractStatus(payload))
	assert.Equal(t, "BANK_TRANSFER", gw.ExtractPaymentMethod(payload))

	// Some channels report channel_code instead of payment_method.
	channelOnly := map[string]interface{}{
		"external_id":  "INV-X",
		"status":       "PAID",
		"channel_code": "OVO",
	}
	assert.Equal(t, "OVO", gw.ExtractPaymentMethod(channelOnly))

	empty := map[string]interface{}{}
	assert.Equal(t, "", gw.ExtractReference(empty))
	assert.Equal(t, "pending", gw.ExtractStatus(empty))
}
