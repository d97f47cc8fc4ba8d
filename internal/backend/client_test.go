package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSubscriptionInvoice(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		switch r.URL.Path {
		case "/api/subscriptions/42/invoice":
			w.Write([]byte(`{"data":{"invoiceNumber":"INV-42","subscriptionId":42,"amount":"1180.00","planName":"Gold"}}`))
		case "/api/subscriptions/7/invoice":
			w.Write([]byte(`{"invoiceNumber":"INV-7","subscriptionId":7,"amount":499}`))
		case "/api/subscriptions/401/invoice":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 2*time.Second)
	ctx := context.Background()

	t.Run("unwraps data envelope", func(t *testing.T) {
		invoice, err := client.FetchSubscriptionInvoice(ctx, 42, "token-abc")
		require.NoError(t, err)
		assert.Equal(t, "Bearer token-abc", gotAuth)
		assert.Equal(t, "/api/subscriptions/42/invoice", gotPath)
		assert.Equal(t, "INV-42", invoice.InvoiceNumber)
		assert.Equal(t, "1180.00", invoice.Amount.Fixed(2))
		assert.Equal(t, "Gold", invoice.PlanName)
	})

	t.Run("bare object", func(t *testing.T) {
		invoice, err := client.FetchSubscriptionInvoice(ctx, 7, "")
		require.NoError(t, err)
		assert.Empty(t, gotAuth)
		assert.Equal(t, "499.00", invoice.Amount.Fixed(2))
	})

	t.Run("unauthorized", func(t *testing.T) {
		_, err := client.FetchSubscriptionInvoice(ctx, 401, "bad")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.FetchSubscriptionInvoice(ctx, 9, "token")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
