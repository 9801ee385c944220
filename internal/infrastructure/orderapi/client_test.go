package orderapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/apperror"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL+"/", srv.Client(), logger.Discard())
}

func TestFetchTicket(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders/A%2F7/ticket", r.URL.EscapedPath())
		assert.Equal(t, "resto-1", r.Header.Get(RestaurantHeader))
		_, _ = w.Write([]byte(`{"items": [], "total_due": "12.00"}`))
	})

	body, err := c.FetchTicket(context.Background(), "resto-1", "A/7")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items": [], "total_due": "12.00"}`, string(body))
}

func TestFetchTicket_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode int
	}{
		{"not found", http.StatusNotFound, http.StatusNotFound},
		{"forbidden", http.StatusForbidden, http.StatusForbidden},
		{"server error", http.StatusInternalServerError, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.FetchTicket(context.Background(), "r", "1")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperror.GetAppError(err).Code)
		})
	}
}

func TestFetchTicket_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithHTTP(url, &http.Client{Timeout: time.Second}, logger.Discard())
	_, err := c.FetchTicket(context.Background(), "r", "1")
	assert.ErrorIs(t, err, apperror.ErrOrderServiceUnavailable)
}

func TestCommitPayment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/42/payments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "resto-1", r.Header.Get(RestaurantHeader))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"method": "CASH", "amount": 23.50}`, string(raw))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 981, "status": "RECORDED"})
	})

	conf, err := c.CommitPayment(context.Background(), entity.PaymentCommit{
		RestaurantID: "resto-1",
		OrderID:      "42",
		Method:       enum.PaymentMethodCash,
		Amount:       decimal.RequireFromString("23.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "981", conf.Reference)
	assert.Equal(t, "RECORDED", conf.Status)
}

func TestCommitPayment_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Amount exceeds remaining balance"}`))
	})

	_, err := c.CommitPayment(context.Background(), entity.PaymentCommit{OrderID: "1", Method: enum.PaymentMethodCard, Amount: decimal.NewFromInt(5)})
	require.Error(t, err)
	assert.True(t, IsRejected(err))

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Equal(t, "Amount exceeds remaining balance", rejected.Message)
}

func TestNewClient_StaticToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(config.OrderAPIConfig{BaseURL: srv.URL, Token: "s3cret"}, logger.Discard())
	_, err := c.FetchTicket(context.Background(), "", "1")
	require.NoError(t, err)
}

func TestNewClient_ClientCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "cc-token", "token_type": "Bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/orders/7/ticket", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cc-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(config.OrderAPIConfig{
		BaseURL:      srv.URL,
		ClientID:     "pos",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/oauth/token",
	}, logger.Discard())

	_, err := c.FetchTicket(context.Background(), "", "7")
	require.NoError(t, err)
}
