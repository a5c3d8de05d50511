package bmc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skilloop/skilloop-api/internal/httperr"
)

const supportersFeed = `{
	"data": [
		{"support_id": 101, "support_coffee_price": "250.00", "support_coffees": 2, "payer_email": "a@b.c"},
		{"support_id": 102, "support_coffee_price": "500.00", "support_coffees": 1, "is_refunded": true}
	]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		accessToken: "token-1",
		baseURL:     srv.URL,
		http:        &http.Client{Timeout: time.Second},
	}
}

func TestVerifyTransaction(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/supporters" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(supportersFeed))
	})

	s, err := c.VerifyTransaction(context.Background(), "101")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if s.Amount() != 500 {
		t.Fatalf("amount = %v", s.Amount())
	}
	if !s.Paid() {
		t.Fatalf("support 101 should count as paid")
	}
}

func TestVerifyTransactionRefunded(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(supportersFeed))
	})

	s, err := c.VerifyTransaction(context.Background(), "102")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if s.Paid() {
		t.Fatalf("refunded support must not count as paid")
	}
}

func TestVerifyTransactionErrors(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(supportersFeed))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := c.VerifyTransaction(context.Background(), "999")
		if !httperr.IsBusiness(err, "transaction_not_found") {
			t.Fatalf("expected transaction_not_found, got %v", err)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		_, err := c.VerifyTransaction(context.Background(), "abc")
		if !httperr.IsBusiness(err, "invalid_transaction_id") {
			t.Fatalf("expected invalid_transaction_id, got %v", err)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		bare := &Client{http: &http.Client{}}
		_, err := bare.VerifyTransaction(context.Background(), "101")
		if !httperr.IsBusiness(err, "missing_credentials") {
			t.Fatalf("expected missing_credentials, got %v", err)
		}
	})
}
