package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockfolio/internal/domain"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *url.Values) {
	t.Helper()
	var last url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestQuoteSuccess(t *testing.T) {
	srv, query := newTestServer(t, http.StatusOK, `{
		"Global Quote": {
			"01. symbol": "IBM",
			"05. price": "187.4200",
			"07. latest trading day": "2024-05-03"
		}
	}`)
	c := NewClient(srv.URL, "secret", time.Second)

	price, err := c.Quote(context.Background(), "IBM")
	require.NoError(t, err)
	assert.Equal(t, "187.42", price.String())

	q := *query
	assert.Equal(t, "GLOBAL_QUOTE", q.Get("function"))
	assert.Equal(t, "IBM", q.Get("symbol"))
	assert.Equal(t, "secret", q.Get("apikey"))
}

func TestQuoteRateLimited(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"note", http.StatusOK, `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`},
		{"information", http.StatusOK, `{"Information": "We have detected your API key and our standard API rate limit is 25 requests per day."}`},
		{"http 429", http.StatusTooManyRequests, `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tc.status, tc.body)
			c := NewClient(srv.URL, "k", time.Second)

			_, err := c.Quote(context.Background(), "IBM")
			assert.ErrorIs(t, err, domain.ErrRateLimited)
			assert.Equal(t, domain.KindRateLimited, domain.KindOf(err))
		})
	}
}

func TestQuoteUnavailable(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"empty quote", http.StatusOK, `{"Global Quote": {}}`},
		{"unknown symbol", http.StatusOK, `{"Error Message": "Invalid API call."}`},
		{"zero price", http.StatusOK, `{"Global Quote": {"05. price": "0.0000"}}`},
		{"garbage price", http.StatusOK, `{"Global Quote": {"05. price": "n/a"}}`},
		{"not json", http.StatusOK, `<html></html>`},
		{"server error", http.StatusInternalServerError, `oops`},
		{"unrelated information", http.StatusOK, `{"Information": "The demo API key is for demo purposes only."}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tc.status, tc.body)
			c := NewClient(srv.URL, "k", time.Second)

			_, err := c.Quote(context.Background(), "ZZZZ")
			assert.ErrorIs(t, err, domain.ErrQuoteUnavailable)
			assert.NotErrorIs(t, err, domain.ErrRateLimited)
		})
	}
}

func TestQuoteTransportError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	srv.Close()
	c := NewClient(srv.URL, "k", time.Second)

	_, err := c.Quote(context.Background(), "IBM")
	assert.ErrorIs(t, err, domain.ErrQuoteUnavailable)
}
