package oracle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOracle struct {
	quote Quote
	err   error
	calls int
}

func (s *stubOracle) GetPrice(context.Context, string) (Quote, error) {
	s.calls++
	if s.err != nil {
		return Quote{}, s.err
	}

	return s.quote, nil
}

// clock is a manually advanced NowFunc.
type clock struct {
	at time.Time
}

func (c *clock) now() time.Time { return c.at }

func (c *clock) advance(d time.Duration) { c.at = c.at.Add(d) }

func TestHTTPOracle_GetPrice(t *testing.T) {
	t.Run("parses a simple-price response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "solana", r.URL.Query().Get("ids"))
			assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"solana":{"usd":175.42}}`))
		}))
		defer srv.Close()

		o := NewHTTPOracle(srv.URL, "usd", time.Second)

		quote, err := o.GetPrice(context.Background(), "solana")
		require.NoError(t, err)
		assert.True(t, quote.Price.Equal(decimal.RequireFromString("175.42")),
			"got %s", quote.Price)
		assert.False(t, quote.AsOf.IsZero())
	})

	t.Run("missing asset in response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		o := NewHTTPOracle(srv.URL, "usd", time.Second)

		_, err := o.GetPrice(context.Background(), "solana")
		assert.ErrorIs(t, err, ErrAssetUnavailable)
	})

	t.Run("zero price is rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"solana":{"usd":0}}`))
		}))
		defer srv.Close()

		o := NewHTTPOracle(srv.URL, "usd", time.Second)

		_, err := o.GetPrice(context.Background(), "solana")
		assert.ErrorIs(t, err, ErrAssetUnavailable)
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		o := NewHTTPOracle(srv.URL, "usd", time.Second)

		_, err := o.GetPrice(context.Background(), "solana")
		assert.Error(t, err)
	})
}

func TestCachedOracle_GetPrice(t *testing.T) {
	start := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("serves from cache within staleness window", func(t *testing.T) {
		clk := &clock{at: start}
		inner := &stubOracle{quote: Quote{Price: decimal.NewFromInt(175), AsOf: start}}
		cached := NewCachedOracle(inner, 30*time.Second, clk.now)

		_, err := cached.GetPrice(context.Background(), "solana")
		require.NoError(t, err)

		clk.advance(10 * time.Second)
		quote, err := cached.GetPrice(context.Background(), "solana")
		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)
		assert.True(t, quote.Price.Equal(decimal.NewFromInt(175)))
	})

	t.Run("refreshes once the window passes", func(t *testing.T) {
		clk := &clock{at: start}
		inner := &stubOracle{quote: Quote{Price: decimal.NewFromInt(175), AsOf: start}}
		cached := NewCachedOracle(inner, 30*time.Second, clk.now)

		_, err := cached.GetPrice(context.Background(), "solana")
		require.NoError(t, err)

		clk.advance(31 * time.Second)
		inner.quote = Quote{Price: decimal.NewFromInt(180), AsOf: clk.at}
		quote, err := cached.GetPrice(context.Background(), "solana")
		require.NoError(t, err)
		assert.Equal(t, 2, inner.calls)
		assert.True(t, quote.Price.Equal(decimal.NewFromInt(180)))
	})

	t.Run("stale cache with failed refresh yields ErrStalePrice", func(t *testing.T) {
		clk := &clock{at: start}
		inner := &stubOracle{quote: Quote{Price: decimal.NewFromInt(175), AsOf: start}}
		cached := NewCachedOracle(inner, 30*time.Second, clk.now)

		_, err := cached.GetPrice(context.Background(), "solana")
		require.NoError(t, err)

		clk.advance(time.Minute)
		inner.err = errors.New("upstream down")
		_, err = cached.GetPrice(context.Background(), "solana")
		assert.ErrorIs(t, err, ErrStalePrice)
	})

	t.Run("first fetch failure is not a staleness error", func(t *testing.T) {
		clk := &clock{at: start}
		inner := &stubOracle{err: errors.New("upstream down")}
		cached := NewCachedOracle(inner, 30*time.Second, clk.now)

		_, err := cached.GetPrice(context.Background(), "solana")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrStalePrice)
	})

	t.Run("cancelled context is honored while waiting", func(t *testing.T) {
		clk := &clock{at: start}
		inner := &stubOracle{quote: Quote{Price: decimal.NewFromInt(175), AsOf: start}}
		cached := NewCachedOracle(inner, 30*time.Second, clk.now)

		// Hold the refresh slot so the caller has to wait on the context.
		<-cached.mu
		defer func() { cached.mu <- struct{}{} }()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := cached.GetPrice(ctx, "solana")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
