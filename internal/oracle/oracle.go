package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrStalePrice       = errors.New("oracle price is stale")
	ErrAssetUnavailable = errors.New("oracle has no price for asset")
)

// Quote is one fiat price observation for a native asset.
type Quote struct {
	Price decimal.Decimal
	AsOf  time.Time
}

// Oracle produces the fiat price of a native asset. Implementations must
// never return a quote older than their staleness threshold.
type Oracle interface {
	GetPrice(ctx context.Context, asset string) (Quote, error)
}

type NowFunc func() time.Time

// HTTPOracle fetches spot prices from a CoinGecko-compatible simple-price
// endpoint.
type HTTPOracle struct {
	endpoint   string
	vsCurrency string
	client     *http.Client
	now        NowFunc
}

func NewHTTPOracle(endpoint, vsCurrency string, timeout time.Duration) *HTTPOracle {
	return &HTTPOracle{
		endpoint:   endpoint,
		vsCurrency: vsCurrency,
		client:     &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

func (o *HTTPOracle) GetPrice(ctx context.Context, asset string) (Quote, error) {
	query := url.Values{}
	query.Set("ids", asset)
	query.Set("vs_currencies", o.vsCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return Quote{}, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("o.client.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("oracle endpoint returned status %v", resp.StatusCode)
	}

	var payload map[string]map[string]json.Number
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Quote{}, fmt.Errorf("json.Decode -> %w", err)
	}

	raw, ok := payload[asset][o.vsCurrency]
	if !ok {
		return Quote{}, ErrAssetUnavailable
	}

	price, err := decimal.NewFromString(raw.String())
	if err != nil {
		return Quote{}, fmt.Errorf("decimal.NewFromString -> %w", err)
	}
	if price.Sign() <= 0 {
		return Quote{}, ErrAssetUnavailable
	}

	return Quote{Price: price, AsOf: o.now()}, nil
}

// CachedOracle serves a short-lived cached quote shared across concurrent
// requests. Once the cached quote crosses the staleness threshold it is
// refreshed inline; if the refresh fails, callers get ErrStalePrice and must
// re-quote rather than compute a payment from degraded data.
type CachedOracle struct {
	inner     Oracle
	staleness time.Duration
	now       NowFunc

	mu     chan struct{} // capacity-1 semaphore guarding cache refresh
	cached map[string]Quote
}

func NewCachedOracle(inner Oracle, staleness time.Duration, now NowFunc) *CachedOracle {
	if now == nil {
		now = time.Now
	}

	c := &CachedOracle{
		inner:     inner,
		staleness: staleness,
		now:       now,
		mu:        make(chan struct{}, 1),
		cached:    make(map[string]Quote),
	}
	c.mu <- struct{}{}

	return c
}

func (c *CachedOracle) GetPrice(ctx context.Context, asset string) (Quote, error) {
	select {
	case <-c.mu:
	case <-ctx.Done():
		return Quote{}, ctx.Err()
	}
	defer func() { c.mu <- struct{}{} }()

	now := c.now()
	if quote, ok := c.cached[asset]; ok && now.Sub(quote.AsOf) < c.staleness {
		return quote, nil
	}

	quote, err := c.inner.GetPrice(ctx, asset)
	if err != nil {
		if _, ok := c.cached[asset]; ok {
			// A price exists but is past staleness; fail fast.
			return Quote{}, fmt.Errorf("%w: %v", ErrStalePrice, err)
		}
		return Quote{}, fmt.Errorf("c.inner.GetPrice -> %w", err)
	}

	c.cached[asset] = quote

	return quote, nil
}
