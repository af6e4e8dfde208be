// Package quote provides a simulated quote source. Prices follow a bounded
// random walk from their last known value, which keeps the ledger exercising
// real price movement without an external market-data dependency.
package quote

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/mbeckett/paperfolio/internal/common"
	"github.com/mbeckett/paperfolio/internal/interfaces"
	"github.com/mbeckett/paperfolio/internal/models"
)

const (
	DefaultRateLimit = 10 // quotes per second
	DefaultMaxDrift  = 0.02
)

// Client implements the QuoteClient interface.
type Client struct {
	maxDrift float64
	logger   *common.Logger
	limiter  *rate.Limiter

	mu  sync.Mutex
	rng *rand.Rand
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(quotesPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(quotesPerSecond), quotesPerSecond)
	}
}

// WithMaxDrift bounds the per-quote price move as a fraction of the last
// price.
func WithMaxDrift(maxDrift float64) ClientOption {
	return func(c *Client) {
		c.maxDrift = maxDrift
	}
}

// WithSeed makes the walk deterministic.
func WithSeed(seed int64) ClientOption {
	return func(c *Client) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// NewClient creates a new simulated quote client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		maxDrift: DefaultMaxDrift,
		logger:   common.NewDefaultLogger(),
		limiter:  rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote returns the next simulated price for symbol. The move is uniform in
// [-maxDrift, +maxDrift] relative to last and the result is rounded to cents,
// never below one cent.
func (c *Client) Quote(ctx context.Context, symbol string, last decimal.Decimal) (decimal.Decimal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("rate limiter: %w", err)
	}
	if !last.IsPositive() {
		return decimal.Zero, fmt.Errorf("no last price for %s: %w", symbol, models.ErrInvalidInput)
	}

	c.mu.Lock()
	drift := (c.rng.Float64()*2 - 1) * c.maxDrift
	c.mu.Unlock()

	next := last.Mul(decimal.NewFromFloat(1 + drift)).Round(2)
	floor := decimal.New(1, -2)
	if next.LessThan(floor) {
		next = floor
	}

	c.logger.Debug().
		Str("symbol", symbol).
		Str("last", last.StringFixed(2)).
		Str("next", next.StringFixed(2)).
		Msg("Quote simulated")

	return next, nil
}

// Compile-time check
var _ interfaces.QuoteClient = (*Client)(nil)
