package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/lehigh-university-libraries/coverscan/internal/models"
)

// Chain asks each provider in turn; the first one with a record wins
type Chain struct {
	providers []Provider
}

// NewChain creates a chain over providers, in priority order
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return strings.Join(names, "+")
}

// LookupByISBN returns NotFound only when every provider answered without a record.
// Otherwise, if nothing was found, the first failure is returned.
func (c *Chain) LookupByISBN(ctx context.Context, isbn string) (*models.BookRecord, bool, error) {
	if isbn == "" {
		return nil, false, ErrEmptyISBN
	}

	var firstErr error
	for _, p := range c.providers {
		record, found, err := p.LookupByISBN(ctx, isbn)
		if err != nil {
			slog.Warn("Catalog provider failed", "provider", p.Name(), "isbn", isbn, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if found {
			return record, true, nil
		}
	}

	return nil, false, firstErr
}

// Retrying wraps a provider with retries for transient failures
type Retrying struct {
	provider Provider
	attempts uint
	delay    time.Duration
}

// WithRetry retries transport failures and 5xx answers. attempts <= 1 returns p unchanged.
func WithRetry(p Provider, attempts uint, delay time.Duration) Provider {
	if attempts <= 1 {
		return p
	}
	return &Retrying{provider: p, attempts: attempts, delay: delay}
}

func (r *Retrying) Name() string {
	return r.provider.Name()
}

func (r *Retrying) LookupByISBN(ctx context.Context, isbn string) (*models.BookRecord, bool, error) {
	type result struct {
		record *models.BookRecord
		found  bool
	}

	res, err := retry.DoWithData(
		func() (result, error) {
			record, found, err := r.provider.LookupByISBN(ctx, isbn)
			return result{record: record, found: found}, err
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransient),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying catalog lookup", "provider", r.provider.Name(), "isbn", isbn, "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		return nil, false, err
	}
	return res.record, res.found, nil
}

// IsTransient reports whether a lookup failure is worth retrying
func IsTransient(err error) bool {
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		return false
	}
	return unavailable.StatusCode == 0 || unavailable.StatusCode >= 500
}
