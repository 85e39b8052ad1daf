// Package ledger posts completed sales to a transaction log. Posting is
// best-effort: a failed post never undoes or fails the sale.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
)

// Sink receives purchase receipts
type Sink interface {
	Post(ctx context.Context, r domain.Receipt) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, r domain.Receipt) error

// Post implements Sink
func (f SinkFunc) Post(ctx context.Context, r domain.Receipt) error {
	return f(ctx, r)
}

// LogSink writes each receipt to the structured log
type LogSink struct{}

// Post implements Sink
func (LogSink) Post(ctx context.Context, r domain.Receipt) error {
	logger.FromContext(ctx).Info(LogMsgReceipt,
		"tenant_id", r.TenantID,
		"buyer_id", r.BuyerID,
		"character", r.CharacterName,
		"item", r.ItemName,
		"quantity", r.Quantity,
		"total_price", r.TotalPrice,
		"discount", r.GotDiscount,
		"line", r.String(),
	)
	return nil
}

// MultiSink posts to every sink and joins their errors
type MultiSink []Sink

// Post implements Sink
func (m MultiSink) Post(ctx context.Context, r domain.Receipt) error {
	var errs []error
	for _, s := range m {
		if err := s.Post(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RetryConfig bounds the retries of a RetryingSink
type RetryConfig struct {
	MaxRetries uint64
	BaseDelay  time.Duration
}

// DefaultRetryConfig returns the default retry policy
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

// RetryingSink retries a flaky sink with exponential backoff
type RetryingSink struct {
	next Sink
	cfg  RetryConfig
}

// NewRetryingSink wraps next with the retry policy cfg
func NewRetryingSink(next Sink, cfg RetryConfig) *RetryingSink {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	return &RetryingSink{next: next, cfg: cfg}
}

// Post implements Sink
func (s *RetryingSink) Post(ctx context.Context, r domain.Receipt) error {
	b := retry.WithMaxRetries(s.cfg.MaxRetries, retry.NewExponential(s.cfg.BaseDelay))

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := s.next.Post(ctx, r); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPostRetry, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
