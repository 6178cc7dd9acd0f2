package provider

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"time"

	"fjacquet/stmt-extract/internal/extracterror"
	"fjacquet/stmt-extract/internal/logging"
	"fjacquet/stmt-extract/internal/models"
)

const (
	maxAttempts      = 3
	defaultBackoffMs = 5000
)

// retryHintRe matches the "try again in 2.5s" hint embedded in rate-limit
// error messages.
var retryHintRe = regexp.MustCompile(`(?i)try again in ([0-9.]+)s`)

// rateLimitedProvider wraps another provider and retries on quota errors.
// Free-tier backends throttle aggressively, so a short bounded wait often
// turns a hard failure into a slow success.
type rateLimitedProvider struct {
	inner  Provider
	logger logging.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func newRateLimitedProvider(inner Provider, logger logging.Logger) *rateLimitedProvider {
	return &rateLimitedProvider{
		inner:  inner,
		logger: logger,
		sleep:  sleepCtx,
	}
}

func (p *rateLimitedProvider) Name() string { return p.inner.Name() }

// backoffFor picks the wait before the next attempt, honoring the server's
// retry hint when one is present.
func backoffFor(err error) time.Duration {
	if err != nil {
		if m := retryHintRe.FindStringSubmatch(err.Error()); m != nil {
			if secs, perr := strconv.ParseFloat(m[1], 64); perr == nil {
				ms := int64(math.Ceil(secs*1000)) + 1000
				return time.Duration(ms) * time.Millisecond
			}
		}
	}
	return defaultBackoffMs * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// withRetry runs fn up to maxAttempts times, waiting between attempts only
// when the failure is a quota error. Any other error returns immediately.
func (p *rateLimitedProvider) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if extracterror.KindOf(lastErr) != extracterror.KindQuotaExceeded {
			return lastErr
		}
		if attempt == maxAttempts {
			break
		}

		wait := backoffFor(lastErr)
		p.logger.Warn("Rate limited, backing off before retry",
			logging.Field{Key: logging.FieldProvider, Value: p.Name()},
			logging.Field{Key: logging.FieldAttempt, Value: attempt},
			logging.Field{Key: logging.FieldDuration, Value: wait.Milliseconds()})
		if err := p.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return lastErr
}

// ExtractTransactions implements Provider.
func (p *rateLimitedProvider) ExtractTransactions(ctx context.Context, req Request) (*models.ExtractionResult, error) {
	var result *models.ExtractionResult
	err := p.withRetry(ctx, func() error {
		var innerErr error
		result, innerErr = p.inner.ExtractTransactions(ctx, req)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ValidateDocument implements Provider.
func (p *rateLimitedProvider) ValidateDocument(ctx context.Context, text string) (*DocumentCheck, error) {
	var check *DocumentCheck
	err := p.withRetry(ctx, func() error {
		var innerErr error
		check, innerErr = p.inner.ValidateDocument(ctx, text)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return check, nil
}

// TestConnection implements Provider. Connection tests are diagnostic, so a
// throttled backend is reported as-is rather than retried.
func (p *rateLimitedProvider) TestConnection(ctx context.Context) models.ConnectionStatus {
	return p.inner.TestConnection(ctx)
}
