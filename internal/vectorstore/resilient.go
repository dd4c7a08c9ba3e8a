package vectorstore

import (
	"context"
	"errors"
	"time"

	"codeberg.org/handbookqa/server/internal/logger"
	"codeberg.org/handbookqa/server/internal/metrics"
)

func DefaultResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		Timeout:     10 * time.Second,
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// Resilient applies a per-attempt timeout and bounded retries with
// exponential backoff to every operation of the wrapped gateway.
type Resilient struct {
	next   Gateway
	config ResilienceConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

var _ Gateway = (*Resilient)(nil)

func NewResilient(next Gateway, config ResilienceConfig) *Resilient {
	defaults := DefaultResilienceConfig()

	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}

	if config.BaseDelay <= 0 {
		config.BaseDelay = defaults.BaseDelay
	}

	if config.MaxDelay < config.BaseDelay {
		config.MaxDelay = config.BaseDelay
	}

	return &Resilient{next: next, config: config, sleep: sleepContext}
}

// ids are assigned before the first attempt so a retried upsert overwrites
// instead of duplicating
func (r *Resilient) Upsert(ctx context.Context, namespace string, records []Record) error {
	records = prepareRecords(records)

	return r.retry(ctx, OpUpsert, namespace, func(ctx context.Context) error {
		return r.next.Upsert(ctx, namespace, records)
	})
}

func (r *Resilient) Query(ctx context.Context, namespace string, vector []float32, topK int, includeMetadata bool) ([]Match, error) {
	var matches []Match

	err := r.retry(ctx, OpQuery, namespace, func(ctx context.Context) error {
		var err error
		matches, err = r.next.Query(ctx, namespace, vector, topK, includeMetadata)
		return err
	})

	return matches, err
}

func (r *Resilient) DeleteAll(ctx context.Context, namespace string) error {
	return r.retry(ctx, OpDeleteAll, namespace, func(ctx context.Context) error {
		return r.next.DeleteAll(ctx, namespace)
	})
}

func (r *Resilient) FetchAll(ctx context.Context, namespace string, limit int) ([]Record, error) {
	var records []Record

	err := r.retry(ctx, OpFetchAll, namespace, func(ctx context.Context) error {
		var err error
		records, err = r.next.FetchAll(ctx, namespace, limit)
		return err
	})

	return records, err
}

func (r *Resilient) retry(ctx context.Context, op, namespace string, fn func(context.Context) error) error {
	var err error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err = r.attempt(ctx, fn)
		if err == nil {
			return nil
		}

		if attempt == r.config.MaxAttempts || !retryable(ctx, err) {
			break
		}

		delay := r.backoff(attempt)
		metrics.VectorStoreRetries.WithLabelValues(op).Inc()
		logger.Debug("retrying vector store operation",
			"op", op,
			"namespace", namespace,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)

		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return wrap(op, namespace, sleepErr)
		}
	}

	return wrap(op, namespace, err)
}

func (r *Resilient) attempt(ctx context.Context, fn func(context.Context) error) error {
	if r.config.Timeout <= 0 {
		return fn(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	return fn(attemptCtx)
}

func (r *Resilient) backoff(attempt int) time.Duration {
	delay := r.config.BaseDelay << (attempt - 1)
	if delay <= 0 || delay > r.config.MaxDelay {
		return r.config.MaxDelay
	}

	return delay
}

// caller cancellation and permanent failures are not retried
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	if errors.Is(err, ErrTooManyRecords) || errors.Is(err, ErrInvalidTopK) {
		return false
	}

	var temporary interface{ Temporary() bool }
	if errors.As(err, &temporary) {
		return temporary.Temporary()
	}

	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
