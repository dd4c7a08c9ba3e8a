package vectorstore

import (
	"context"
	"time"

	"codeberg.org/handbookqa/server/internal/metrics"
)

// Instrumented records latency and outcome of every gateway operation.
type Instrumented struct {
	next    Gateway
	backend string
}

var _ Gateway = (*Instrumented)(nil)

func NewInstrumented(next Gateway, backend Backend) *Instrumented {
	return &Instrumented{next: next, backend: string(backend)}
}

func (i *Instrumented) observe(op string, start time.Time, err error) {
	metrics.VectorStoreDuration.
		WithLabelValues(i.backend, op, metrics.Result(err)).
		Observe(time.Since(start).Seconds())
}

func (i *Instrumented) Upsert(ctx context.Context, namespace string, records []Record) error {
	start := time.Now()
	err := i.next.Upsert(ctx, namespace, records)
	i.observe(OpUpsert, start, err)

	return err
}

func (i *Instrumented) Query(ctx context.Context, namespace string, vector []float32, topK int, includeMetadata bool) ([]Match, error) {
	start := time.Now()
	matches, err := i.next.Query(ctx, namespace, vector, topK, includeMetadata)
	i.observe(OpQuery, start, err)

	return matches, err
}

func (i *Instrumented) DeleteAll(ctx context.Context, namespace string) error {
	start := time.Now()
	err := i.next.DeleteAll(ctx, namespace)
	i.observe(OpDeleteAll, start, err)

	return err
}

func (i *Instrumented) FetchAll(ctx context.Context, namespace string, limit int) ([]Record, error) {
	start := time.Now()
	records, err := i.next.FetchAll(ctx, namespace, limit)
	i.observe(OpFetchAll, start, err)

	return records, err
}
