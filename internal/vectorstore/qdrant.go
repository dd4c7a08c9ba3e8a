package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultQdrantCollection = "handbooks"
	defaultDimension        = 1536
	qdrantScrollPage        = 256

	payloadNamespace = "namespace"
	payloadRecordID  = "record_id"
	payloadText      = "text"
)

// point ids are derived from namespace and record id, so the same record id
// can live in two namespaces of one collection (rename copies rely on it)
var qdrantPointSpace = uuid.MustParse("5b0c7f2e-8d4a-4c51-9a57-3f0e6d2b9c11")

// QdrantStore implements Gateway on one Qdrant collection, using a payload
// filter on the namespace field.
type QdrantStore struct {
	endpoint   string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client

	ensureMu sync.Mutex
	ensured  bool
}

var _ Gateway = (*QdrantStore)(nil)

func NewQdrantStore(endpoint, apiKey, collection string, dimension int) (*QdrantStore, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("qdrant endpoint is required")
	}

	if collection == "" {
		collection = defaultQdrantCollection
	}

	if dimension <= 0 {
		dimension = defaultDimension
	}

	return &QdrantStore{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		collection: collection,
		dimension:  dimension,
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type qdrantPoint struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

type qdrantScoredPoint struct {
	ID      any            `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
	Vector  []float32      `json:"vector"`
}

func pointID(namespace, recordID string) string {
	return uuid.NewSHA1(qdrantPointSpace, []byte(namespace+"\x00"+recordID)).String()
}

func namespaceFilter(namespace string) map[string]any {
	return map[string]any{
		"must": []any{
			map[string]any{
				"key":   payloadNamespace,
				"match": map[string]any{"value": namespace},
			},
		},
	}
}

func (q *QdrantStore) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body) //nolint:errcheck
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// creates the collection and its namespace index on first use; failures are
// retried on the next call
func (q *QdrantStore) ensureCollection(ctx context.Context) error {
	q.ensureMu.Lock()
	defer q.ensureMu.Unlock()

	if q.ensured {
		return nil
	}

	path := "/collections/" + q.collection

	err := q.do(ctx, http.MethodGet, path, nil, nil)

	var httpErr *HTTPError
	switch {
	case err == nil:
		q.ensured = true
		return nil
	case !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusNotFound:
		return err
	}

	if err := q.do(ctx, http.MethodPut, path, map[string]any{
		"vectors": map[string]any{"size": q.dimension, "distance": "Cosine"},
	}, nil); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	if err := q.do(ctx, http.MethodPut, path+"/index?wait=true", map[string]any{
		"field_name":   payloadNamespace,
		"field_schema": "keyword",
	}, nil); err != nil {
		return fmt.Errorf("failed to create namespace index: %w", err)
	}

	q.ensured = true

	return nil
}

func (q *QdrantStore) Upsert(ctx context.Context, namespace string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	if err := q.ensureCollection(ctx); err != nil {
		return wrap(OpUpsert, namespace, err)
	}

	points := make([]qdrantPoint, 0, len(records))

	for _, r := range prepareRecords(records) {
		points = append(points, qdrantPoint{
			ID:     pointID(namespace, r.ID),
			Vector: r.Vector,
			Payload: map[string]any{
				payloadNamespace: namespace,
				payloadRecordID:  r.ID,
				payloadText:      r.Metadata.Text,
			},
		})
	}

	path := fmt.Sprintf("/collections/%s/points?wait=true", q.collection)

	return wrap(OpUpsert, namespace, q.do(ctx, http.MethodPut, path, map[string]any{"points": points}, nil))
}

func (q *QdrantStore) Query(ctx context.Context, namespace string, vector []float32, topK int, includeMetadata bool) ([]Match, error) {
	if topK <= 0 {
		return nil, wrap(OpQuery, namespace, ErrInvalidTopK)
	}

	if err := q.ensureCollection(ctx); err != nil {
		return nil, wrap(OpQuery, namespace, err)
	}

	var resp struct {
		Result []qdrantScoredPoint `json:"result"`
	}

	path := fmt.Sprintf("/collections/%s/points/search", q.collection)
	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
		"filter":       namespaceFilter(namespace),
	}

	if err := q.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, wrap(OpQuery, namespace, err)
	}

	matches := make([]Match, 0, len(resp.Result))

	for _, p := range resp.Result {
		m := Match{ID: payloadString(p.Payload, payloadRecordID), Score: p.Score}
		if includeMetadata {
			m.Metadata.Text = payloadString(p.Payload, payloadText)
		}
		matches = append(matches, m)
	}

	return matches, nil
}

func (q *QdrantStore) DeleteAll(ctx context.Context, namespace string) error {
	if err := q.ensureCollection(ctx); err != nil {
		return wrap(OpDeleteAll, namespace, err)
	}

	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", q.collection)

	return wrap(OpDeleteAll, namespace, q.do(ctx, http.MethodPost, path, map[string]any{
		"filter": namespaceFilter(namespace),
	}, nil))
}

// pages through the namespace with the scroll API
func (q *QdrantStore) FetchAll(ctx context.Context, namespace string, limit int) ([]Record, error) {
	limit = fetchLimit(limit)

	if err := q.ensureCollection(ctx); err != nil {
		return nil, wrap(OpFetchAll, namespace, err)
	}

	path := fmt.Sprintf("/collections/%s/points/scroll", q.collection)

	var records []Record
	var offset any

	for {
		body := map[string]any{
			"filter":       namespaceFilter(namespace),
			"limit":        min(qdrantScrollPage, limit+1-len(records)),
			"with_payload": true,
			"with_vector":  true,
		}
		if offset != nil {
			body["offset"] = offset
		}

		var resp struct {
			Result struct {
				Points         []qdrantScoredPoint `json:"points"`
				NextPageOffset any                 `json:"next_page_offset"`
			} `json:"result"`
		}

		if err := q.do(ctx, http.MethodPost, path, body, &resp); err != nil {
			return nil, wrap(OpFetchAll, namespace, err)
		}

		for _, p := range resp.Result.Points {
			records = append(records, Record{
				ID:       payloadString(p.Payload, payloadRecordID),
				Vector:   p.Vector,
				Metadata: Metadata{Text: payloadString(p.Payload, payloadText)},
			})
		}

		if len(records) > limit {
			return nil, wrap(OpFetchAll, namespace, fmt.Errorf("%w: more than %d", ErrTooManyRecords, limit))
		}

		if resp.Result.NextPageOffset == nil || len(resp.Result.Points) == 0 {
			return records, nil
		}

		offset = resp.Result.NextPageOffset
	}
}

func (q *QdrantStore) Health(ctx context.Context) error {
	return q.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}

	return ""
}

// HTTPError is a non-2xx response from a remote vector service.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// reports whether retrying the same request may succeed
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
