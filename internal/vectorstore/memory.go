package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps every namespace in process and scores queries by brute
// force cosine similarity. It is meant for tests and local development.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]*memoryNamespace
}

type memoryNamespace struct {
	order   []string
	records map[string]Record
}

var _ Gateway = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string]*memoryNamespace)}
}

func (s *MemoryStore) Upsert(ctx context.Context, namespace string, records []Record) error {
	if err := ctx.Err(); err != nil {
		return wrap(OpUpsert, namespace, err)
	}

	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = &memoryNamespace{records: make(map[string]Record)}
		s.namespaces[namespace] = ns
	}

	for _, r := range prepareRecords(records) {
		if _, exists := ns.records[r.ID]; !exists {
			ns.order = append(ns.order, r.ID)
		}
		ns.records[r.ID] = r
	}

	return nil
}

func (s *MemoryStore) Query(ctx context.Context, namespace string, vector []float32, topK int, includeMetadata bool) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(OpQuery, namespace, err)
	}

	if topK <= 0 {
		return nil, wrap(OpQuery, namespace, ErrInvalidTopK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		return nil, nil
	}

	matches := make([]Match, 0, len(ns.order))

	for _, id := range ns.order {
		r := ns.records[id]
		m := Match{ID: r.ID, Score: cosineSimilarity(vector, r.Vector)}
		if includeMetadata {
			m.Metadata = r.Metadata
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context, namespace string) error {
	if err := ctx.Err(); err != nil {
		return wrap(OpDeleteAll, namespace, err)
	}

	s.mu.Lock()
	delete(s.namespaces, namespace)
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) FetchAll(ctx context.Context, namespace string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(OpFetchAll, namespace, err)
	}

	limit = fetchLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		return nil, nil
	}

	if len(ns.order) > limit {
		return nil, wrap(OpFetchAll, namespace, fmt.Errorf("%w: more than %d", ErrTooManyRecords, limit))
	}

	out := make([]Record, 0, len(ns.order))
	for _, id := range ns.order {
		r := ns.records[id]
		r.Vector = append([]float32(nil), r.Vector...)
		out = append(out, r)
	}

	return out, nil
}

// returns the number of records held in namespace
func (s *MemoryStore) Count(namespace string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ns, ok := s.namespaces[namespace]; ok {
		return len(ns.records)
	}

	return 0
}
