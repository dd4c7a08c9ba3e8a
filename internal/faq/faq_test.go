package faq

import (
	"context"
	"errors"
	"strings"
	"testing"

	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	sources []documents.Source
	err     error
	asked   []*int64
}

func (m *mockSource) ListSources(_ context.Context, documentID *int64) ([]documents.Source, error) {
	m.asked = append(m.asked, documentID)
	return m.sources, m.err
}

type mockFAQStore struct {
	stored  map[int64][]string
	failFor int64
}

func (m *mockFAQStore) CreateMany(_ context.Context, documentID int64, questions []string) error {
	if documentID == m.failFor {
		return errors.New("insert failed")
	}
	if m.stored == nil {
		m.stored = make(map[int64][]string)
	}
	m.stored[documentID] = append(m.stored[documentID], questions...)
	return nil
}

func (m *mockFAQStore) Count(context.Context) (int, error) {
	n := 0
	for _, qs := range m.stored {
		n += len(qs)
	}
	return n, nil
}

type mockGenerator struct {
	generateFunc func(ctx context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error)
	requests     []llm.TextGenerationRequest
}

func (m *mockGenerator) GenerateText(ctx context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
	m.requests = append(m.requests, req)
	return m.generateFunc(ctx, req)
}

func (m *mockGenerator) Model() string {
	return "mock-model"
}

func seed(t *testing.T, store *vectorstore.MemoryStore, ns string, texts ...string) {
	t.Helper()

	records := make([]vectorstore.Record, len(texts))
	for i, text := range texts {
		records[i] = vectorstore.Record{Vector: []float32{1, 0}, Metadata: vectorstore.Metadata{Text: text}}
	}
	require.NoError(t, store.Upsert(context.Background(), ns, records))
}

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{"plain", "How much PTO?|Can I work remotely?", []string{"How much PTO?", "Can I work remotely?"}},
		{"whitespace", "  A? | B?  |\nC?\n", []string{"A?", "B?", "C?"}},
		{"empties", "A?||B?|", []string{"A?", "B?"}},
		{"capped", "1|2|3|4|5|6|7", []string{"1", "2", "3", "4", "5"}},
		{"nothing", "  ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseQuestions(tt.output))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("Acme Corp", "Vacation policy: 20 days.")

	assert.Contains(t, prompt, "You are an employee at Acme Corp.")
	assert.Contains(t, prompt, "generate 5 realistic questions")
	assert.Contains(t, prompt, "Vacation policy: 20 days.")
	assert.Contains(t, prompt, `Separate each question with the "|" character.`)
}

func TestRunStoresQuestionsPerDocument(t *testing.T) {
	vectors := vectorstore.NewMemoryStore()
	seed(t, vectors, "company-acme-corp-doc-employee-guide", "Vacation policy: 20 days.", "Sick leave: 5 days.")

	source := &mockSource{sources: []documents.Source{
		{DocumentID: 10, DocumentName: "Employee Guide", CompanyName: "Acme Corp"},
	}}
	store := &mockFAQStore{}
	gen := &mockGenerator{
		generateFunc: func(_ context.Context, _ llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			return &llm.TextGenerationResponse{Text: "How many vacation days do I get?|How do I report sick leave?"}, nil
		},
	}

	summary, err := NewService(source, store, vectors, gen).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{Documents: 1, Generated: 2, TotalFAQs: 2}, summary)
	assert.Equal(t, []string{"How many vacation days do I get?", "How do I report sick leave?"}, store.stored[10])

	require.Len(t, gen.requests, 1)
	assert.Equal(t, float32(0), gen.requests[0].Temperature)
	assert.Contains(t, gen.requests[0].Messages[0].Content, "Vacation policy: 20 days.\n\nSick leave: 5 days.")
}

func TestRunSingleDocument(t *testing.T) {
	id := int64(3)
	source := &mockSource{}

	_, err := NewService(source, &mockFAQStore{}, vectorstore.NewMemoryStore(), &mockGenerator{}).Run(context.Background(), &id)
	require.NoError(t, err)

	require.Len(t, source.asked, 1)
	assert.Equal(t, &id, source.asked[0])
}

func TestRunContinuesPastFailures(t *testing.T) {
	vectors := vectorstore.NewMemoryStore()
	seed(t, vectors, "company-acme-doc-a", "alpha")
	seed(t, vectors, "company-acme-doc-b", "beta")
	seed(t, vectors, "company-acme-doc-c", "gamma")

	source := &mockSource{sources: []documents.Source{
		{DocumentID: 1, DocumentName: "a", CompanyName: "Acme"},
		{DocumentID: 2, DocumentName: "b", CompanyName: "Acme"},
		{DocumentID: 3, DocumentName: "c", CompanyName: "Acme"},
		{DocumentID: 4, DocumentName: "empty", CompanyName: "Acme"},
	}}
	store := &mockFAQStore{failFor: 3}
	gen := &mockGenerator{
		generateFunc: func(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			if strings.Contains(req.Messages[0].Content, "beta") {
				return nil, errors.New("model overloaded")
			}
			return &llm.TextGenerationResponse{Text: "Q1?|Q2?|Q3?"}, nil
		},
	}

	summary, err := NewService(source, store, vectors, gen).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Documents)
	assert.Equal(t, 3, summary.Generated)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 3, summary.TotalFAQs)
	assert.Len(t, store.stored[1], 3)
}

func TestRunFetchCeilingFailsDocument(t *testing.T) {
	vectors := vectorstore.NewMemoryStore()
	seed(t, vectors, "company-acme-doc-a", "one", "two", "three")

	source := &mockSource{sources: []documents.Source{{DocumentID: 1, DocumentName: "a", CompanyName: "Acme"}}}

	summary, err := NewService(source, &mockFAQStore{}, vectors, &mockGenerator{}, WithFetchLimit(2)).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
}

func TestRunListFailure(t *testing.T) {
	source := &mockSource{err: errors.New("db down")}

	_, err := NewService(source, &mockFAQStore{}, vectorstore.NewMemoryStore(), &mockGenerator{}).Run(context.Background(), nil)
	assert.Error(t, err)
}
