package retriever

import (
	"context"
	"errors"
	"testing"

	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEmbedder struct {
	calls int
	err   error
}

func (m *mockEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []float32{1, 0}, nil
}

func (m *mockEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// answers per-namespace queries from a fixed table
type stubGateway struct {
	vectorstore.Gateway
	matches map[string][]vectorstore.Match
	fail    map[string]error
	queried []string
	topKs   []int
}

func (s *stubGateway) Query(_ context.Context, ns string, _ []float32, topK int, _ bool) ([]vectorstore.Match, error) {
	s.queried = append(s.queried, ns)
	s.topKs = append(s.topKs, topK)

	if err := s.fail[ns]; err != nil {
		return nil, &vectorstore.Error{Op: vectorstore.OpQuery, Namespace: ns, Err: err}
	}

	return s.matches[ns], nil
}

type mockAnswerer struct {
	contexts  []string
	questions []string
	err       error
}

func (m *mockAnswerer) Generate(_ context.Context, contextText, question string) (string, error) {
	m.contexts = append(m.contexts, contextText)
	m.questions = append(m.questions, question)
	if m.err != nil {
		return "", m.err
	}
	return "answer: " + question, nil
}

type mockLister struct {
	names []string
	err   error
	asked []int64
}

func (m *mockLister) ListNames(_ context.Context, companyID int64) ([]string, error) {
	m.asked = append(m.asked, companyID)
	return m.names, m.err
}

func match(id string, score float32, text string) vectorstore.Match {
	return vectorstore.Match{ID: id, Score: score, Metadata: vectorstore.Metadata{Text: text}}
}

// verifies the merge logic works correctly
func TestMergeAndRank(t *testing.T) {
	hits := []Hit{
		{Namespace: "a", Match: match("1", 0.80, "a1")},
		{Namespace: "a", Match: match("2", 0.70, "a2")},
		{Namespace: "b", Match: match("3", 0.95, "b1")},
		{Namespace: "b", Match: match("4", 0.70, "b2")},
	}

	merged := mergeAndRank(hits, 3)
	require.Len(t, merged, 3)

	assert.Equal(t, "3", merged[0].ID)
	assert.Equal(t, "1", merged[1].ID)
	// tie at 0.70 keeps namespace order
	assert.Equal(t, "2", merged[2].ID)
	assert.Equal(t, "a", merged[2].Namespace)

	// input untouched
	assert.Equal(t, "1", hits[0].ID)
}

func TestMergeAndRankShortInput(t *testing.T) {
	hits := []Hit{{Match: match("1", 0.5, "x")}}
	assert.Len(t, mergeAndRank(hits, 3), 1)
	assert.Empty(t, mergeAndRank(nil, 3))
}

func TestAnswerBuildsContextFromTopK(t *testing.T) {
	gw := &stubGateway{matches: map[string][]vectorstore.Match{
		"ns-a": {match("1", 0.9, "vacation policy"), match("2", 0.4, "parking")},
		"ns-b": {match("3", 0.8, "sick leave"), match("4", 0.6, "holidays")},
	}}
	emb := &mockEmbedder{}
	gen := &mockAnswerer{}

	engine := NewEngine(emb, gw, gen, nil)

	got, err := engine.Answer(context.Background(), "How many days off?", []string{"ns-a", "ns-b"}, 0)
	require.NoError(t, err)

	assert.Equal(t, "answer: How many days off?", got)
	assert.Equal(t, 1, emb.calls)
	assert.Equal(t, []string{"ns-a", "ns-b"}, gw.queried)
	assert.Equal(t, []int{3, 3}, gw.topKs)
	require.Len(t, gen.contexts, 1)
	assert.Equal(t, "vacation policy\n\nsick leave\n\nholidays", gen.contexts[0])
}

func TestAnswerWithNoNamespaces(t *testing.T) {
	emb := &mockEmbedder{}
	gen := &mockAnswerer{}

	got, err := NewEngine(emb, &stubGateway{}, gen, nil).Answer(context.Background(), "Anything?", nil, 3)
	require.NoError(t, err)

	assert.Equal(t, "answer: Anything?", got)
	assert.Equal(t, 0, emb.calls)
	assert.Equal(t, []string{""}, gen.contexts)
}

func TestAnswerAbortsOnNamespaceFailure(t *testing.T) {
	boom := errors.New("index unavailable")
	gw := &stubGateway{
		matches: map[string][]vectorstore.Match{"ns-a": {match("1", 0.9, "x")}},
		fail:    map[string]error{"ns-b": boom},
	}
	gen := &mockAnswerer{}

	_, err := NewEngine(&mockEmbedder{}, gw, gen, nil).Answer(context.Background(), "q", []string{"ns-a", "ns-b", "ns-c"}, 3)

	var rErr *RetrievalError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, StageQuery, rErr.Stage)
	assert.Equal(t, "ns-b", rErr.Namespace)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"ns-a", "ns-b"}, gw.queried)
	assert.Empty(t, gen.contexts)
}

func TestAnswerEmbeddingFailure(t *testing.T) {
	boom := errors.New("rate limited")

	_, err := NewEngine(&mockEmbedder{err: boom}, &stubGateway{}, &mockAnswerer{}, nil).
		Answer(context.Background(), "q", []string{"ns"}, 3)

	var rErr *RetrievalError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, StageEmbed, rErr.Stage)
	assert.ErrorIs(t, err, boom)
}

func TestAnswerGenerationFailure(t *testing.T) {
	boom := errors.New("model overloaded")

	_, err := NewEngine(&mockEmbedder{}, &stubGateway{}, &mockAnswerer{err: boom}, nil).
		Answer(context.Background(), "q", nil, 3)

	var rErr *RetrievalError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, StageGenerate, rErr.Stage)
}

func TestAskDerivesNamespacesInCreationOrder(t *testing.T) {
	lister := &mockLister{names: []string{"Employee Guide", "Benefits 2024"}}
	gw := &stubGateway{}

	engine := NewEngine(&mockEmbedder{}, gw, &mockAnswerer{}, lister, WithTopK(5))

	_, err := engine.Ask(context.Background(), &companies.Company{ID: 7, Name: "Acme Corp"}, "q")
	require.NoError(t, err)

	assert.Equal(t, []int64{7}, lister.asked)
	assert.Equal(t, []string{
		"company-acme-corp-doc-employee-guide",
		"company-acme-corp-doc-benefits-2024",
	}, gw.queried)
	assert.Equal(t, []int{5, 5}, gw.topKs)
}

func TestAskListFailure(t *testing.T) {
	lister := &mockLister{err: errors.New("db down")}

	_, err := NewEngine(&mockEmbedder{}, &stubGateway{}, &mockAnswerer{}, lister).
		Ask(context.Background(), &companies.Company{ID: 1, Name: "x"}, "q")

	var rErr *RetrievalError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, StageList, rErr.Stage)
}

func TestRetrieveAgainstMemoryStore(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ns", []vectorstore.Record{
		{ID: "near", Vector: []float32{1, 0}, Metadata: vectorstore.Metadata{Text: "near"}},
		{ID: "far", Vector: []float32{0, 1}, Metadata: vectorstore.Metadata{Text: "far"}},
	}))

	hits, err := NewEngine(&mockEmbedder{}, store, &mockAnswerer{}, nil).Retrieve(ctx, "q", []string{"ns"}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "near", hits[0].ID)
	assert.Equal(t, "ns", hits[0].Namespace)
}

func TestLoadRetrieverConfig(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "6")
	assert.Equal(t, 6, loadRetrieverConfig().TopK)

	t.Setenv("RETRIEVAL_TOP_K", "nope")
	assert.Equal(t, DefaultTopK, loadRetrieverConfig().TopK)

	t.Setenv("RETRIEVAL_TOP_K", "-2")
	assert.Equal(t, DefaultTopK, loadRetrieverConfig().TopK)
}
