package retriever

import "fmt"

const (
	StageEmbed    = "embed"
	StageQuery    = "query"
	StageGenerate = "generate"
	StageList     = "list_documents"
)

// RetrievalError aborts a question. Namespace is set when a single
// namespace query failed.
type RetrievalError struct {
	Stage     string
	Namespace string
	Err       error
}

func (e *RetrievalError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("retrieval failed at %s in %s: %v", e.Stage, e.Namespace, e.Err)
	}

	return fmt.Sprintf("retrieval failed at %s: %v", e.Stage, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
