package lifecycle

import "fmt"

// stage names carried by IngestionError and UpdateError
const (
	StageLock    = "lock"
	StageExtract = "extract"
	StageEmbed   = "embed"
	StageClear   = "clear"
	StageUpsert  = "upsert"
	StageStore   = "store"
	StageFetch   = "fetch"
	StageCleanup = "cleanup"
)

// IngestionError aborts a Create. The document row is never inserted.
type IngestionError struct {
	Namespace string
	Stage     string
	Err       error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion into %s failed at %s: %v", e.Namespace, e.Stage, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// UpdateError reports a failed ReplaceContent or Rename. Stage tells how far
// the operation got, which is what an operator needs to reconcile the row
// with the namespace.
type UpdateError struct {
	DocumentID int64
	Namespace  string
	Stage      string
	Err        error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update of document %d (%s) failed at %s: %v", e.DocumentID, e.Namespace, e.Stage, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// DeletionWarning means the document row is gone but its vectors were left
// behind in Namespace.
type DeletionWarning struct {
	DocumentID int64
	Namespace  string
	Err        error
}

func (w *DeletionWarning) Error() string {
	return fmt.Sprintf("document %d deleted but vectors in %s remain: %v", w.DocumentID, w.Namespace, w.Err)
}

func (w *DeletionWarning) Unwrap() error {
	return w.Err
}
