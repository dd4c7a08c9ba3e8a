package vectorstore

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyRecords = errors.New("namespace holds more records than the fetch limit")
	ErrInvalidTopK    = errors.New("topK must be positive")
)

// Error reports a failed gateway operation on one namespace.
type Error struct {
	Op        string
	Namespace string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("vector store %s on namespace %q failed: %v", e.Op, e.Namespace, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

const (
	OpUpsert    = "upsert"
	OpQuery     = "query"
	OpDeleteAll = "delete_all"
	OpFetchAll  = "fetch_all"
)

func wrap(op, namespace string, err error) error {
	if err == nil {
		return nil
	}

	var vsErr *Error
	if errors.As(err, &vsErr) {
		return err
	}

	return &Error{Op: op, Namespace: namespace, Err: err}
}
