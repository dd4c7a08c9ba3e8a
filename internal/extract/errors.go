package extract

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFile = errors.New("file is empty")
	ErrNoText    = errors.New("file contains no extractable text")
)

// Error reports a file whose text could not be extracted. Page is 0 when the
// failure is not tied to a page.
type Error struct {
	Page int
	Err  error
}

func (e *Error) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("text extraction failed on page %d: %v", e.Page, e.Err)
	}

	return fmt.Sprintf("text extraction failed: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
