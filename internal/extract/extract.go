// Package extract turns uploaded handbook files into plain text.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads the text layer of PDF files page by page.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText returns the text of every page, pages separated by a blank
// line. Unreadable files and files without any text fail with *Error.
func (e *PDFExtractor) ExtractText(ctx context.Context, file []byte) (text string, err error) {
	if len(file) == 0 {
		return "", &Error{Err: ErrEmptyFile}
	}

	// the pdf parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &Error{Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(file), int64(len(file)))
	if err != nil {
		return "", &Error{Err: err}
	}

	pages := make([]string, 0, reader.NumPage())

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", &Error{Page: i, Err: err}
		}

		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}

	if len(pages) == 0 {
		return "", &Error{Err: ErrNoText}
	}

	return strings.Join(pages, "\n\n"), nil
}
