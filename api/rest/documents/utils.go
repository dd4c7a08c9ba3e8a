package documents

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/handbookqa/server/api/rest/pagination"
	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/internal/errors"
	"codeberg.org/handbookqa/server/internal/extract"
	"codeberg.org/handbookqa/server/internal/lifecycle"
	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/vectorstore"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxNameLength   = 200
)

var (
	errNotPDF       = stderrors.New("only .pdf files are accepted")
	errFileTooLarge = stderrors.New("file too large")
)

func paginationParams(c *gin.Context) pagination.Params {
	limit, _ := strconv.Atoi(c.Query("limit"))   //nolint:errcheck // falls back to default
	offset, _ := strconv.Atoi(c.Query("offset")) //nolint:errcheck // falls back to default

	return pagination.DefaultParams(limit, offset, defaultPageSize, maxPageSize)
}

// readUpload returns the "file" form field, or nil when the request has none
func readUpload(c *gin.Context, maxSize int64) (*documents.File, error) {
	header, err := c.FormFile("file")
	if stderrors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}

	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return nil, errFileTooLarge
		}
		return nil, err
	}

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return nil, errNotPDF
	}

	if maxSize > 0 && header.Size > maxSize {
		return nil, errFileTooLarge
	}

	content, err := readAll(header)
	if err != nil {
		return nil, err
	}

	return &documents.File{
		Name:    filepath.Base(header.Filename),
		Content: content,
	}, nil
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	return io.ReadAll(f)
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return stderrors.New("name is required")
	}

	if len(name) > maxNameLength {
		return fmt.Errorf("name must be at most %d characters", maxNameLength)
	}

	return nil
}

// respondUploadError maps upload parsing failures to responses
func respondUploadError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, errFileTooLarge):
		errors.PayloadTooLarge(c, "")
	case stderrors.Is(err, errNotPDF):
		errors.BadRequest(c, errNotPDF.Error(), nil)
	default:
		errors.BadRequest(c, "invalid upload", err)
	}
}

// respondLifecycleError maps manager failures to responses
func respondLifecycleError(c *gin.Context, message string, err error) {
	var (
		extractErr *extract.Error
		embedErr   *llm.EmbeddingError
		vsErr      *vectorstore.Error
	)

	switch {
	case stderrors.Is(err, documents.ErrNameTaken):
		errors.Conflict(c, "a document with this name already exists")
	case stderrors.Is(err, lifecycle.ErrInvalidName):
		errors.BadRequest(c, lifecycle.ErrInvalidName.Error(), nil)
	case stderrors.Is(err, documents.ErrNotFound):
		errors.NotFound(c, "document")
	case stderrors.As(err, &extractErr):
		errors.Unprocessable(c, "could not read text from the uploaded pdf", err)
	case stderrors.As(err, &embedErr), stderrors.As(err, &vsErr):
		errors.UpstreamError(c, message, err)
	default:
		errors.InternalError(c, message, err)
	}
}
