package documents

import (
	"context"

	"codeberg.org/handbookqa/server/api/rest/pagination"
	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/handbook/faqs"
	"codeberg.org/handbookqa/server/internal/lifecycle"
)

// read side of the documents table
type DocumentReader interface {
	Get(ctx context.Context, companyID, id int64) (*documents.Document, error)
	ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]documents.Document, int, error)
	GetFile(ctx context.Context, companyID, id int64) (*documents.File, error)
}

type CompanyReader interface {
	GetByID(ctx context.Context, id int64) (*companies.Company, error)
}

type FAQReader interface {
	ListByDocument(ctx context.Context, documentID int64) ([]faqs.FAQ, error)
}

// write side, implemented by lifecycle.Manager
type Lifecycle interface {
	Create(ctx context.Context, company *companies.Company, name string, file documents.File) (*documents.Document, error)
	Update(ctx context.Context, company *companies.Company, doc *documents.Document, req lifecycle.UpdateRequest) (*documents.Document, error)
	Delete(ctx context.Context, company *companies.Company, doc *documents.Document) (*lifecycle.DeletionWarning, error)
}

// everything the document routes need
type Deps struct {
	Documents     DocumentReader
	Companies     CompanyReader
	FAQs          FAQReader
	Lifecycle     Lifecycle
	JWTSecret     string
	MaxUploadSize int64
}

// DocumentsListResponse wraps a list of documents with pagination
type DocumentsListResponse struct {
	Documents  []documents.Document `json:"documents"`
	Pagination pagination.Meta      `json:"pagination"`
}

type DocumentResponse struct {
	Document documents.Document `json:"document"`
}

type CreateDocumentResponse struct {
	Document documents.Document `json:"document"`
	Message  string             `json:"message"`
}

type UpdateDocumentResponse struct {
	Document documents.Document `json:"document"`
	Message  string             `json:"message"`
}

// Warning is set when the vectors outlived the row
type DeleteDocumentResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

type FAQsResponse struct {
	DocumentID int64      `json:"document_id"`
	FAQs       []faqs.FAQ `json:"faqs"`
}
