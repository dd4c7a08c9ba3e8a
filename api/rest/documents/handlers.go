package documents

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/handbookqa/server/api/rest/pagination"
	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/internal/auth"
	"codeberg.org/handbookqa/server/internal/errors"
	"codeberg.org/handbookqa/server/internal/lifecycle"
	"github.com/gin-gonic/gin"
)

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

// ListDocumentsHandler godoc
// @Summary List the company's documents
// @Tags documents
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} DocumentsListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/documents [get]
// @Security BearerAuth
func ListDocumentsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := auth.GetCompanyID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		params := paginationParams(c)

		docs, total, err := deps.Documents.ListByCompany(c.Request.Context(), companyID, params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list documents", err)
			return
		}

		c.JSON(http.StatusOK, DocumentsListResponse{
			Documents:  docs,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}

// CreateDocumentHandler godoc
// @Summary Upload a handbook document
// @Description Extracts the PDF text, indexes it and stores the document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Document name, unique across all companies"
// @Param file formData file true "PDF file"
// @Success 201 {object} CreateDocumentResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/documents [post]
// @Security BearerAuth
func CreateDocumentHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		company, ok := currentCompany(c, deps)
		if !ok {
			return
		}

		limitBody(c, deps.MaxUploadSize)

		name := c.PostForm("name")
		if err := validateName(name); err != nil {
			errors.BadRequest(c, err.Error(), nil)
			return
		}

		file, err := readUpload(c, deps.MaxUploadSize)
		if err != nil {
			respondUploadError(c, err)
			return
		}

		if file == nil {
			errors.BadRequest(c, "file is required", nil)
			return
		}

		doc, err := deps.Lifecycle.Create(c.Request.Context(), company, name, *file)
		if err != nil {
			respondLifecycleError(c, "failed to create document", err)
			return
		}

		c.JSON(http.StatusCreated, CreateDocumentResponse{
			Document: *doc,
			Message:  "document created",
		})
	}
}

// GetDocumentHandler godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} DocumentResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/documents/{id} [get]
// @Security BearerAuth
func GetDocumentHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := currentDocument(c, deps)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, DocumentResponse{Document: *doc})
	}
}

// DownloadDocumentHandler godoc
// @Summary Download the stored PDF
// @Tags documents
// @Produce application/pdf
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/documents/{id}/file [get]
// @Security BearerAuth
func DownloadDocumentHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID, ok := auth.GetCompanyID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		id, ok := errors.ValidatePathID(c, "id", "document")
		if !ok {
			return
		}

		file, err := deps.Documents.GetFile(c.Request.Context(), companyID, id)
		if stderrors.Is(err, documents.ErrNotFound) {
			errors.NotFound(c, "document")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to load document file", err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
		c.Data(http.StatusOK, "application/pdf", file.Content)
	}
}

// ListFAQsHandler godoc
// @Summary List generated questions for a document
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} FAQsResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/documents/{id}/faqs [get]
// @Security BearerAuth
func ListFAQsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := currentDocument(c, deps)
		if !ok {
			return
		}

		list, err := deps.FAQs.ListByDocument(c.Request.Context(), doc.ID)
		if err != nil {
			errors.InternalError(c, "failed to list faqs", err)
			return
		}

		c.JSON(http.StatusOK, FAQsResponse{DocumentID: doc.ID, FAQs: list})
	}
}

// UpdateDocumentHandler godoc
// @Summary Rename a document and/or replace its file
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Document ID"
// @Param name formData string false "New name"
// @Param file formData file false "New PDF file"
// @Success 200 {object} UpdateDocumentResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/documents/{id} [put]
// @Security BearerAuth
func UpdateDocumentHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		company, ok := currentCompany(c, deps)
		if !ok {
			return
		}

		doc, ok := currentDocument(c, deps)
		if !ok {
			return
		}

		limitBody(c, deps.MaxUploadSize)

		var req lifecycle.UpdateRequest

		if name, exists := c.GetPostForm("name"); exists {
			if err := validateName(name); err != nil {
				errors.BadRequest(c, err.Error(), nil)
				return
			}
			req.Name = &name
		}

		file, err := readUpload(c, deps.MaxUploadSize)
		if err != nil {
			respondUploadError(c, err)
			return
		}
		req.File = file

		if req.Name == nil && req.File == nil {
			errors.BadRequest(c, "nothing to update: send a name or a file", nil)
			return
		}

		updated, err := deps.Lifecycle.Update(c.Request.Context(), company, doc, req)
		if err != nil {
			respondLifecycleError(c, "failed to update document", err)
			return
		}

		c.JSON(http.StatusOK, UpdateDocumentResponse{
			Document: *updated,
			Message:  "document updated",
		})
	}
}

// DeleteDocumentHandler godoc
// @Summary Delete a document and its index
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} DeleteDocumentResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/documents/{id} [delete]
// @Security BearerAuth
func DeleteDocumentHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		company, ok := currentCompany(c, deps)
		if !ok {
			return
		}

		doc, ok := currentDocument(c, deps)
		if !ok {
			return
		}

		warning, err := deps.Lifecycle.Delete(c.Request.Context(), company, doc)
		if err != nil {
			respondLifecycleError(c, "failed to delete document", err)
			return
		}

		resp := DeleteDocumentResponse{Message: "document deleted"}
		if warning != nil {
			resp.Warning = "document deleted but its search index could not be cleaned up"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// loads the authenticated company, responding on failure
func currentCompany(c *gin.Context, deps Deps) (*companies.Company, bool) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return nil, false
	}

	company, err := deps.Companies.GetByID(c.Request.Context(), companyID)
	if stderrors.Is(err, companies.ErrNotFound) {
		errors.Unauthorized(c, "company no longer exists")
		return nil, false
	}

	if err != nil {
		errors.InternalError(c, "failed to load company", err)
		return nil, false
	}

	return company, true
}

// loads the :id document of the authenticated company. Documents of other
// companies answer 404.
func currentDocument(c *gin.Context, deps Deps) (*documents.Document, bool) {
	companyID, ok := auth.GetCompanyID(c)
	if !ok {
		errors.Unauthorized(c, "")
		return nil, false
	}

	id, ok := errors.ValidatePathID(c, "id", "document")
	if !ok {
		return nil, false
	}

	doc, err := deps.Documents.Get(c.Request.Context(), companyID, id)
	if stderrors.Is(err, documents.ErrNotFound) {
		errors.NotFound(c, "document")
		return nil, false
	}

	if err != nil {
		errors.InternalError(c, "failed to load document", err)
		return nil, false
	}

	return doc, true
}

func limitBody(c *gin.Context, maxSize int64) {
	if maxSize <= 0 {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)
}
