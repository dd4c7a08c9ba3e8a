package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/handbook/faqs"
	"codeberg.org/handbookqa/server/internal/auth"
	"codeberg.org/handbookqa/server/internal/extract"
	"codeberg.org/handbookqa/server/internal/lifecycle"
	"codeberg.org/handbookqa/server/internal/vectorstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeDocs struct {
	docs map[int64]*documents.Document
}

func (f *fakeDocs) Get(_ context.Context, companyID, id int64) (*documents.Document, error) {
	doc, ok := f.docs[id]
	if !ok || doc.CompanyID != companyID {
		return nil, documents.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocs) ListByCompany(_ context.Context, companyID int64, limit, offset int) ([]documents.Document, int, error) {
	var out []documents.Document
	for id := int64(1); id <= int64(len(f.docs)); id++ {
		if d, ok := f.docs[id]; ok && d.CompanyID == companyID {
			out = append(out, *d)
		}
	}

	total := len(out)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return out[offset:end], total, nil
}

func (f *fakeDocs) GetFile(ctx context.Context, companyID, id int64) (*documents.File, error) {
	doc, err := f.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return &documents.File{Name: doc.FileName, Content: []byte("%PDF-1.4")}, nil
}

type fakeCompanies struct{}

func (fakeCompanies) GetByID(_ context.Context, id int64) (*companies.Company, error) {
	if id == 99 {
		return nil, companies.ErrNotFound
	}
	return &companies.Company{ID: id, Name: fmt.Sprintf("Company %d", id)}, nil
}

type fakeFAQs struct{}

func (fakeFAQs) ListByDocument(_ context.Context, documentID int64) ([]faqs.FAQ, error) {
	return []faqs.FAQ{{ID: 1, DocumentID: documentID, Question: "How many vacation days?"}}, nil
}

type fakeLifecycle struct {
	createErr error
	updateErr error
	warning   *lifecycle.DeletionWarning

	created *documents.File
	update  *lifecycle.UpdateRequest
	deleted *documents.Document
}

func (f *fakeLifecycle) Create(_ context.Context, company *companies.Company, name string, file documents.File) (*documents.Document, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &file
	return &documents.Document{ID: 10, CompanyID: company.ID, Name: name, FileName: file.Name, FileSize: int64(len(file.Content))}, nil
}

func (f *fakeLifecycle) Update(_ context.Context, _ *companies.Company, doc *documents.Document, req lifecycle.UpdateRequest) (*documents.Document, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.update = &req

	updated := *doc
	if req.Name != nil {
		updated.Name = *req.Name
	}
	return &updated, nil
}

func (f *fakeLifecycle) Delete(_ context.Context, _ *companies.Company, doc *documents.Document) (*lifecycle.DeletionWarning, error) {
	f.deleted = doc
	return f.warning, nil
}

func setup(t *testing.T, lc *fakeLifecycle) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docs := &fakeDocs{docs: map[int64]*documents.Document{
		1: {ID: 1, CompanyID: 1, Name: "Guide", FileName: "guide.pdf", CreatedAt: time.Now()},
		2: {ID: 2, CompanyID: 1, Name: "Benefits", FileName: "benefits.pdf", CreatedAt: time.Now()},
		3: {ID: 3, CompanyID: 2, Name: "Other", FileName: "other.pdf", CreatedAt: time.Now()},
	}}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Deps{
		Documents:     docs,
		Companies:     fakeCompanies{},
		FAQs:          fakeFAQs{},
		Lifecycle:     lc,
		JWTSecret:     testSecret,
		MaxUploadSize: 1024,
	})
	return router
}

func token(t *testing.T, companyID int64) string {
	t.Helper()

	tok, err := auth.GenerateJWT(testSecret, companyID, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

type formField struct {
	name, value string
}

func multipartBody(t *testing.T, fileName string, content []byte, fields ...formField) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, f := range fields {
		require.NoError(t, w.WriteField(f.name, f.value))
	}

	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func do(router *gin.Engine, req *http.Request, auth string) *httptest.ResponseRecorder {
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoutesRequireAuth(t *testing.T) {
	router := setup(t, &fakeLifecycle{})

	w := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListDocumentsScopedToCompany(t *testing.T) {
	router := setup(t, &fakeLifecycle{})

	w := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents?limit=1", nil), token(t, 1))
	require.Equal(t, http.StatusOK, w.Code)

	var resp DocumentsListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "Guide", resp.Documents[0].Name)
	assert.Equal(t, 2, resp.Pagination.Total)
	assert.True(t, resp.Pagination.HasMore)
}

func TestGetDocumentOfAnotherCompanyIsNotFound(t *testing.T) {
	router := setup(t, &fakeLifecycle{})

	w := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents/3", nil), token(t, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents/abc", nil), token(t, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadDocument(t *testing.T) {
	router := setup(t, &fakeLifecycle{})

	w := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents/1/file", nil), token(t, 1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "guide.pdf")
}

func TestListFAQs(t *testing.T) {
	router := setup(t, &fakeLifecycle{})

	w := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/documents/2/faqs", nil), token(t, 1))
	require.Equal(t, http.StatusOK, w.Code)

	var resp FAQsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.DocumentID)
	assert.Len(t, resp.FAQs, 1)
}

func TestCreateDocument(t *testing.T) {
	lc := &fakeLifecycle{}
	router := setup(t, lc)

	body, contentType := multipartBody(t, "guide.pdf", []byte("%PDF-1.4 data"), formField{"name", "Onboarding"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)

	w := do(router, req, token(t, 1))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateDocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Onboarding", resp.Document.Name)
	require.NotNil(t, lc.created)
	assert.Equal(t, "guide.pdf", lc.created.Name)
}

func TestCreateDocumentValidation(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  []byte
		fields   []formField
		want     int
	}{
		{"missing name", "guide.pdf", []byte("x"), nil, http.StatusBadRequest},
		{"missing file", "", nil, []formField{{"name", "Guide"}}, http.StatusBadRequest},
		{"not a pdf", "guide.docx", []byte("x"), []formField{{"name", "Guide"}}, http.StatusBadRequest},
		{"too large", "guide.pdf", bytes.Repeat([]byte("a"), 2048), []formField{{"name", "Guide"}}, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setup(t, &fakeLifecycle{})

			body, contentType := multipartBody(t, tt.fileName, tt.content, tt.fields...)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
			req.Header.Set("Content-Type", contentType)

			assert.Equal(t, tt.want, do(router, req, token(t, 1)).Code)
		})
	}
}

func TestCreateDocumentErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"name taken", documents.ErrNameTaken, http.StatusConflict},
		{"invalid name", lifecycle.ErrInvalidName, http.StatusBadRequest},
		{"unreadable pdf", &lifecycle.IngestionError{Stage: lifecycle.StageExtract, Err: &extract.Error{Err: extract.ErrNoText}}, http.StatusUnprocessableEntity},
		{"vector store down", &lifecycle.IngestionError{Stage: lifecycle.StageUpsert, Err: &vectorstore.Error{Op: vectorstore.OpUpsert, Err: errors.New("refused")}}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setup(t, &fakeLifecycle{createErr: tt.err})

			body, contentType := multipartBody(t, "guide.pdf", []byte("x"), formField{"name", "Guide"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
			req.Header.Set("Content-Type", contentType)

			assert.Equal(t, tt.want, do(router, req, token(t, 1)).Code)
		})
	}
}

func TestCreateDocumentForDeletedCompany(t *testing.T) {
	router := setup(t, &fakeLifecycle{})

	body, contentType := multipartBody(t, "guide.pdf", []byte("x"), formField{"name", "Guide"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)

	assert.Equal(t, http.StatusUnauthorized, do(router, req, token(t, 99)).Code)
}

func TestUpdateDocumentRenameOnly(t *testing.T) {
	lc := &fakeLifecycle{}
	router := setup(t, lc)

	body, contentType := multipartBody(t, "", nil, formField{"name", "Handbook"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/documents/1", body)
	req.Header.Set("Content-Type", contentType)

	w := do(router, req, token(t, 1))
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, lc.update)
	require.NotNil(t, lc.update.Name)
	assert.Equal(t, "Handbook", *lc.update.Name)
	assert.Nil(t, lc.update.File)
}

func TestUpdateDocumentRequiresChange(t *testing.T) {
	router := setup(t, &fakeLifecycle{})

	body, contentType := multipartBody(t, "", nil)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/documents/1", body)
	req.Header.Set("Content-Type", contentType)

	assert.Equal(t, http.StatusBadRequest, do(router, req, token(t, 1)).Code)
}

func TestUpdateDocumentNameTaken(t *testing.T) {
	router := setup(t, &fakeLifecycle{updateErr: documents.ErrNameTaken})

	body, contentType := multipartBody(t, "new.pdf", []byte("x"), formField{"name", "Benefits"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/documents/1", body)
	req.Header.Set("Content-Type", contentType)

	assert.Equal(t, http.StatusConflict, do(router, req, token(t, 1)).Code)
}

func TestDeleteDocument(t *testing.T) {
	lc := &fakeLifecycle{}
	router := setup(t, lc)

	w := do(router, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/2", nil), token(t, 1))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, lc.deleted)
	assert.Equal(t, int64(2), lc.deleted.ID)

	var resp DeleteDocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Warning)
}

func TestDeleteDocumentWithWarning(t *testing.T) {
	router := setup(t, &fakeLifecycle{warning: &lifecycle.DeletionWarning{DocumentID: 2, Err: errors.New("timeout")}})

	w := do(router, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/2", nil), token(t, 1))
	require.Equal(t, http.StatusOK, w.Code)

	var resp DeleteDocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Warning)
}

func TestDeleteDocumentOfAnotherCompany(t *testing.T) {
	lc := &fakeLifecycle{}
	router := setup(t, lc)

	w := do(router, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/3", nil), token(t, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Nil(t, lc.deleted)
}
