package companies

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/handbookqa/server/handbook/companies"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	list    []companies.Company
	listErr error
}

func (f *fakeRepo) List(context.Context) ([]companies.Company, error) {
	return f.list, f.listErr
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (*companies.Company, error) {
	for i := range f.list {
		if f.list[i].Slug == slug {
			return &f.list[i], nil
		}
	}
	return nil, companies.ErrNotFound
}

func serve(repo CompanyReader, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), repo)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListCompanies(t *testing.T) {
	repo := &fakeRepo{list: []companies.Company{
		{ID: 1, Name: "Acme Corp", Slug: "acme-corp"},
		{ID: 2, Name: "Acme-Corp", Slug: "acme-corp-1"},
	}}

	w := serve(repo, "/api/v1/companies")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CompaniesListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Companies, 2)
}

func TestListCompaniesEmptyIsArray(t *testing.T) {
	w := serve(&fakeRepo{}, "/api/v1/companies")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"companies":[]}`, w.Body.String())
}

func TestListCompaniesFailure(t *testing.T) {
	w := serve(&fakeRepo{listErr: errors.New("db down")}, "/api/v1/companies")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetCompanyBySlug(t *testing.T) {
	repo := &fakeRepo{list: []companies.Company{{ID: 2, Name: "Acme-Corp", Slug: "acme-corp-1"}}}

	w := serve(repo, "/api/v1/companies/acme-corp-1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CompanyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Acme-Corp", resp.Company.Name)

	assert.Equal(t, http.StatusNotFound, serve(repo, "/api/v1/companies/missing").Code)
}
