package companies

import (
	stderrors "errors"
	"net/http"

	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/internal/errors"
	"github.com/gin-gonic/gin"
)

// ListCompaniesHandler godoc
// @Summary List companies
// @Description Lists every company so employees can pick theirs
// @Tags companies
// @Produce json
// @Success 200 {object} CompaniesListResponse
// @Router /api/v1/companies [get]
func ListCompaniesHandler(repo CompanyReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.List(c.Request.Context())
		if err != nil {
			errors.InternalError(c, "failed to list companies", err)
			return
		}

		if list == nil {
			list = []companies.Company{}
		}

		c.JSON(http.StatusOK, CompaniesListResponse{Companies: list})
	}
}

// GetCompanyHandler godoc
// @Summary Get a company by slug
// @Tags companies
// @Produce json
// @Param slug path string true "Company slug"
// @Success 200 {object} CompanyResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/companies/{slug} [get]
func GetCompanyHandler(repo CompanyReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		company, err := repo.GetBySlug(c.Request.Context(), c.Param("slug"))
		if stderrors.Is(err, companies.ErrNotFound) {
			errors.NotFound(c, "company")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to get company", err)
			return
		}

		c.JSON(http.StatusOK, CompanyResponse{Company: *company})
	}
}
