package companies

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, repo CompanyReader) {
	group := router.Group("/companies")
	{
		group.GET("", ListCompaniesHandler(repo))
		group.GET("/:slug", GetCompanyHandler(repo))
	}
}
