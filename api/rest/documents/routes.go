package documents

import (
	"codeberg.org/handbookqa/server/internal/auth"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, deps Deps) {
	docs := router.Group("/documents")
	docs.Use(auth.AuthMiddleware(deps.JWTSecret))
	{
		docs.GET("", ListDocumentsHandler(deps))
		docs.POST("", CreateDocumentHandler(deps))
		docs.GET("/:id", GetDocumentHandler(deps))
		docs.GET("/:id/file", DownloadDocumentHandler(deps))
		docs.GET("/:id/faqs", ListFAQsHandler(deps))
		docs.PUT("/:id", UpdateDocumentHandler(deps))
		docs.DELETE("/:id", DeleteDocumentHandler(deps))
	}
}
