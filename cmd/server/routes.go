package main

import (
	"codeberg.org/handbookqa/server/api/rest/companies"
	"codeberg.org/handbookqa/server/api/rest/documents"
	"codeberg.org/handbookqa/server/api/rest/health"
	"codeberg.org/handbookqa/server/api/rest/questions"
	"codeberg.org/handbookqa/server/internal/logger"
	"codeberg.org/handbookqa/server/internal/metrics"
	"codeberg.org/handbookqa/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	router.Use(logger.Middleware())
	router.Use(CORSMiddleware(server.config.CORSOrigins))
	router.GET("/health", health.Handler(server.db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	askLimit, err := ratelimit.Middleware(server.limiterStore, server.config.AskRateLimit)
	if err != nil {
		return err
	}

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		companies.RegisterRoutes(v1, server.companyRepo)
		documents.RegisterRoutes(v1, documents.Deps{
			Documents:     server.documentRepo,
			Companies:     server.companyRepo,
			FAQs:          server.faqRepo,
			Lifecycle:     server.services.Lifecycle,
			JWTSecret:     server.config.JWTSecret,
			MaxUploadSize: server.config.MaxUploadSize,
		})
		questions.RegisterRoutes(v1, questions.Deps{
			Companies: server.companyRepo,
			Engine:    server.services.Retriever,
		}, askLimit)
	}

	return nil
}
