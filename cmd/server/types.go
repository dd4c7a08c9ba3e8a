package main

import (
	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/handbook/faqs"
	"codeberg.org/handbookqa/server/internal/config"
	"codeberg.org/handbookqa/server/internal/faq"
	"codeberg.org/handbookqa/server/internal/lifecycle"
	"codeberg.org/handbookqa/server/internal/retriever"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
)

// holds all dependencies and state for the API server
type Server struct {
	db           *pgxpool.Pool
	redis        *redis.Client // nil when REDIS_URL is unset
	config       *config.Config
	companyRepo  *companies.Repository
	documentRepo *documents.Repository
	faqRepo      *faqs.Repository
	limiterStore limiter.Store
	services     *Services
	router       *gin.Engine
}

// holds the domain services built on top of the repositories
type Services struct {
	Lifecycle *lifecycle.Manager
	Retriever *retriever.Engine
	FAQ       *faq.Service
}
