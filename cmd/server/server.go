package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/handbook/faqs"
	"codeberg.org/handbookqa/server/internal/config"
	"codeberg.org/handbookqa/server/internal/locks"
	"codeberg.org/handbookqa/server/internal/logger"
	"codeberg.org/handbookqa/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := newPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client

	if cfg.RedisURL != "" {
		rdb, err = locks.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
	} else {
		logger.Info("REDIS_URL not set, using in-process locks and rate limits")
	}

	closeAll := func() {
		if rdb != nil {
			rdb.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		}
		db.Close()
	}

	limiterStore, err := ratelimit.NewStore(rdb)
	if err != nil {
		closeAll()
		return nil, err
	}

	companyRepo := companies.NewRepository(db)
	documentRepo := documents.NewRepository(db)
	faqRepo := faqs.NewRepository(db)

	services, err := InitializeServices(cfg, db, rdb, documentRepo, faqRepo)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		db:           db,
		redis:        rdb,
		config:       cfg,
		companyRepo:  companyRepo,
		documentRepo: documentRepo,
		faqRepo:      faqRepo,
		limiterStore: limiterStore,
		services:     services,
		router:       router,
	}

	if err := RegisterRoutes(router, server); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	return server, nil
}

func newPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// keep the pool small, hosted poolers hand out few connections
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// pgbouncer in transaction mode does not support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// releases the database pool and the redis client
func (s *Server) Close() {
	if s.redis != nil {
		s.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	s.db.Close()
}
