package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/handbookqa/server/internal/config"
	"codeberg.org/handbookqa/server/internal/logger"
)

// @title Handbook QA API
// @version 1.0
// @description Answers employee questions from their company's handbook documents
// @description
// @description Features:
// @description - Upload, rename, replace and delete handbook PDFs
// @description - Retrieval-augmented answers scoped to one company
// @description - Suggested questions generated per document

// @contact.name API Support
// @contact.url https://codeberg.org/handbookqa/server

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Company JWT issued by handbookctl. Format: Bearer {token}

func main() {
	// route library logging through the same handler
	slog.SetDefault(logger.Default())

	logger.Info("starting handbookqa server")

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.FatalErr(err, "failed to load configuration")
	}

	srv, err := NewServer(cfg)
	if err != nil {
		logger.FatalErr(err, "failed to create server")
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		// uploads and answers take longer than plain reads
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalErr(err, "server failed to start")
		}
	}()

	// start faq generation with cancellable context
	faqCtx, faqCancel := context.WithCancel(context.Background())
	if cfg.FAQInterval > 0 {
		go srv.services.FAQ.Start(faqCtx, cfg.FAQInterval)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	faqCancel()

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.ErrorErr(err, "server forced to shutdown")
	}

	srv.Close()

	logger.Info("server stopped")
}
