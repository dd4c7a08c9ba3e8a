package main

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/handbookqa/server/internal/config"
	"codeberg.org/handbookqa/server/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

func usage() {
	fmt.Println("Usage: handbookctl <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  company    - create a company and print its token (--name)")
	fmt.Println("  companies  - list companies")
	fmt.Println("  token      - issue an API token for a company (--company-id, --ttl)")
	fmt.Println("  faq        - generate FAQs for documents without any (--document-id)")
	fmt.Println("  delete-company - delete a company with its documents and vectors (--company-id, --yes)")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	command := os.Args[1]

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.FatalErr(err, "failed to load configuration")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.FatalErr(err, "failed to create database pool")
	}

	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.FatalErr(err, "failed to ping database")
	}

	switch command {
	case "company":
		if err := CreateCompany(ctx, cfg, db, config.ParseCompanyFlags()); err != nil {
			logger.FatalErr(err, "failed to create company")
		}

	case "companies":
		if err := ListCompanies(ctx, db); err != nil {
			logger.FatalErr(err, "failed to list companies")
		}

	case "token":
		if err := IssueToken(ctx, cfg, db, config.ParseTokenFlags()); err != nil {
			logger.FatalErr(err, "failed to issue token")
		}

	case "faq":
		if err := GenerateFAQs(ctx, cfg, db, config.ParseFAQFlags()); err != nil {
			logger.FatalErr(err, "failed to generate faqs")
		}

	case "delete-company":
		if err := DeleteCompany(ctx, cfg, db, config.ParseDeleteCompanyFlags()); err != nil {
			logger.FatalErr(err, "failed to delete company")
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}
