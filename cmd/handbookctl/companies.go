package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/internal/auth"
	"codeberg.org/handbookqa/server/internal/config"
	"codeberg.org/handbookqa/server/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates the company and prints its first token
func CreateCompany(ctx context.Context, cfg *config.Config, db *pgxpool.Pool, flags config.CompanyFlags) error {
	name := strings.TrimSpace(flags.Name)
	if name == "" {
		return fmt.Errorf("--name is required")
	}

	company, err := companies.NewRepository(db).Create(ctx, name)
	if err != nil {
		return err
	}

	logger.Info("company created", "id", company.ID, "name", company.Name, "slug", company.Slug)

	token, err := auth.GenerateJWT(cfg.JWTSecret, company.ID, auth.DefaultTokenTTL)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

func ListCompanies(ctx context.Context, db *pgxpool.Pool) error {
	list, err := companies.NewRepository(db).List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSLUG\tCREATED") //nolint:errcheck // stdout

	for _, c := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Slug, c.CreatedAt.Format(time.DateOnly)) //nolint:errcheck // stdout
	}

	return w.Flush()
}

// prints a bearer token on stdout so it can be piped
func IssueToken(ctx context.Context, cfg *config.Config, db *pgxpool.Pool, flags config.TokenFlags) error {
	if flags.CompanyID <= 0 {
		return fmt.Errorf("--company-id is required")
	}

	company, err := companies.NewRepository(db).GetByID(ctx, flags.CompanyID)
	if err != nil {
		return err
	}

	token, err := auth.GenerateJWT(cfg.JWTSecret, company.ID, flags.TTL)
	if err != nil {
		return err
	}

	logger.Info("token issued", "company", company.Slug, "ttl", flags.TTL)
	fmt.Println(token)
	return nil
}
