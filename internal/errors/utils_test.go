package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category string
	}{
		{"pg error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), CategoryDatabase},
		{"no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), CategoryNotFound},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), CategoryTimeout},
		{"dial", fmt.Errorf("dial tcp 10.0.0.1:6333: refused"), CategoryNetwork},
		{"other", fmt.Errorf("something odd"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, classifyError(tt.err).category)
		})
	}
}

func TestSanitizeErrorInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	assert.Equal(t, "database operation failed", sanitizeError(&pgconn.PgError{Message: "secret table"}))
	assert.Equal(t, "an error occurred", sanitizeError(fmt.Errorf("something odd")))
	assert.Empty(t, sanitizeError(nil))
}

func TestSanitizeErrorOutsideProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	assert.Equal(t, "something odd", sanitizeError(fmt.Errorf("something odd")))
}
