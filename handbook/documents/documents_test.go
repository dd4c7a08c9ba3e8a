package documents

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "documents_name_slug_key"})
	assert.ErrorIs(t, translate(err), ErrNameTaken)
}

func TestTranslatePassesOtherErrors(t *testing.T) {
	other := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(other), translate(other))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, translate(plain))
	assert.ErrorIs(t, translate(ErrNotFound), ErrNotFound)
}
