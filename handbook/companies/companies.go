package companies

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("company not found")
	ErrNameTaken = errors.New("company name already taken")
)

const (
	uniqueViolation    = "23505"
	maxCreateAttempts  = 5
	constraintNameUniq = "companies_name_key"
)

// creates a new company repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a company under the first free slug derived from its name.
// A concurrent insert grabbing the same slug makes the loop pick the next one.
func (r *Repository) Create(ctx context.Context, name string) (*Company, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, queryNameExists, name).Scan(&exists); err != nil {
		return nil, err
	}

	if exists {
		return nil, ErrNameTaken
	}

	base := baseSlug(name)

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		taken, err := r.takenSlugs(ctx, base)
		if err != nil {
			return nil, err
		}

		var c Company
		err = r.db.QueryRow(ctx, queryCreate, name, nextSlug(base, taken)).Scan(
			&c.ID,
			&c.Name,
			&c.Slug,
			&c.CreatedAt,
		)

		if err == nil {
			return &c, nil
		}

		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
			return nil, err
		}

		if pgErr.ConstraintName == constraintNameUniq {
			return nil, ErrNameTaken
		}
	}

	return nil, fmt.Errorf("failed to allocate a slug for %q after %d attempts", name, maxCreateAttempts)
}

func (r *Repository) takenSlugs(ctx context.Context, base string) (map[string]bool, error) {
	rows, err := r.db.Query(ctx, querySlugsWithPrefix, base, likePrefix(base))
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	taken := make(map[string]bool)

	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		taken[slug] = true
	}

	return taken, rows.Err()
}

func (r *Repository) List(ctx context.Context) ([]Company, error) {
	rows, err := r.db.Query(ctx, queryList)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	companies := []Company{}

	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return companies, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Company, error) {
	return r.getOne(ctx, queryGetByID, id)
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Company, error) {
	return r.getOne(ctx, queryGetBySlug, slug)
}

// Delete removes the company; its documents and faqs go with it
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, queryDelete, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Company, error) {
	var c Company

	err := r.db.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &c, nil
}
