package documents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrNameTaken = errors.New("document name already taken")
)

const uniqueViolation = "23505"

// creates a new document repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts the document row. Callers index the content first, so the
// row only exists for documents whose namespace is complete.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*Document, error) {
	doc, err := scanDocument(r.db.QueryRow(
		ctx,
		queryCreate,
		p.CompanyID,
		p.Name,
		p.NameSlug,
		p.File.Name,
		int64(len(p.File.Content)),
		p.File.Content,
	))
	if err != nil {
		return nil, translate(err)
	}

	return doc, nil
}

// Get only returns documents owned by companyID
func (r *Repository) Get(ctx context.Context, companyID, id int64) (*Document, error) {
	return scanDocument(r.db.QueryRow(ctx, queryGet, id, companyID))
}

// GetByID reads the row regardless of its company
func (r *Repository) GetByID(ctx context.Context, id int64) (*Document, error) {
	return scanDocument(r.db.QueryRow(ctx, queryGetByID, id))
}

func (r *Repository) ListByCompany(ctx context.Context, companyID int64, limit, offset int) ([]Document, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, queryCountByCompany, companyID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, queryListByCompany, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()
	docs := []Document{}

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// ListNames returns the company's document names in creation order
func (r *Repository) ListNames(ctx context.Context, companyID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, queryListNames, companyID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// NameTaken reports whether another document already uses name or a name
// with the same slug. excludeID skips the document being renamed.
func (r *Repository) NameTaken(ctx context.Context, name, nameSlug string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, queryNameTaken, name, nameSlug, excludeID).Scan(&taken)
	return taken, err
}

func (r *Repository) Rename(ctx context.Context, id int64, name, nameSlug string) (*Document, error) {
	doc, err := scanDocument(r.db.QueryRow(ctx, queryRename, name, nameSlug, id))
	if err != nil {
		return nil, translate(err)
	}

	return doc, nil
}

func (r *Repository) ReplaceFile(ctx context.Context, id int64, file File) (*Document, error) {
	return scanDocument(r.db.QueryRow(ctx, queryReplaceFile, file.Name, int64(len(file.Content)), file.Content, id))
}

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

func (r *Repository) GetFile(ctx context.Context, companyID, id int64) (*File, error) {
	var f File

	err := r.db.QueryRow(ctx, queryGetFile, id, companyID).Scan(&f.Name, &f.Content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &f, nil
}

// ListSources returns the single document when documentID is set, otherwise
// every document without FAQs yet.
func (r *Repository) ListSources(ctx context.Context, documentID *int64) ([]Source, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if documentID != nil {
		rows, err = r.db.Query(ctx, querySourceByID, *documentID)
	} else {
		rows, err = r.db.Query(ctx, querySourcesWithoutFAQ)
	}

	if err != nil {
		return nil, err
	}

	sources, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Source, error) {
		var s Source
		err := row.Scan(&s.DocumentID, &s.DocumentName, &s.CompanyName)
		return s, err
	})
	if err != nil {
		return nil, err
	}

	if documentID != nil && len(sources) == 0 {
		return nil, ErrNotFound
	}

	return sources, nil
}

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document

	err := row.Scan(
		&d.ID,
		&d.CompanyID,
		&d.Name,
		&d.NameSlug,
		&d.FileName,
		&d.FileSize,
		&d.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &d, nil
}

// maps unique violations on name or name_slug to ErrNameTaken
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrNameTaken
	}

	return err
}
