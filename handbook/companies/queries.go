package companies

const (
	queryCreate = `
		INSERT INTO companies (name, slug)
		VALUES ($1, $2)
		RETURNING id, name, slug, created_at
	`

	queryList = `
		SELECT id, name, slug, created_at
		FROM companies
		ORDER BY name ASC
	`

	queryGetByID = `
		SELECT id, name, slug, created_at
		FROM companies
		WHERE id = $1
	`

	queryGetBySlug = `
		SELECT id, name, slug, created_at
		FROM companies
		WHERE slug = $1
	`

	queryDelete = `
		DELETE FROM companies
		WHERE id = $1
	`

	queryNameExists = `
		SELECT EXISTS(SELECT 1 FROM companies WHERE name = $1)
	`

	querySlugsWithPrefix = `
		SELECT slug
		FROM companies
		WHERE slug = $1 OR slug LIKE $2
	`
)
