package documents

const (
	documentColumns = `id, company_id, name, name_slug, file_name, file_size, created_at`

	queryCreate = `
		INSERT INTO documents (company_id, name, name_slug, file_name, file_size, file_content)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + documentColumns

	queryGet = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1 AND company_id = $2
	`

	queryGetByID = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
	`

	queryCountByCompany = `
		SELECT COUNT(*)
		FROM documents
		WHERE company_id = $1
	`

	queryListByCompany = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE company_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`

	queryListNames = `
		SELECT name
		FROM documents
		WHERE company_id = $1
		ORDER BY created_at ASC, id ASC
	`

	queryNameTaken = `
		SELECT EXISTS(
			SELECT 1 FROM documents
			WHERE (name = $1 OR name_slug = $2) AND id <> $3
		)
	`

	queryRename = `
		UPDATE documents
		SET name = $1, name_slug = $2
		WHERE id = $3
		RETURNING ` + documentColumns

	queryReplaceFile = `
		UPDATE documents
		SET file_name = $1, file_size = $2, file_content = $3
		WHERE id = $4
		RETURNING ` + documentColumns

	queryDelete = `
		DELETE FROM documents
		WHERE id = $1
	`

	queryGetFile = `
		SELECT file_name, file_content
		FROM documents
		WHERE id = $1 AND company_id = $2
	`

	querySourceByID = `
		SELECT d.id, d.name, c.name
		FROM documents d
		INNER JOIN companies c ON c.id = d.company_id
		WHERE d.id = $1
	`

	querySourcesWithoutFAQ = `
		SELECT d.id, d.name, c.name
		FROM documents d
		INNER JOIN companies c ON c.id = d.company_id
		WHERE NOT EXISTS (SELECT 1 FROM faqs f WHERE f.document_id = d.id)
		ORDER BY d.created_at ASC, d.id ASC
	`
)
