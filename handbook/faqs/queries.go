package faqs

const (
	queryInsert = `
		INSERT INTO faqs (document_id, question)
		VALUES ($1, $2)
	`

	queryListByDocument = `
		SELECT id, document_id, question, created_at
		FROM faqs
		WHERE document_id = $1
		ORDER BY id ASC
	`

	queryCount = `
		SELECT COUNT(*) FROM faqs
	`
)
