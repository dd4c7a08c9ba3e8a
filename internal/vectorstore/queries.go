package vectorstore

const (
	upsertVectorQuery = `
		INSERT INTO handbook_vectors (namespace, id, embedding, metadata)
		VALUES ($1, $2, $3::vector, $4::jsonb)
		ON CONFLICT (namespace, id) DO UPDATE
		SET embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata
	`

	// exact scan of one namespace; returns min($3, namespace size) rows
	queryVectorsQuery = `
		WITH scoped AS MATERIALIZED (
			SELECT id, metadata, embedding
			FROM handbook_vectors
			WHERE namespace = $1
		)
		SELECT id, metadata::text, 1 - (embedding <=> $2::vector) AS score
		FROM scoped
		ORDER BY embedding <=> $2::vector, id
		LIMIT $3
	`

	deleteNamespaceQuery = `
		DELETE FROM handbook_vectors
		WHERE namespace = $1
	`

	fetchNamespaceQuery = `
		SELECT id, embedding, metadata::text
		FROM handbook_vectors
		WHERE namespace = $1
		ORDER BY created_at, id
		LIMIT $2
	`
)
