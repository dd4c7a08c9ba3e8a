// Package lifecycle keeps each document's vector namespace in step with its
// relational row across create, update and delete.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/handbook/documents"
	"codeberg.org/handbookqa/server/internal/extract"
	"codeberg.org/handbookqa/server/internal/llm"
	"codeberg.org/handbookqa/server/internal/locks"
	"codeberg.org/handbookqa/server/internal/logger"
	"codeberg.org/handbookqa/server/internal/metrics"
	"codeberg.org/handbookqa/server/internal/namespace"
	"codeberg.org/handbookqa/server/internal/vectorstore"
)

var ErrInvalidName = errors.New("document name must contain at least one letter or digit")

const cleanupTimeout = 30 * time.Second

// caps the records Rename copies out of one namespace
func WithFetchLimit(limit int) Option {
	return func(m *Manager) {
		if limit > 0 {
			m.fetchLimit = limit
		}
	}
}

func NewManager(
	store DocumentStore,
	extractor Extractor,
	splitter Splitter,
	embedder llm.Embedder,
	vectors vectorstore.Gateway,
	locker locks.Locker,
	opts ...Option,
) *Manager {
	m := &Manager{
		store:      store,
		extractor:  extractor,
		splitter:   splitter,
		embedder:   embedder,
		vectors:    vectors,
		locker:     locker,
		fetchLimit: vectorstore.DefaultFetchLimit,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Create ingests file into the document's namespace, then inserts the row.
// Everything that can fail before a write (extraction, chunking, embedding)
// runs first, and the row only appears once the namespace is complete.
func (m *Manager) Create(ctx context.Context, company *companies.Company, name string, file documents.File) (doc *documents.Document, err error) {
	defer observe("create", &err)

	nameSlug := namespace.Slugify(name)
	if nameSlug == "" {
		return nil, ErrInvalidName
	}

	ns := namespace.For(company.Name, name)

	unlock, err := m.locker.Lock(ctx, ns)
	if err != nil {
		return nil, &IngestionError{Namespace: ns, Stage: StageLock, Err: err}
	}
	defer unlock()

	if err := m.ensureNameFree(ctx, name, nameSlug, 0); err != nil {
		return nil, err
	}

	records, stage, err := m.prepare(ctx, file.Content)
	if err != nil {
		return nil, &IngestionError{Namespace: ns, Stage: stage, Err: err}
	}

	// leftovers of an earlier create that failed after upserting
	if err := m.vectors.DeleteAll(ctx, ns); err != nil {
		return nil, &IngestionError{Namespace: ns, Stage: StageClear, Err: err}
	}

	if err := m.vectors.Upsert(ctx, ns, records); err != nil {
		m.discard(ctx, ns)
		return nil, &IngestionError{Namespace: ns, Stage: StageUpsert, Err: err}
	}

	doc, err = m.store.Create(ctx, documents.CreateParams{
		CompanyID: company.ID,
		Name:      name,
		NameSlug:  nameSlug,
		File:      file,
	})
	if err != nil {
		m.discard(ctx, ns)

		if errors.Is(err, documents.ErrNameTaken) {
			return nil, err
		}

		return nil, &IngestionError{Namespace: ns, Stage: StageStore, Err: err}
	}

	logger.Info("document ingested",
		"document_id", doc.ID,
		"company_id", company.ID,
		"namespace", ns,
		"chunks", len(records),
	)

	return doc, nil
}

// ReplaceContent swaps the document's chunks for those of file. A file that
// cannot be read leaves the namespace untouched.
func (m *Manager) ReplaceContent(ctx context.Context, company *companies.Company, doc *documents.Document, file documents.File) (updated *documents.Document, err error) {
	defer observe("replace_content", &err)

	records, stage, err := m.prepare(ctx, file.Content)
	if err != nil {
		return nil, &UpdateError{DocumentID: doc.ID, Namespace: namespace.For(company.Name, doc.Name), Stage: stage, Err: err}
	}

	current, unlock, err := m.lockDocument(ctx, company, doc)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return m.replace(ctx, company, current, file, records)
}

// replace runs with the document lock held; doc must be the fresh row
func (m *Manager) replace(ctx context.Context, company *companies.Company, doc *documents.Document, file documents.File, records []vectorstore.Record) (*documents.Document, error) {
	ns := namespace.For(company.Name, doc.Name)

	fail := func(stage string, err error) error {
		return &UpdateError{DocumentID: doc.ID, Namespace: ns, Stage: stage, Err: err}
	}

	unlock, err := m.locker.Lock(ctx, ns)
	if err != nil {
		return nil, fail(StageLock, err)
	}
	defer unlock()

	if err := m.vectors.DeleteAll(ctx, ns); err != nil {
		return nil, fail(StageClear, err)
	}

	if err := m.vectors.Upsert(ctx, ns, records); err != nil {
		// an empty namespace beats a half-written one
		m.discard(ctx, ns)
		return nil, fail(StageUpsert, err)
	}

	updated, err := m.store.ReplaceFile(ctx, doc.ID, file)
	if err != nil {
		return nil, fail(StageStore, err)
	}

	logger.Info("document content replaced",
		"document_id", doc.ID,
		"namespace", ns,
		"chunks", len(records),
	)

	return updated, nil
}

// Rename moves the document's vectors to the namespace of newName by copying
// every record and deleting the old namespace afterwards. When only the old
// namespace cleanup fails the renamed document is returned together with an
// UpdateError at StageCleanup.
func (m *Manager) Rename(ctx context.Context, company *companies.Company, doc *documents.Document, newName string) (renamed *documents.Document, err error) {
	defer observe("rename", &err)

	if namespace.Slugify(newName) == "" {
		return nil, ErrInvalidName
	}

	current, unlock, err := m.lockDocument(ctx, company, doc)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return m.rename(ctx, company, current, newName)
}

// rename runs with the document lock held; doc must be the fresh row
func (m *Manager) rename(ctx context.Context, company *companies.Company, doc *documents.Document, newName string) (*documents.Document, error) {
	if newName == doc.Name {
		return doc, nil
	}

	newSlug := namespace.Slugify(newName)
	if newSlug == "" {
		return nil, ErrInvalidName
	}

	oldNS := namespace.For(company.Name, doc.Name)
	newNS := namespace.For(company.Name, newName)

	if oldNS == newNS {
		return m.renameInPlace(ctx, doc, oldNS, newName, newSlug)
	}

	unlock, err := locks.LockAll(ctx, m.locker, oldNS, newNS)
	if err != nil {
		return nil, &UpdateError{DocumentID: doc.ID, Namespace: oldNS, Stage: StageLock, Err: err}
	}
	defer unlock()

	if err := m.ensureNameFree(ctx, newName, newSlug, doc.ID); err != nil {
		return nil, err
	}

	records, err := m.vectors.FetchAll(ctx, oldNS, m.fetchLimit)
	if err != nil {
		return nil, &UpdateError{DocumentID: doc.ID, Namespace: oldNS, Stage: StageFetch, Err: err}
	}

	if err := m.vectors.DeleteAll(ctx, newNS); err != nil {
		return nil, &UpdateError{DocumentID: doc.ID, Namespace: newNS, Stage: StageClear, Err: err}
	}

	if len(records) > 0 {
		if err := m.vectors.Upsert(ctx, newNS, records); err != nil {
			m.discard(ctx, newNS)
			return nil, &UpdateError{DocumentID: doc.ID, Namespace: newNS, Stage: StageUpsert, Err: err}
		}
	}

	renamed, err := m.store.Rename(ctx, doc.ID, newName, newSlug)
	if err != nil {
		m.discard(ctx, newNS)
		return nil, &UpdateError{DocumentID: doc.ID, Namespace: newNS, Stage: StageStore, Err: err}
	}

	if err := m.vectors.DeleteAll(ctx, oldNS); err != nil {
		return renamed, &UpdateError{DocumentID: doc.ID, Namespace: oldNS, Stage: StageCleanup, Err: err}
	}

	logger.Info("document renamed",
		"document_id", doc.ID,
		"from", oldNS,
		"to", newNS,
		"records", len(records),
	)

	return renamed, nil
}

// names that only differ in case or punctuation map to the same namespace
func (m *Manager) renameInPlace(ctx context.Context, doc *documents.Document, ns, newName, newSlug string) (*documents.Document, error) {
	unlock, err := m.locker.Lock(ctx, ns)
	if err != nil {
		return nil, &UpdateError{DocumentID: doc.ID, Namespace: ns, Stage: StageLock, Err: err}
	}
	defer unlock()

	if err := m.ensureNameFree(ctx, newName, newSlug, doc.ID); err != nil {
		return nil, err
	}

	renamed, err := m.store.Rename(ctx, doc.ID, newName, newSlug)
	if err != nil {
		return nil, &UpdateError{DocumentID: doc.ID, Namespace: ns, Stage: StageStore, Err: err}
	}

	return renamed, nil
}

// Update applies a rename, a content replacement or both under one document
// lock. A new file is read and embedded before anything changes, then the
// rename copies the old vectors and the replacement overwrites them in the
// new namespace. A failed cleanup of the old namespace is logged, not
// returned.
func (m *Manager) Update(ctx context.Context, company *companies.Company, doc *documents.Document, req UpdateRequest) (updated *documents.Document, err error) {
	if req.Name == nil && req.File == nil {
		return doc, nil
	}

	defer observe("update", &err)

	var records []vectorstore.Record

	if req.File != nil {
		var stage string

		records, stage, err = m.prepare(ctx, req.File.Content)
		if err != nil {
			return nil, &UpdateError{DocumentID: doc.ID, Namespace: namespace.For(company.Name, doc.Name), Stage: stage, Err: err}
		}
	}

	current, unlock, err := m.lockDocument(ctx, company, doc)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if req.Name != nil && *req.Name != current.Name {
		renamed, err := m.rename(ctx, company, current, *req.Name)

		var updErr *UpdateError
		switch {
		case errors.As(err, &updErr) && updErr.Stage == StageCleanup:
			// the rename itself went through; stale vectors in the old namespace are unreachable
			logger.WarnErr(err, "document renamed but its old namespace remains",
				"document_id", current.ID,
				"namespace", updErr.Namespace,
			)
		case err != nil:
			return nil, err
		}
		current = renamed
	}

	if req.File == nil {
		return current, nil
	}

	return m.replace(ctx, company, current, *req.File, records)
}

// Delete removes the row, then the namespace. A failure of the second step
// does not undo the first: it comes back as a DeletionWarning with a nil
// error.
func (m *Manager) Delete(ctx context.Context, company *companies.Company, doc *documents.Document) (warning *DeletionWarning, err error) {
	defer func() {
		if err == nil && warning != nil {
			metrics.DocumentOperations.WithLabelValues("delete", "warning").Inc()
			return
		}
		observe("delete", &err)
	}()

	current, unlockDoc, err := m.lockDocument(ctx, company, doc)
	if err != nil {
		return nil, err
	}
	defer unlockDoc()

	ns := namespace.For(company.Name, current.Name)

	unlock, err := m.locker.Lock(ctx, ns)
	if err != nil {
		return nil, fmt.Errorf("failed to lock namespace %s: %w", ns, err)
	}
	defer unlock()

	if err := m.store.Delete(ctx, current.ID); err != nil {
		return nil, err
	}

	if err := m.vectors.DeleteAll(ctx, ns); err != nil {
		logger.WarnErr(err, "document deleted but its vectors remain",
			"document_id", current.ID,
			"namespace", ns,
		)

		return &DeletionWarning{DocumentID: current.ID, Namespace: ns, Err: err}, nil
	}

	return nil, nil
}

// DeleteCompany deletes every document of company, vectors included, and then
// the company row. Vector failures are collected as warnings; a failing row
// delete stops the run before the company goes away.
func (m *Manager) DeleteCompany(ctx context.Context, company *companies.Company, docs []documents.Document, companyStore CompanyStore) ([]*DeletionWarning, error) {
	var warnings []*DeletionWarning

	for i := range docs {
		warning, err := m.Delete(ctx, company, &docs[i])
		if errors.Is(err, documents.ErrNotFound) {
			continue
		}

		if err != nil {
			return warnings, fmt.Errorf("failed to delete document %d: %w", docs[i].ID, err)
		}

		if warning != nil {
			warnings = append(warnings, warning)
		}
	}

	if err := companyStore.Delete(ctx, company.ID); err != nil {
		return warnings, fmt.Errorf("failed to delete company %d: %w", company.ID, err)
	}

	logger.Info("company deleted",
		"company_id", company.ID,
		"documents", len(docs),
		"warnings", len(warnings),
	)

	return warnings, nil
}

// lockDocument takes the per-document lock and re-reads the row. Namespaces
// must come from the returned row, the caller's copy may predate a rename.
func (m *Manager) lockDocument(ctx context.Context, company *companies.Company, doc *documents.Document) (*documents.Document, func(), error) {
	unlock, err := m.locker.Lock(ctx, documentKey(doc.ID))
	if err != nil {
		return nil, nil, &UpdateError{DocumentID: doc.ID, Namespace: namespace.For(company.Name, doc.Name), Stage: StageLock, Err: err}
	}

	current, err := m.store.GetByID(ctx, doc.ID)
	if err != nil {
		unlock()
		return nil, nil, err
	}

	if current.CompanyID != company.ID {
		unlock()
		return nil, nil, documents.ErrNotFound
	}

	return current, unlock, nil
}

// prepare runs the steps that touch no storage and returns the records to
// upsert, or the stage that failed.
func (m *Manager) prepare(ctx context.Context, content []byte) ([]vectorstore.Record, string, error) {
	text, err := m.extractor.ExtractText(ctx, content)
	if err != nil {
		return nil, StageExtract, err
	}

	chunks := m.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, StageExtract, &extract.Error{Err: extract.ErrNoText}
	}

	vectors, err := m.embedder.GenerateEmbeddings(ctx, chunks)
	if err != nil {
		return nil, StageEmbed, err
	}

	if len(vectors) != len(chunks) {
		return nil, StageEmbed, fmt.Errorf("got %d embeddings for %d chunks", len(vectors), len(chunks))
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = vectorstore.Record{
			Vector:   vectors[i],
			Metadata: vectorstore.Metadata{Text: chunk},
		}
	}

	return records, "", nil
}

func (m *Manager) ensureNameFree(ctx context.Context, name, nameSlug string, excludeID int64) error {
	taken, err := m.store.NameTaken(ctx, name, nameSlug, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check document name: %w", err)
	}

	if taken {
		return documents.ErrNameTaken
	}

	return nil
}

// discard empties ns on a best-effort basis, even when ctx is already
// canceled
func (m *Manager) discard(ctx context.Context, ns string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := m.vectors.DeleteAll(ctx, ns); err != nil {
		logger.WarnErr(err, "failed to roll back namespace", "namespace", ns)
	}
}

// document keys cannot collide with namespaces, which start with "company-"
func documentKey(id int64) string {
	return "document:" + strconv.FormatInt(id, 10)
}

func observe(op string, err *error) {
	metrics.DocumentOperations.WithLabelValues(op, metrics.Result(*err)).Inc()
}
