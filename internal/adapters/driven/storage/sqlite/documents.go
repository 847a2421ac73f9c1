package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

// tagSeparator joins tags in the aggregated tag column.
const tagSeparator = "\x1f"

// documentColumns selects a full document row including its sorted tags.
const documentColumns = `d.id, d.title, d.content, d.source, d.category,
	d.file_name, d.file_size_bytes, d.page_count, d.language, d.jurisdiction, d.summary,
	d.created_at, d.updated_at,
	COALESCE((SELECT group_concat(tag, char(31)) FROM
		(SELECT tag FROM document_tags WHERE document_id = d.id ORDER BY tag)), '')`

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
	now   func() time.Time
}

var _ driven.DocumentStore = (*documentStore)(nil)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Save stores or replaces a document. Replacing keeps the original rowid so
// listing order is unchanged.
func (s *documentStore) Save(ctx context.Context, doc *domain.Document) error {
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		return saveDocument(ctx, tx, doc)
	})
	if err != nil {
		return storageErr("saving document", err)
	}
	return nil
}

func saveDocument(ctx context.Context, q querier, doc *domain.Document) error {
	var pageCount sql.NullInt64
	if doc.Metadata.PageCount != nil {
		pageCount = sql.NullInt64{Int64: int64(*doc.Metadata.PageCount), Valid: true}
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, source, category, file_name, file_size_bytes,
			page_count, language, jurisdiction, summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			source = excluded.source,
			category = excluded.category,
			file_name = excluded.file_name,
			file_size_bytes = excluded.file_size_bytes,
			page_count = excluded.page_count,
			language = excluded.language,
			jurisdiction = excluded.jurisdiction,
			summary = excluded.summary,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Title, doc.Content, doc.Source, string(doc.Category),
		doc.Metadata.FileName, doc.Metadata.FileSizeBytes, pageCount,
		doc.Metadata.Language, doc.Metadata.Jurisdiction, doc.Metadata.Summary,
		formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt))
	if err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM document_tags WHERE document_id = ?", doc.ID); err != nil {
		return err
	}
	for _, tag := range doc.Metadata.Tags {
		if _, err := q.ExecContext(ctx,
			"INSERT OR IGNORE INTO document_tags (document_id, tag) VALUES (?, ?)", doc.ID, tag); err != nil {
			return err
		}
	}
	return nil
}

// FindByID retrieves a document by ID.
func (s *documentStore) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := findDocument(ctx, s.store.db, id)
	if err != nil {
		return nil, storageErr("finding document", err)
	}
	return doc, nil
}

func findDocument(ctx context.Context, q querier, id string) (*domain.Document, error) {
	row := q.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents d WHERE d.id = ?", id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// FindByCategory returns all documents in a category.
func (s *documentStore) FindByCategory(ctx context.Context, category domain.Category) ([]domain.Document, error) {
	return s.list(ctx, "WHERE d.category = ?", string(category))
}

// FindByTags returns documents carrying at least one of the tags.
func (s *documentStore) FindByTags(ctx context.Context, tags []string) ([]domain.Document, error) {
	if len(tags) == 0 {
		return []domain.Document{}, nil
	}
	args := make([]any, len(tags))
	for i, t := range tags {
		args[i] = t
	}
	where := fmt.Sprintf(
		"WHERE d.id IN (SELECT document_id FROM document_tags WHERE tag IN (%s))", placeholders(len(tags)))
	return s.list(ctx, where, args...)
}

// FindAll returns every document.
func (s *documentStore) FindAll(ctx context.Context) ([]domain.Document, error) {
	return s.list(ctx, "")
}

// Update applies a partial update inside a transaction.
func (s *documentStore) Update(ctx context.Context, id string, update domain.DocumentUpdate) (*domain.Document, error) {
	var out *domain.Document
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		doc, err := findDocument(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := update.Apply(doc, s.now()); err != nil {
			return err
		}
		if err := saveDocument(ctx, tx, doc); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, storageErr("updating document", err)
	}
	return out, nil
}

// Delete removes a document and its tags.
func (s *documentStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return storageErr("deleting document", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("deleting document", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search returns documents whose title or content contains text.
// SQLite's lower() only folds ASCII, so matching is done in Go.
func (s *documentStore) Search(ctx context.Context, text string) ([]domain.Document, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(text)
	out := make([]domain.Document, 0, len(all))
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Title), needle) ||
			strings.Contains(strings.ToLower(d.Content), needle) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *documentStore) list(ctx context.Context, where string, args ...any) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents d "+where+" ORDER BY d.rowid", args...)
	if err != nil {
		return nil, storageErr("querying documents", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, storageErr("scanning document", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating documents", err)
	}
	return docs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var (
		doc                  domain.Document
		category             string
		pageCount            sql.NullInt64
		createdAt, updatedAt string
		tags                 string
	)
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Source, &category,
		&doc.Metadata.FileName, &doc.Metadata.FileSizeBytes, &pageCount,
		&doc.Metadata.Language, &doc.Metadata.Jurisdiction, &doc.Metadata.Summary,
		&createdAt, &updatedAt, &tags); err != nil {
		return nil, err
	}

	doc.Category = domain.Category(category)
	if pageCount.Valid {
		n := int(pageCount.Int64)
		doc.Metadata.PageCount = &n
	}
	doc.CreatedAt = parseTime(createdAt)
	doc.UpdatedAt = parseTime(updatedAt)
	doc.Metadata.Tags = []string{}
	if tags != "" {
		doc.Metadata.Tags = strings.Split(tags, tagSeparator)
	}
	return &doc, nil
}
