package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

// ==================== Query Store ====================

// queryStore implements driven.QueryStore.
type queryStore struct {
	store *Store
}

var _ driven.QueryStore = (*queryStore)(nil)

// SaveQuery stores a query.
func (s *queryStore) SaveQuery(ctx context.Context, q *domain.Query) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO queries (id, question, context, type, user_id, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			question = excluded.question,
			context = excluded.context,
			type = excluded.type,
			user_id = excluded.user_id,
			category = excluded.category
	`, q.ID, q.Question, q.Context, string(q.Type), q.UserID, nullCategory(q.Category), formatTime(q.CreatedAt))
	if err != nil {
		return storageErr("saving query", err)
	}
	return nil
}

// SaveResponse stores a response for an existing query.
func (s *queryStore) SaveResponse(ctx context.Context, r *domain.QueryResponse) error {
	sources, err := json.Marshal(nonNilRefs(r.Sources))
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	err = s.store.withTx(ctx, func(tx *sql.Tx) error {
		if err := exists(ctx, tx, "queries", r.QueryID); err != nil {
			return fmt.Errorf("query %s: %w", r.QueryID, err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO query_responses (id, query_id, answer, sources, confidence, reasoning, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.QueryID, r.Answer, string(sources), r.Confidence, r.Reasoning, formatTime(r.CreatedAt))
		return err
	})
	if err != nil {
		return storageErr("saving query response", err)
	}
	return nil
}

// FindQuery retrieves a query by ID.
func (s *queryStore) FindQuery(ctx context.Context, id string) (*domain.Query, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, question, context, type, user_id, category, created_at
		FROM queries WHERE id = ?
	`, id)
	q, err := scanQuery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("finding query", err)
	}
	return q, nil
}

// FindResponsesByQuery returns responses for a query, oldest first.
func (s *queryStore) FindResponsesByQuery(ctx context.Context, queryID string) ([]domain.QueryResponse, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, query_id, answer, sources, confidence, reasoning, created_at
		FROM query_responses WHERE query_id = ? ORDER BY rowid
	`, queryID)
	if err != nil {
		return nil, storageErr("querying responses", err)
	}
	defer rows.Close()

	out := []domain.QueryResponse{}
	for rows.Next() {
		var (
			r         domain.QueryResponse
			sources   string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.QueryID, &r.Answer, &sources, &r.Confidence, &r.Reasoning, &createdAt); err != nil {
			return nil, storageErr("scanning response", err)
		}
		if err := json.Unmarshal([]byte(sources), &r.Sources); err != nil {
			return nil, storageErr("unmarshalling sources", err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating responses", err)
	}
	return out, nil
}

// ListQueries returns queries for a user, oldest first.
func (s *queryStore) ListQueries(ctx context.Context, userID string) ([]domain.Query, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, question, context, type, user_id, category, created_at
		FROM queries WHERE ? = '' OR user_id = ? ORDER BY rowid
	`, userID, userID)
	if err != nil {
		return nil, storageErr("querying queries", err)
	}
	defer rows.Close()

	out := []domain.Query{}
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, storageErr("scanning query", err)
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating queries", err)
	}
	return out, nil
}

func scanQuery(row scanner) (*domain.Query, error) {
	var (
		q         domain.Query
		qType     string
		category  sql.NullString
		createdAt string
	)
	if err := row.Scan(&q.ID, &q.Question, &q.Context, &qType, &q.UserID, &category, &createdAt); err != nil {
		return nil, err
	}
	q.Type = domain.QueryType(qType)
	q.Category = categoryPtr(category)
	q.CreatedAt = parseTime(createdAt)
	return &q, nil
}

// ==================== Writing Store ====================

// writingStore implements driven.WritingStore.
type writingStore struct {
	store *Store
}

var _ driven.WritingStore = (*writingStore)(nil)

// SaveWriting stores a writing request.
func (s *writingStore) SaveWriting(ctx context.Context, w *domain.Writing) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO writings (id, title, prompt, context, type, user_id, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			prompt = excluded.prompt,
			context = excluded.context,
			type = excluded.type,
			user_id = excluded.user_id,
			category = excluded.category
	`, w.ID, w.Title, w.Prompt, w.Context, string(w.Type), w.UserID, nullCategory(w.Category), formatTime(w.CreatedAt))
	if err != nil {
		return storageErr("saving writing", err)
	}
	return nil
}

// SaveResponse stores a response for an existing writing.
func (s *writingStore) SaveResponse(ctx context.Context, r *domain.WritingResponse) error {
	sections := r.Sections
	if sections == nil {
		sections = []domain.Section{}
	}
	sectionsJSON, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("marshalling sections: %w", err)
	}
	sources, err := json.Marshal(nonNilRefs(r.Sources))
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	err = s.store.withTx(ctx, func(tx *sql.Tx) error {
		if err := exists(ctx, tx, "writings", r.WritingID); err != nil {
			return fmt.Errorf("writing %s: %w", r.WritingID, err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO writing_responses (id, writing_id, content, sections, sources, confidence, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.WritingID, r.Content, string(sectionsJSON), string(sources), r.Confidence, formatTime(r.CreatedAt))
		return err
	})
	if err != nil {
		return storageErr("saving writing response", err)
	}
	return nil
}

// FindWriting retrieves a writing request by ID.
func (s *writingStore) FindWriting(ctx context.Context, id string) (*domain.Writing, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, prompt, context, type, user_id, category, created_at
		FROM writings WHERE id = ?
	`, id)
	w, err := scanWriting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("finding writing", err)
	}
	return w, nil
}

// FindResponsesByWriting returns responses for a writing, oldest first.
func (s *writingStore) FindResponsesByWriting(ctx context.Context, writingID string) ([]domain.WritingResponse, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, writing_id, content, sections, sources, confidence, created_at
		FROM writing_responses WHERE writing_id = ? ORDER BY rowid
	`, writingID)
	if err != nil {
		return nil, storageErr("querying responses", err)
	}
	defer rows.Close()

	out := []domain.WritingResponse{}
	for rows.Next() {
		var (
			r                 domain.WritingResponse
			sections, sources string
			createdAt         string
		)
		if err := rows.Scan(&r.ID, &r.WritingID, &r.Content, &sections, &sources, &r.Confidence, &createdAt); err != nil {
			return nil, storageErr("scanning response", err)
		}
		if err := json.Unmarshal([]byte(sections), &r.Sections); err != nil {
			return nil, storageErr("unmarshalling sections", err)
		}
		if err := json.Unmarshal([]byte(sources), &r.Sources); err != nil {
			return nil, storageErr("unmarshalling sources", err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating responses", err)
	}
	return out, nil
}

// ListWritings returns writings for a user, oldest first.
func (s *writingStore) ListWritings(ctx context.Context, userID string) ([]domain.Writing, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, prompt, context, type, user_id, category, created_at
		FROM writings WHERE ? = '' OR user_id = ? ORDER BY rowid
	`, userID, userID)
	if err != nil {
		return nil, storageErr("querying writings", err)
	}
	defer rows.Close()

	out := []domain.Writing{}
	for rows.Next() {
		w, err := scanWriting(rows)
		if err != nil {
			return nil, storageErr("scanning writing", err)
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating writings", err)
	}
	return out, nil
}

func scanWriting(row scanner) (*domain.Writing, error) {
	var (
		w         domain.Writing
		wType     string
		category  sql.NullString
		createdAt string
	)
	if err := row.Scan(&w.ID, &w.Title, &w.Prompt, &w.Context, &wType, &w.UserID, &category, &createdAt); err != nil {
		return nil, err
	}
	w.Type = domain.DocumentType(wType)
	w.Category = categoryPtr(category)
	w.CreatedAt = parseTime(createdAt)
	return &w, nil
}

// exists returns domain.ErrNotFound when no row in table has the id.
// table is always a literal from this package.
func exists(ctx context.Context, q querier, table, id string) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func nonNilRefs(refs []domain.DocumentReference) []domain.DocumentReference {
	if refs == nil {
		return []domain.DocumentReference{}
	}
	return refs
}
