package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

// User-facing result messages.
const (
	msgQueryFailed      = "Sorry, an error occurred while processing your query. Please try again."
	msgDraftFailed      = "Sorry, an error occurred while generating the document. Please try again."
	msgValidationFailed = "Sorry, an error occurred while validating the document. Please try again."
	msgLookupFailed     = "Sorry, the history could not be loaded. Please try again."
)

// failure turns an error into a failed result. Validation and lookup
// errors are shown as-is; anything else gets the apology message and is
// only logged.
func failure[T any](err error, apology string) domain.Result[T] {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return domain.Fail[T](domain.ResultInvalidPrefix + strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": "))
	case errors.Is(err, domain.ErrNotFound):
		return domain.Fail[T](domain.ResultNotFound)
	default:
		logger.Warn("%s: %v", apology, err)
		return domain.Fail[T](apology)
	}
}

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService validates, persists and answers legal questions.
type QueryService struct {
	orchestrator *QueryOrchestrator
	store        driven.QueryStore
	now          func() time.Time
}

// NewQueryService creates a new query service.
func NewQueryService(orchestrator *QueryOrchestrator, store driven.QueryStore) *QueryService {
	return &QueryService{orchestrator: orchestrator, store: store, now: time.Now}
}

// Ask validates and stores the question, answers it, and stores the answer.
func (s *QueryService) Ask(ctx context.Context, req driving.AskRequest) domain.Result[domain.QueryResponse] {
	q, err := s.newQuery(req)
	if err != nil {
		return failure[domain.QueryResponse](err, msgQueryFailed)
	}

	if err := s.store.SaveQuery(ctx, q); err != nil {
		return failure[domain.QueryResponse](fmt.Errorf("saving query: %w", err), msgQueryFailed)
	}

	resp, err := s.orchestrator.ProcessQuery(ctx, *q)
	if err != nil {
		return failure[domain.QueryResponse](err, msgQueryFailed)
	}

	if err := s.store.SaveResponse(ctx, resp); err != nil {
		return failure[domain.QueryResponse](fmt.Errorf("saving query response: %w", err), msgQueryFailed)
	}

	return domain.Ok(resp, "Query processed successfully")
}

func (s *QueryService) newQuery(req driving.AskRequest) (*domain.Query, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrValidation)
	}
	if req.Type == "" {
		req.Type = domain.QueryTypeLegalQuestion
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown query type %q", domain.ErrValidation, req.Type)
	}
	if req.Category != nil && !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *req.Category)
	}

	return &domain.Query{
		ID:        uuid.New().String(),
		Question:  question,
		Context:   strings.TrimSpace(req.Context),
		Type:      req.Type,
		UserID:    req.UserID,
		Category:  req.Category,
		CreatedAt: s.now(),
	}, nil
}

// Get returns a stored query with its responses.
func (s *QueryService) Get(ctx context.Context, id string) domain.Result[domain.QueryRecord] {
	q, err := s.store.FindQuery(ctx, id)
	if err != nil {
		return failure[domain.QueryRecord](err, msgLookupFailed)
	}
	responses, err := s.store.FindResponsesByQuery(ctx, id)
	if err != nil {
		return failure[domain.QueryRecord](err, msgLookupFailed)
	}
	return domain.Ok(&domain.QueryRecord{Query: *q, Responses: responses}, "Query found")
}

// History lists stored queries for a user.
func (s *QueryService) History(ctx context.Context, userID string) domain.Result[[]domain.Query] {
	queries, err := s.store.ListQueries(ctx, userID)
	if err != nil {
		return failure[[]domain.Query](err, msgLookupFailed)
	}
	return domain.Ok(&queries, fmt.Sprintf("%d queries", len(queries)))
}

// Ensure WritingService implements the interface.
var _ driving.WritingService = (*WritingService)(nil)

// WritingService validates, persists and drafts legal documents.
type WritingService struct {
	orchestrator *WritingOrchestrator
	store        driven.WritingStore
	now          func() time.Time
}

// NewWritingService creates a new writing service.
func NewWritingService(orchestrator *WritingOrchestrator, store driven.WritingStore) *WritingService {
	return &WritingService{orchestrator: orchestrator, store: store, now: time.Now}
}

// Generate validates and stores the request, drafts, and stores the draft.
func (s *WritingService) Generate(ctx context.Context, req driving.DraftRequest) domain.Result[domain.WritingResponse] {
	w, err := s.newWriting(req)
	if err != nil {
		return failure[domain.WritingResponse](err, msgDraftFailed)
	}

	if err := s.store.SaveWriting(ctx, w); err != nil {
		return failure[domain.WritingResponse](fmt.Errorf("saving writing: %w", err), msgDraftFailed)
	}

	resp, err := s.orchestrator.GenerateDocument(ctx, *w)
	if err != nil {
		return failure[domain.WritingResponse](err, msgDraftFailed)
	}

	if err := s.store.SaveResponse(ctx, resp); err != nil {
		return failure[domain.WritingResponse](fmt.Errorf("saving writing response: %w", err), msgDraftFailed)
	}

	return domain.Ok(resp, "Document generated successfully")
}

func (s *WritingService) newWriting(req driving.DraftRequest) (*domain.Writing, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}
	if req.Type == "" {
		req.Type = domain.DocumentTypeOther
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown document type %q", domain.ErrValidation, req.Type)
	}
	if req.Category != nil && !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *req.Category)
	}

	return &domain.Writing{
		ID:        uuid.New().String(),
		Title:     title,
		Prompt:    prompt,
		Context:   strings.TrimSpace(req.Context),
		Type:      req.Type,
		UserID:    req.UserID,
		Category:  req.Category,
		CreatedAt: s.now(),
	}, nil
}

// Validate reviews the content of a document.
func (s *WritingService) Validate(ctx context.Context, content string) domain.Result[domain.ValidationReport] {
	if strings.TrimSpace(content) == "" {
		return failure[domain.ValidationReport](
			fmt.Errorf("%w: content is required", domain.ErrValidation), msgValidationFailed)
	}

	report, err := s.orchestrator.ValidateDocument(ctx, content)
	if err != nil {
		return failure[domain.ValidationReport](err, msgValidationFailed)
	}
	return domain.Ok(report, "Document validated")
}

// Get returns a stored writing request with its responses.
func (s *WritingService) Get(ctx context.Context, id string) domain.Result[domain.WritingRecord] {
	w, err := s.store.FindWriting(ctx, id)
	if err != nil {
		return failure[domain.WritingRecord](err, msgLookupFailed)
	}
	responses, err := s.store.FindResponsesByWriting(ctx, id)
	if err != nil {
		return failure[domain.WritingRecord](err, msgLookupFailed)
	}
	return domain.Ok(&domain.WritingRecord{Writing: *w, Responses: responses}, "Writing found")
}

// History lists stored writing requests for a user.
func (s *WritingService) History(ctx context.Context, userID string) domain.Result[[]domain.Writing] {
	writings, err := s.store.ListWritings(ctx, userID)
	if err != nil {
		return failure[[]domain.Writing](err, msgLookupFailed)
	}
	return domain.Ok(&writings, fmt.Sprintf("%d writings", len(writings)))
}
