package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

// retrievalStage holds what both orchestrators share: retrieving
// references and loading the documents behind them.
type retrievalStage struct {
	retriever driven.Retriever
	docStore  driven.DocumentStore
	limit     int
	now       func() time.Time
}

func (r *retrievalStage) retrieve(
	ctx context.Context, text string, category *domain.Category,
) ([]domain.DocumentReference, []domain.Document, error) {
	refs, err := r.retriever.Search(ctx, text, domain.SearchOptions{Category: category, Limit: r.limit})
	if err != nil {
		return nil, nil, fmt.Errorf("retrieving documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(refs))
	kept := make([]domain.DocumentReference, 0, len(refs))
	for _, ref := range refs {
		doc, err := r.docStore.FindByID(ctx, ref.DocumentID)
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted between retrieval and hydration.
			logger.Debug("Skipping vanished document %s", ref.DocumentID)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("loading document %s: %w", ref.DocumentID, err)
		}
		docs = append(docs, *doc)
		kept = append(kept, ref)
	}

	logger.Debug("Retrieved %d documents", len(docs))
	return kept, docs, nil
}

// QueryOrchestrator answers a query from retrieved documents.
// It does not persist anything.
type QueryOrchestrator struct {
	stage  retrievalStage
	engine *GenerationEngine
}

// NewQueryOrchestrator creates a query orchestrator.
// limit bounds retrieval; zero means domain.DefaultSearchLimit.
func NewQueryOrchestrator(
	retriever driven.Retriever, docStore driven.DocumentStore, engine *GenerationEngine, limit int,
) *QueryOrchestrator {
	return &QueryOrchestrator{
		stage:  retrievalStage{retriever: retriever, docStore: docStore, limit: limit, now: time.Now},
		engine: engine,
	}
}

// ProcessQuery retrieves, answers, scores and explains.
func (o *QueryOrchestrator) ProcessQuery(ctx context.Context, q domain.Query) (*domain.QueryResponse, error) {
	logger.Section("Query Processing")
	logger.Debug("Query %s: %q", q.ID, q.Question)

	refs, docs, err := o.stage.retrieve(ctx, q.Question, q.Category)
	if err != nil {
		return nil, err
	}

	question := q.Question
	if q.Context != "" {
		question += "\n\nAdditional context: " + q.Context
	}

	answer, err := o.engine.AnswerQuestion(ctx, question, docs)
	if err != nil {
		return nil, err
	}

	confidence := domain.Confidence(q.Question, docs)

	reasoning, err := o.engine.ExplainReasoning(ctx, q.Question, answer, docs)
	if err != nil {
		return nil, err
	}

	return &domain.QueryResponse{
		ID:         uuid.New().String(),
		QueryID:    q.ID,
		Answer:     answer,
		Sources:    refs,
		Confidence: confidence,
		Reasoning:  reasoning,
		CreatedAt:  o.stage.now(),
	}, nil
}

// WritingOrchestrator drafts a document from retrieved documents.
// It does not persist anything.
type WritingOrchestrator struct {
	stage  retrievalStage
	engine *GenerationEngine
}

// NewWritingOrchestrator creates a writing orchestrator.
// limit bounds retrieval; zero means domain.DefaultSearchLimit.
func NewWritingOrchestrator(
	retriever driven.Retriever, docStore driven.DocumentStore, engine *GenerationEngine, limit int,
) *WritingOrchestrator {
	return &WritingOrchestrator{
		stage:  retrievalStage{retriever: retriever, docStore: docStore, limit: limit, now: time.Now},
		engine: engine,
	}
}

// GenerateDocument retrieves, drafts and scores.
func (o *WritingOrchestrator) GenerateDocument(ctx context.Context, w domain.Writing) (*domain.WritingResponse, error) {
	logger.Section("Document Drafting")
	logger.Debug("Writing %s: %s %q", w.ID, w.Type, w.Title)

	refs, docs, err := o.stage.retrieve(ctx, w.Prompt, w.Category)
	if err != nil {
		return nil, err
	}

	draft, err := o.engine.DraftDocument(ctx, w.Title, w.Prompt, w.Context, w.Type, docs)
	if err != nil {
		return nil, err
	}

	return &domain.WritingResponse{
		ID:         uuid.New().String(),
		WritingID:  w.ID,
		Content:    draft.Content,
		Sections:   draft.Sections,
		Sources:    refs,
		Confidence: domain.Confidence(w.Prompt, docs),
		CreatedAt:  o.stage.now(),
	}, nil
}

// ValidateDocument reviews content. It needs no retrieval.
func (o *WritingOrchestrator) ValidateDocument(ctx context.Context, content string) (*domain.ValidationReport, error) {
	return o.engine.ValidateDocument(ctx, content)
}
