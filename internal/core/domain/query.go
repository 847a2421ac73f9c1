package domain

import (
	"fmt"
	"time"
)

// QueryType classifies a legal question.
type QueryType string

// Query types. The string values are part of the wire format.
const (
	QueryTypeLegalQuestion         QueryType = "LEGAL_QUESTION"
	QueryTypeDocumentSearch        QueryType = "DOCUMENT_SEARCH"
	QueryTypeCaseAnalysis          QueryType = "CASE_ANALYSIS"
	QueryTypeStatuteInterpretation QueryType = "STATUTE_INTERPRETATION"
)

// IsValid returns true if the query type is recognised.
func (t QueryType) IsValid() bool {
	switch t {
	case QueryTypeLegalQuestion, QueryTypeDocumentSearch,
		QueryTypeCaseAnalysis, QueryTypeStatuteInterpretation:
		return true
	default:
		return false
	}
}

// ParseQueryType validates a raw query type string.
func ParseQueryType(s string) (QueryType, error) {
	t := QueryType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown query type %q", ErrValidation, s)
	}
	return t, nil
}

// Query is one incoming legal question. Immutable once created.
type Query struct {
	ID       string    `json:"id"`
	Question string    `json:"question"`
	Context  string    `json:"context,omitempty"`
	Type     QueryType `json:"type"`
	UserID   string    `json:"userId,omitempty"`

	// Category optionally restricts retrieval to one document category.
	Category *Category `json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// QueryResponse is the answer generated for a Query.
type QueryResponse struct {
	ID         string              `json:"id"`
	QueryID    string              `json:"queryId"`
	Answer     string              `json:"answer"`
	Sources    []DocumentReference `json:"sources"`
	Confidence float64             `json:"confidence"`
	Reasoning  string              `json:"reasoning"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// QueryRecord pairs a stored query with its responses.
type QueryRecord struct {
	Query     Query           `json:"query"`
	Responses []QueryResponse `json:"responses"`
}
