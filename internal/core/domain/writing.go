package domain

import (
	"fmt"
	"time"
)

// DocumentType is the kind of legal document to draft.
type DocumentType string

// Writing document types. The string values are part of the wire format.
const (
	DocumentTypeComplaint    DocumentType = "COMPLAINT"
	DocumentTypeMotion       DocumentType = "MOTION"
	DocumentTypeBrief        DocumentType = "BRIEF"
	DocumentTypeContract     DocumentType = "CONTRACT"
	DocumentTypeLegalOpinion DocumentType = "LEGAL_OPINION"
	DocumentTypeDemandLetter DocumentType = "DEMAND_LETTER"
	DocumentTypeOther        DocumentType = "OTHER"
)

// IsValid returns true if the document type is recognised.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeComplaint, DocumentTypeMotion, DocumentTypeBrief,
		DocumentTypeContract, DocumentTypeLegalOpinion,
		DocumentTypeDemandLetter, DocumentTypeOther:
		return true
	default:
		return false
	}
}

// ParseDocumentType validates a raw document type string.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown document type %q", ErrValidation, s)
	}
	return t, nil
}

// Writing is one drafting request. Immutable once created.
type Writing struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Prompt  string       `json:"prompt"`
	Context string       `json:"context,omitempty"`
	Type    DocumentType `json:"type"`
	UserID  string       `json:"userId,omitempty"`

	// Category optionally restricts retrieval to one document category.
	Category *Category `json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Section is a titled block of a drafted document. Order starts at 1.
type Section struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Order   int    `json:"order" yaml:"order"`
}

// WritingResponse is the draft generated for a Writing.
type WritingResponse struct {
	ID         string              `json:"id"`
	WritingID  string              `json:"writingId"`
	Content    string              `json:"content"`
	Sections   []Section           `json:"sections"`
	Sources    []DocumentReference `json:"sources"`
	Confidence float64             `json:"confidence"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// WritingRecord pairs a stored writing request with its responses.
type WritingRecord struct {
	Writing   Writing           `json:"writing"`
	Responses []WritingResponse `json:"responses"`
}

// ValidationReport is the parsed result of a document review.
type ValidationReport struct {
	IsValid     bool     `json:"isValid"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Analysis    string   `json:"analysis"`
}
