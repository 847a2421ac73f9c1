package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Category classifies an ingested legal document.
type Category string

// Document categories. The string values are part of the wire format.
const (
	CategoryPenalCode      Category = "PENAL_CODE"
	CategoryCivilCode      Category = "CIVIL_CODE"
	CategoryCommercialCode Category = "COMMERCIAL_CODE"
	CategoryCaseLaw        Category = "CASE_LAW"
	CategoryLegalOpinion   Category = "LEGAL_OPINION"
	CategoryOther          Category = "OTHER"
)

// Categories returns every document category in declaration order.
func Categories() []Category {
	return []Category{
		CategoryPenalCode,
		CategoryCivilCode,
		CategoryCommercialCode,
		CategoryCaseLaw,
		CategoryLegalOpinion,
		CategoryOther,
	}
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategoryPenalCode, CategoryCivilCode, CategoryCommercialCode,
		CategoryCaseLaw, CategoryLegalOpinion, CategoryOther:
		return true
	default:
		return false
	}
}

// Tag returns the lower-cased form used in Metadata.Tags.
func (c Category) Tag() string {
	return strings.ToLower(string(c))
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory validates a raw category string.
// Matching is exact; callers at the boundary decide whether to upper-case first.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
	}
	return c, nil
}

// Document is an ingested legal text. It is immutable after creation
// except through an explicit DocumentUpdate.
type Document struct {
	// ID is the unique identifier, generated at ingestion.
	ID string `json:"id"`

	// Title is derived from the first short line of text or the file name.
	Title string `json:"title"`

	// Content is the full extracted text.
	Content string `json:"content"`

	// Source is the original relative path, kept for traceability.
	Source string `json:"source"`

	// Category is the declared classification.
	Category Category `json:"category"`

	// Metadata holds derived and configured attributes.
	Metadata Metadata `json:"metadata"`

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is bumped on every mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Metadata describes an ingested document.
type Metadata struct {
	FileName      string   `json:"fileName"`
	FileSizeBytes int64    `json:"fileSizeBytes"`
	PageCount     *int     `json:"pageCount,omitempty"`
	Language      string   `json:"language"`
	Jurisdiction  string   `json:"jurisdiction"`
	Tags          []string `json:"tags"`
	Summary       string   `json:"summary,omitempty"`
}

// HasTag reports whether the metadata carries the given tag.
func (m Metadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormaliseTags returns a sorted, de-duplicated copy of tags with blanks removed.
func NormaliseTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// DocumentUpdate is a partial-field merge. Nil fields are left untouched.
type DocumentUpdate struct {
	Title        *string   `json:"title,omitempty"`
	Category     *Category `json:"category,omitempty"`
	Language     *string   `json:"language,omitempty"`
	Jurisdiction *string   `json:"jurisdiction,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	Summary      *string   `json:"summary,omitempty"`
}

// Apply merges the update into doc and refreshes UpdatedAt.
// The category tag is kept in the tag set whenever the category changes
// or the tags are replaced.
func (u DocumentUpdate) Apply(doc *Document, now time.Time) error {
	if u.Category != nil {
		if !u.Category.IsValid() {
			return fmt.Errorf("%w: unknown category %q", ErrValidation, *u.Category)
		}
		doc.Category = *u.Category
	}
	if u.Title != nil {
		doc.Title = *u.Title
	}
	if u.Language != nil {
		doc.Metadata.Language = *u.Language
	}
	if u.Jurisdiction != nil {
		doc.Metadata.Jurisdiction = *u.Jurisdiction
	}
	if u.Summary != nil {
		doc.Metadata.Summary = *u.Summary
	}
	if u.Tags != nil {
		doc.Metadata.Tags = append([]string(nil), *u.Tags...)
	}
	if u.Tags != nil || u.Category != nil {
		doc.Metadata.Tags = NormaliseTags(append(doc.Metadata.Tags, doc.Category.Tag()))
	}
	doc.UpdatedAt = now
	return nil
}

// Chunk is a contiguous window of a document's content.
// Chunks are derived on demand and never persisted.
type Chunk struct {
	DocumentID string
	Content    string
	Position   int
}

// DocumentFilter narrows a document listing.
type DocumentFilter struct {
	Category *Category
	Tags     []string
	Text     string
}

// DocumentReference points at a document that is relevant to one query.
// It is produced per query and only persisted embedded in a response.
type DocumentReference struct {
	DocumentID       string   `json:"documentId"`
	Title            string   `json:"title"`
	RelevantSections []string `json:"relevantSections"`
	RelevanceScore   float64  `json:"relevanceScore"`
}
