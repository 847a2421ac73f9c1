// Package export renders assistant responses for output: plain text, JSON,
// YAML and HTML. HTML goes through Markdown so drafted sections keep their
// headings and lists.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name. allowed restricts the accepted set;
// empty means every format.
func ParseFormat(s string, allowed ...Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if len(allowed) == 0 {
		allowed = []Format{FormatText, FormatJSON, FormatYAML, FormatHTML}
	}
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported format %q", domain.ErrValidation, s)
}

// sourceView is the YAML shape of a DocumentReference.
type sourceView struct {
	DocumentID string   `yaml:"document_id"`
	Title      string   `yaml:"title"`
	Score      float64  `yaml:"relevance_score"`
	Sections   []string `yaml:"relevant_sections,omitempty"`
}

type answerView struct {
	ID         string       `yaml:"id"`
	QueryID    string       `yaml:"query_id"`
	Answer     string       `yaml:"answer"`
	Reasoning  string       `yaml:"reasoning,omitempty"`
	Confidence float64      `yaml:"confidence"`
	Sources    []sourceView `yaml:"sources"`
	CreatedAt  string       `yaml:"created_at"`
}

type draftView struct {
	ID         string           `yaml:"id"`
	WritingID  string           `yaml:"writing_id"`
	Title      string           `yaml:"title,omitempty"`
	Confidence float64          `yaml:"confidence"`
	Sections   []domain.Section `yaml:"sections"`
	Content    string           `yaml:"content"`
	Sources    []sourceView     `yaml:"sources"`
	CreatedAt  string           `yaml:"created_at"`
}

type reportView struct {
	IsValid     bool     `yaml:"is_valid"`
	Issues      []string `yaml:"issues"`
	Suggestions []string `yaml:"suggestions"`
	Analysis    string   `yaml:"analysis"`
}

func sources(refs []domain.DocumentReference) []sourceView {
	out := make([]sourceView, 0, len(refs))
	for _, r := range refs {
		out = append(out, sourceView{
			DocumentID: r.DocumentID,
			Title:      r.Title,
			Score:      r.RelevanceScore,
			Sections:   r.RelevantSections,
		})
	}
	return out
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// AnswerYAML writes a query response as YAML.
func AnswerYAML(w io.Writer, resp *domain.QueryResponse) error {
	return writeYAML(w, answerView{
		ID:         resp.ID,
		QueryID:    resp.QueryID,
		Answer:     resp.Answer,
		Reasoning:  resp.Reasoning,
		Confidence: resp.Confidence,
		Sources:    sources(resp.Sources),
		CreatedAt:  timestamp(resp.CreatedAt),
	})
}

// DraftYAML writes a writing response as YAML.
func DraftYAML(w io.Writer, title string, resp *domain.WritingResponse) error {
	sections := resp.Sections
	if sections == nil {
		sections = []domain.Section{}
	}
	return writeYAML(w, draftView{
		ID:         resp.ID,
		WritingID:  resp.WritingID,
		Title:      title,
		Confidence: resp.Confidence,
		Sections:   sections,
		Content:    resp.Content,
		Sources:    sources(resp.Sources),
		CreatedAt:  timestamp(resp.CreatedAt),
	})
}

// ReportYAML writes a validation report as YAML.
func ReportYAML(w io.Writer, report *domain.ValidationReport) error {
	return writeYAML(w, reportView{
		IsValid:     report.IsValid,
		Issues:      report.Issues,
		Suggestions: report.Suggestions,
		Analysis:    report.Analysis,
	})
}

// DraftMarkdown renders a draft as Markdown. Parsed sections become second
// level headings; a draft without sections keeps its raw content.
func DraftMarkdown(title string, resp *domain.WritingResponse) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	if len(resp.Sections) == 0 {
		b.WriteString(strings.TrimSpace(resp.Content))
		b.WriteString("\n")
	}
	for _, s := range resp.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		if content := strings.TrimSpace(s.Content); content != "" {
			b.WriteString(content)
			b.WriteString("\n\n")
		}
	}
	if len(resp.Sources) > 0 {
		b.WriteString("\n---\n\n**Sources**\n\n")
		for _, src := range resp.Sources {
			fmt.Fprintf(&b, "- %s (%.2f)\n", src.Title, src.RelevanceScore)
		}
	}
	return b.String()
}

// HTMLRenderer converts Markdown into a standalone HTML page.
type HTMLRenderer struct {
	md goldmark.Markdown
}

// NewHTMLRenderer creates a renderer with GitHub-flavoured Markdown.
// Raw HTML coming from model output is escaped, not passed through.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)}
}

// Render converts markdown to an HTML fragment.
func (r *HTMLRenderer) Render(markdown string) (string, error) {
	var out bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out.String(), nil
}

// Page renders markdown and wraps it in a minimal HTML document.
func (r *HTMLRenderer) Page(w io.Writer, title, markdown string) error {
	body, err := r.Render(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, pageTemplate, html.EscapeString(title), body)
	return err
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// DraftHTML writes a draft as an HTML page.
func DraftHTML(w io.Writer, title string, resp *domain.WritingResponse) error {
	return NewHTMLRenderer().Page(w, title, DraftMarkdown(title, resp))
}
