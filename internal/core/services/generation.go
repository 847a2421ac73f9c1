package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

// maxContextRunes is how much of each document's content goes into a prompt.
const maxContextRunes = 1000

// GenerationConfig configures prompt assembly and output parsing.
type GenerationConfig struct {
	// MaxContextDocuments caps documents per prompt. Zero means the default.
	MaxContextDocuments int

	// StrictValidity makes ValidateDocument require an exact "Valid" label.
	StrictValidity bool
}

// Draft is the structured output of DraftDocument.
type Draft struct {
	Content  string
	Sections []domain.Section
}

// GenerationEngine builds prompts from retrieved documents, calls the
// language model, and parses its free-text output.
type GenerationEngine struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	cfg     GenerationConfig
}

// NewGenerationEngine creates a generation engine.
// llm may be nil; every operation then fails with domain.ErrLLMUnavailable.
func NewGenerationEngine(llm driven.LLMService, prompts driven.PromptStore, cfg GenerationConfig) *GenerationEngine {
	if cfg.MaxContextDocuments <= 0 {
		cfg.MaxContextDocuments = domain.DefaultMaxContextDocuments
	}
	return &GenerationEngine{llm: llm, prompts: prompts, cfg: cfg}
}

// AnswerQuestion answers a question using the documents as context.
func (e *GenerationEngine) AnswerQuestion(ctx context.Context, question string, docs []domain.Document) (string, error) {
	logger.Debug("Answering question with %d context documents", len(docs))

	prompt, err := e.render(driven.PromptLegalAnswer, e.formatContext(docs), question)
	if err != nil {
		return "", err
	}
	return e.generate(ctx, prompt, driven.GenerateOptions{Temperature: 0.2})
}

// ExplainReasoning explains how answer follows from the documents.
func (e *GenerationEngine) ExplainReasoning(
	ctx context.Context, question, answer string, docs []domain.Document,
) (string, error) {
	titles := make([]string, 0, len(docs))
	for i := range e.limitDocs(docs) {
		titles = append(titles, "- "+docs[i].Title)
	}

	prompt, err := e.render(driven.PromptLegalReasoning, question, answer, strings.Join(titles, "\n"))
	if err != nil {
		return "", err
	}
	return e.generate(ctx, prompt, driven.GenerateOptions{Temperature: 0.2})
}

// DraftDocument drafts a legal document and splits it into sections.
func (e *GenerationEngine) DraftDocument(
	ctx context.Context,
	title, instructions, additionalContext string,
	docType domain.DocumentType,
	docs []domain.Document,
) (*Draft, error) {
	logger.Debug("Drafting %s %q with %d context documents", docType, title, len(docs))

	prompt, err := e.render(driven.PromptLegalDraft,
		string(docType), title, instructions, additionalContext, e.formatContext(docs))
	if err != nil {
		return nil, err
	}

	content, err := e.generate(ctx, prompt, driven.GenerateOptions{Temperature: 0.4})
	if err != nil {
		return nil, err
	}

	return &Draft{Content: content, Sections: ParseSections(content)}, nil
}

// ValidateDocument asks the model to review content and parses the
// labelled report it returns.
func (e *GenerationEngine) ValidateDocument(ctx context.Context, content string) (*domain.ValidationReport, error) {
	prompt, err := e.render(driven.PromptLegalValidate, content)
	if err != nil {
		return nil, err
	}

	raw, err := e.generate(ctx, prompt, driven.GenerateOptions{Temperature: 0})
	if err != nil {
		return nil, err
	}

	report := ParseValidationReport(raw, e.cfg.StrictValidity)
	return &report, nil
}

func (e *GenerationEngine) generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if e.llm == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrLLMUnavailable)
	}
	opts.System = e.system()
	out, err := e.llm.Generate(ctx, prompt, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrGeneration, e.llm.ModelName(), err)
	}
	return strings.TrimSpace(out), nil
}

func (e *GenerationEngine) render(name string, args ...any) (string, error) {
	if e.prompts == nil {
		return "", fmt.Errorf("%w: no prompt store configured", domain.ErrGeneration)
	}
	tmpl, err := e.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("%w: loading prompt %s: %w", domain.ErrGeneration, name, err)
	}
	return fmt.Sprintf(tmpl, args...), nil
}

// system returns the system instruction, or "" when none is available.
func (e *GenerationEngine) system() string {
	if e.prompts == nil {
		return ""
	}
	s, err := e.prompts.Load(driven.PromptLegalSystem)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func (e *GenerationEngine) limitDocs(docs []domain.Document) []domain.Document {
	if len(docs) > e.cfg.MaxContextDocuments {
		return docs[:e.cfg.MaxContextDocuments]
	}
	return docs
}

// formatContext renders each document as its title followed by the start
// of its content. Documents are separated by a blank line.
func (e *GenerationEngine) formatContext(docs []domain.Document) string {
	docs = e.limitDocs(docs)
	blocks := make([]string, 0, len(docs))
	for i := range docs {
		content := []rune(docs[i].Content)
		if len(content) > maxContextRunes {
			content = content[:maxContextRunes]
		}
		blocks = append(blocks, fmt.Sprintf("Document: %s\n%s", docs[i].Title, string(content)))
	}
	return strings.Join(blocks, "\n\n")
}

var numberedHeader = regexp.MustCompile(`^\d+\.`)

// isSectionHeader reports whether a trimmed line starts a new section:
// either a numbered line ("1. Intro") or an all-caps line longer than
// three characters.
func isSectionHeader(line string) bool {
	if numberedHeader.MatchString(line) {
		return true
	}
	return utf8.RuneCountInString(line) > 3 && strings.ToUpper(line) == line
}

// ParseSections splits generated text into titled sections.
// Text before the first header is discarded.
func ParseSections(content string) []domain.Section {
	sections := []domain.Section{}

	var (
		title   string
		body    []string
		started bool
	)
	flush := func() {
		if !started {
			return
		}
		sections = append(sections, domain.Section{
			Title:   title,
			Content: strings.TrimSpace(strings.Join(body, "\n")),
			Order:   len(sections) + 1,
		})
	}

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if isSectionHeader(line) {
			flush()
			title, body, started = line, nil, true
			continue
		}
		if started {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// Labels of the validation report format.
const (
	labelValidity    = "VALIDITY:"
	labelIssues      = "ISSUES:"
	labelSuggestions = "SUGGESTIONS:"
	labelAnalysis    = "ANALYSIS:"
)

// ParseValidationReport reads the labelled blocks of a review.
//
// By default the document is valid when the VALIDITY text contains
// "valid" in any case, so "Invalid" is reported as valid. With strict set,
// the VALIDITY text must equal "Valid" ignoring case.
func ParseValidationReport(raw string, strict bool) domain.ValidationReport {
	blocks := map[string][]string{}
	current := ""

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		matched := false
		for _, label := range []string{labelValidity, labelIssues, labelSuggestions, labelAnalysis} {
			if strings.HasPrefix(trimmed, label) {
				current = label
				matched = true
				if rest := strings.TrimSpace(strings.TrimPrefix(trimmed, label)); rest != "" {
					blocks[current] = append(blocks[current], rest)
				}
				break
			}
		}
		if matched || current == "" {
			continue
		}
		blocks[current] = append(blocks[current], trimmed)
	}

	validity := strings.TrimSpace(strings.Join(blocks[labelValidity], " "))
	var isValid bool
	if strict {
		isValid = strings.EqualFold(validity, "Valid")
	} else {
		isValid = strings.Contains(strings.ToLower(validity), "valid")
	}

	analysis := strings.TrimSpace(strings.Join(blocks[labelAnalysis], "\n"))
	if len(blocks) == 0 {
		analysis = strings.TrimSpace(raw)
	}

	return domain.ValidationReport{
		IsValid:     isValid,
		Issues:      bulletItems(blocks[labelIssues]),
		Suggestions: bulletItems(blocks[labelSuggestions]),
		Analysis:    analysis,
	}
}

// bulletItems keeps lines starting with "-" or "*", without the marker.
func bulletItems(lines []string) []string {
	items := []string{}
	for _, line := range lines {
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			if item := strings.TrimSpace(line[1:]); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}
