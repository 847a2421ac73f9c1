package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

const (
	// maxTitleRunes is the exclusive upper bound for a first line to be used as title.
	maxTitleRunes = 100

	// maxSummaryRunes is where the summary is cut before the ellipsis.
	maxSummaryRunes = 200
)

// IngestionConfig configures the ingestion pipeline.
type IngestionConfig struct {
	Root         string
	Extension    string
	Language     string
	Jurisdiction string
	Workers      int
}

// IngestionOption configures an IngestionPipeline.
type IngestionOption func(*IngestionPipeline)

// WithClock overrides the time source.
func WithClock(now func() time.Time) IngestionOption {
	return func(p *IngestionPipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator overrides document ID generation.
func WithIDGenerator(newID func() string) IngestionOption {
	return func(p *IngestionPipeline) {
		if newID != nil {
			p.newID = newID
		}
	}
}

// IngestionPipeline turns raw sources into documents.
// It never persists; callers decide what to do with the result.
type IngestionPipeline struct {
	extractor driven.TextExtractor
	cfg       IngestionConfig
	now       func() time.Time
	newID     func() string
}

// NewIngestionPipeline creates a pipeline. Empty config fields take the
// domain defaults.
func NewIngestionPipeline(extractor driven.TextExtractor, cfg IngestionConfig, opts ...IngestionOption) *IngestionPipeline {
	if cfg.Root == "" {
		cfg.Root = domain.DefaultIngestionRoot
	}
	if cfg.Extension == "" {
		cfg.Extension = domain.DefaultExtension
	}
	if cfg.Language == "" {
		cfg.Language = domain.DefaultLanguage
	}
	if cfg.Jurisdiction == "" {
		cfg.Jurisdiction = domain.DefaultJurisdiction
	}
	if cfg.Workers <= 0 {
		cfg.Workers = domain.DefaultWorkers
	}

	p := &IngestionPipeline{
		extractor: extractor,
		cfg:       cfg,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the configured ingestion root.
func (p *IngestionPipeline) Root() string {
	return p.cfg.Root
}

// Ingest reads sourceRef from under the ingestion root and builds a document.
func (p *IngestionPipeline) Ingest(ctx context.Context, sourceRef string, category domain.Category) (*domain.Document, error) {
	logger.Debug("Ingesting %q as %s", sourceRef, category)

	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}

	full, rel, err := p.resolve(sourceRef)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	return p.build(ctx, rel, filepath.Base(full), data, category)
}

// IngestBytes builds a document from uploaded content.
// fileName is used for the title fallback and as the source.
func (p *IngestionPipeline) IngestBytes(
	ctx context.Context, fileName string, data []byte, category domain.Category,
) (*domain.Document, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}
	name := filepath.Base(filepath.Clean(fileName))
	if name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	return p.build(ctx, name, name, data, category)
}

// IngestBatch ingests every item on a bounded worker pool.
// Each item succeeds or fails on its own; the results keep input order.
func (p *IngestionPipeline) IngestBatch(ctx context.Context, items []domain.BatchItem) []domain.BatchItemResult {
	logger.Section("Batch Ingestion")
	logger.Debug("Items: %d, workers: %d", len(items), p.cfg.Workers)

	results := make([]domain.BatchItemResult, len(items))

	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)

	for i, item := range items {
		g.Go(func() error {
			res := domain.BatchItemResult{Source: item.Source, Category: item.Category}
			if err := ctx.Err(); err != nil {
				res.Err = err
			} else {
				res.Document, res.Err = p.Ingest(ctx, item.Source, item.Category)
			}
			if res.Err != nil {
				logger.Warn("Failed to ingest %s: %v", item.Source, res.Err)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Discover lists files with the configured extension below dir, which is
// resolved against the ingestion root. Paths are returned relative to the
// root, sorted lexically.
func (p *IngestionPipeline) Discover(ctx context.Context, dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	full, _, err := p.resolve(dir)
	if err != nil {
		return nil, err
	}
	root, err := filepath.Abs(p.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	var found []string
	err = filepath.WalkDir(full, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), p.cfg.Extension) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		found = append(found, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering %s: %w", dir, err)
	}

	logger.Debug("Discovered %d %s files under %s", len(found), p.cfg.Extension, dir)
	return found, nil
}

// resolve maps a source reference to an absolute path inside the root.
// It returns the absolute path and the path relative to the root.
func (p *IngestionPipeline) resolve(sourceRef string) (string, string, error) {
	if strings.TrimSpace(sourceRef) == "" {
		return "", "", fmt.Errorf("%w: source reference is required", domain.ErrValidation)
	}

	root, err := filepath.Abs(p.cfg.Root)
	if err != nil {
		return "", "", fmt.Errorf("resolving root: %w", err)
	}

	full := filepath.Clean(sourceRef)
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, sourceRef)
	}

	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %s is outside the ingestion root", domain.ErrValidation, sourceRef)
	}

	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("%w: %s", domain.ErrNotFound, sourceRef)
		}
		return "", "", fmt.Errorf("stat %s: %w", sourceRef, err)
	}

	return full, rel, nil
}

func (p *IngestionPipeline) build(
	ctx context.Context, source, fileName string, data []byte, category domain.Category,
) (*domain.Document, error) {
	extracted, err := p.extractor.Extract(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtraction, source, err)
	}

	var pageCount *int
	if extracted.PageCount > 0 {
		n := extracted.PageCount
		pageCount = &n
	}

	now := p.now()
	doc := &domain.Document{
		ID:       p.newID(),
		Title:    deriveTitle(extracted.Text, fileName),
		Content:  extracted.Text,
		Source:   filepath.ToSlash(source),
		Category: category,
		Metadata: domain.Metadata{
			FileName:      fileName,
			FileSizeBytes: int64(len(data)),
			PageCount:     pageCount,
			Language:      p.cfg.Language,
			Jurisdiction:  p.cfg.Jurisdiction,
			Tags:          []string{category.Tag()},
			Summary:       summarise(extracted.Text),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	logger.Debug("Ingested %s: id=%s title=%q", source, doc.ID, doc.Title)
	return doc, nil
}

// deriveTitle uses the first non-blank line when it is short enough,
// otherwise the file name without its extension.
func deriveTitle(text, fileName string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) < maxTitleRunes {
			return line
		}
		break
	}
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// summarise collapses whitespace and truncates to maxSummaryRunes.
func summarise(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(collapsed) <= maxSummaryRunes {
		return collapsed
	}
	runes := []rune(collapsed)
	return string(runes[:maxSummaryRunes]) + "..."
}
