package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

type indexRequest struct {
	Source   string `json:"source" binding:"required"`
	Category string `json:"category"`
}

type batchRequest struct {
	Items []indexRequest `json:"items" binding:"required"`
}

// batchItem is the wire form of a BatchItemResult.
type batchItem struct {
	Source   string           `json:"source"`
	Category domain.Category  `json:"category"`
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Document *domain.Document `json:"document,omitempty"`
}

type batchSummary struct {
	Total   int         `json:"total"`
	Indexed int         `json:"indexed"`
	Failed  int         `json:"failed"`
	Items   []batchItem `json:"items"`
}

func summarise(results []domain.BatchItemResult) batchSummary {
	out := batchSummary{Total: len(results), Items: make([]batchItem, 0, len(results))}
	for _, r := range results {
		item := batchItem{Source: r.Source, Category: r.Category, Document: r.Document, Success: !r.Failed()}
		if r.Failed() {
			item.Error = r.Err.Error()
			out.Failed++
		} else {
			out.Indexed++
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// parseCategory parses an optional category. Empty means OTHER.
func parseCategory(s string) (domain.Category, error) {
	if s == "" {
		return domain.CategoryOther, nil
	}
	return domain.ParseCategory(strings.ToUpper(s))
}

func badRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
}

func tooLarge(c *gin.Context, limit int64) {
	respondError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds the upload limit of %d bytes", limit))
}

func (s *Server) uploadDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge(c, s.maxUpload)
			return
		}
		badRequest(c, err)
		return
	}
	if header.Size > s.maxUpload {
		tooLarge(c, s.maxUpload)
		return
	}
	category, err := parseCategory(c.PostForm("category"))
	if err != nil {
		handleError(c, err)
		return
	}

	f, err := header.Open()
	if err != nil {
		handleError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxUpload+1))
	if err != nil {
		handleError(c, err)
		return
	}
	if int64(len(data)) > s.maxUpload {
		tooLarge(c, s.maxUpload)
		return
	}

	doc, err := s.ports.Library.IndexBytes(c.Request.Context(), header.Filename, data, category)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, "document indexed", doc)
}

func (s *Server) indexDocument(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		handleError(c, err)
		return
	}

	doc, err := s.ports.Library.Index(c.Request.Context(), req.Source, category)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, "document indexed", doc)
}

func (s *Server) indexBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	items := make([]domain.BatchItem, 0, len(req.Items))
	for _, it := range req.Items {
		category, err := parseCategory(it.Category)
		if err != nil {
			handleError(c, err)
			return
		}
		items = append(items, domain.BatchItem{Source: it.Source, Category: category})
	}

	summary := summarise(s.ports.Library.IndexBatch(c.Request.Context(), items))
	respond(c, http.StatusOK, fmt.Sprintf("indexed %d of %d documents", summary.Indexed, summary.Total), summary)
}

func (s *Server) indexDirectory(c *gin.Context) {
	var req struct {
		Directory string `json:"directory" binding:"required"`
		Category  string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		handleError(c, err)
		return
	}

	results, err := s.ports.Library.IndexDirectory(c.Request.Context(), req.Directory, category)
	if err != nil {
		handleError(c, err)
		return
	}
	summary := summarise(results)
	respond(c, http.StatusOK, fmt.Sprintf("indexed %d of %d documents", summary.Indexed, summary.Total), summary)
}

func (s *Server) listDocuments(c *gin.Context) {
	var filter domain.DocumentFilter
	if raw := c.Query("category"); raw != "" {
		category, err := parseCategory(raw)
		if err != nil {
			handleError(c, err)
			return
		}
		filter.Category = &category
	}
	if raw := c.Query("tags"); raw != "" {
		filter.Tags = strings.Split(raw, ",")
	}
	filter.Text = c.Query("q")

	docs, err := s.ports.Library.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	respond(c, http.StatusOK, fmt.Sprintf("%d documents", len(docs)), docs)
}

func (s *Server) documentStats(c *gin.Context) {
	stats, err := s.ports.Library.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "ok", stats)
}

func (s *Server) getDocument(c *gin.Context) {
	doc, err := s.ports.Library.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "ok", doc)
}

func (s *Server) updateDocument(c *gin.Context) {
	var update domain.DocumentUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}
	if update.Category != nil {
		category, err := parseCategory(string(*update.Category))
		if err != nil {
			handleError(c, err)
			return
		}
		update.Category = &category
	}

	doc, err := s.ports.Library.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "document updated", doc)
}

func (s *Server) deleteDocument(c *gin.Context) {
	id := c.Param("id")
	if err := s.ports.Library.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, "document deleted", gin.H{"id": id})
}

func (s *Server) search(c *gin.Context) {
	opts := domain.SearchOptions{}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(c, http.StatusBadRequest, "invalid request: limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}
	if raw := c.Query("category"); raw != "" {
		category, err := parseCategory(raw)
		if err != nil {
			handleError(c, err)
			return
		}
		opts.Category = &category
	}

	refs, err := s.ports.Search.Search(c.Request.Context(), c.Query("q"), opts)
	if err != nil {
		handleError(c, err)
		return
	}
	if refs == nil {
		refs = []domain.DocumentReference{}
	}
	respond(c, http.StatusOK, fmt.Sprintf("%d results", len(refs)), refs)
}
