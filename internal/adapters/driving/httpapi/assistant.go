package httpapi

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexa-cli/internal/export"
)

type askRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Category string `json:"category"`
}

type draftRequest struct {
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
	Context  string `json:"context"`
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Category string `json:"category"`
}

type validateRequest struct {
	Content string `json:"content"`
}

// optionalCategory parses a category that may be absent.
func optionalCategory(s string) (*domain.Category, error) {
	if s == "" {
		return nil, nil
	}
	c, err := domain.ParseCategory(strings.ToUpper(s))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Server) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := optionalCategory(req.Category)
	if err != nil {
		handleError(c, err)
		return
	}
	queryType := domain.QueryTypeLegalQuestion
	if req.Type != "" {
		queryType = domain.QueryType(strings.ToUpper(req.Type))
	}

	result := s.ports.Query.Ask(c.Request.Context(), driving.AskRequest{
		Question: req.Question,
		Context:  req.Context,
		Type:     queryType,
		UserID:   req.UserID,
		Category: category,
	})
	respondResult(c, http.StatusCreated, result)
}

func (s *Server) queryHistory(c *gin.Context) {
	respondResult(c, http.StatusOK, s.ports.Query.History(c.Request.Context(), c.Query("user")))
}

func (s *Server) getQuery(c *gin.Context) {
	respondResult(c, http.StatusOK, s.ports.Query.Get(c.Request.Context(), c.Param("id")))
}

func (s *Server) draft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := optionalCategory(req.Category)
	if err != nil {
		handleError(c, err)
		return
	}
	docType := domain.DocumentTypeOther
	if req.Type != "" {
		docType = domain.DocumentType(strings.ToUpper(req.Type))
	}

	result := s.ports.Writing.Generate(c.Request.Context(), driving.DraftRequest{
		Title:    req.Title,
		Prompt:   req.Prompt,
		Context:  req.Context,
		Type:     docType,
		UserID:   req.UserID,
		Category: category,
	})
	respondResult(c, http.StatusCreated, result)
}

func (s *Server) validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respondResult(c, http.StatusOK, s.ports.Writing.Validate(c.Request.Context(), req.Content))
}

func (s *Server) writingHistory(c *gin.Context) {
	respondResult(c, http.StatusOK, s.ports.Writing.History(c.Request.Context(), c.Query("user")))
}

func (s *Server) getWriting(c *gin.Context) {
	respondResult(c, http.StatusOK, s.ports.Writing.Get(c.Request.Context(), c.Param("id")))
}

// exportWriting renders the latest draft of a writing request.
func (s *Server) exportWriting(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", "html"), export.FormatHTML, export.FormatYAML)
	if err != nil {
		handleError(c, err)
		return
	}

	result := s.ports.Writing.Get(c.Request.Context(), c.Param("id"))
	if !result.Success {
		respondResult(c, http.StatusOK, result)
		return
	}
	record := result.Data
	if len(record.Responses) == 0 {
		respondError(c, http.StatusNotFound, "writing has no drafts")
		return
	}
	latest := &record.Responses[len(record.Responses)-1]

	var buf bytes.Buffer
	contentType := "text/html; charset=utf-8"
	if format == export.FormatYAML {
		contentType = "application/yaml"
		err = export.DraftYAML(&buf, record.Writing.Title, latest)
	} else {
		err = export.DraftHTML(&buf, record.Writing.Title, latest)
	}
	if err != nil {
		handleError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
