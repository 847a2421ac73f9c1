package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// envelope is the body of every response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrExtraction), errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrGeneration), errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrEmbeddingUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err as a failed envelope. Internal errors are logged
// and replaced by a generic message.
func handleError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		respondError(c, status, "internal error")
		return
	}
	respondError(c, status, err.Error())
}

// respondResult writes an orchestration Result. Failed results keep their
// message; the status follows its kind.
func respondResult[T any](c *gin.Context, status int, result domain.Result[T]) {
	if result.Success {
		c.JSON(status, result)
		return
	}

	switch {
	case strings.HasPrefix(result.Message, domain.ResultInvalidPrefix):
		status = http.StatusBadRequest
	case result.Message == domain.ResultNotFound:
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, result)
}
