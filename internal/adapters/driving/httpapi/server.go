// Package httpapi exposes the library and the assistant over a JSON HTTP
// API built on gin. Every response uses the envelope
// {"success": bool, "message": string, "data": ...}.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

var log = logger.With("http")

// Server defaults.
const (
	// MaxUploadBytes bounds the size of an uploaded file.
	MaxUploadBytes = 32 << 20

	// multipartOverhead is the room left for form fields and part headers
	// on top of the file limit.
	multipartOverhead = 64 << 10

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Ports holds the driving ports served over HTTP.
type Ports struct {
	Library driving.LibraryService
	Search  driving.SearchService
	Query   driving.QueryService
	Writing driving.WritingService
}

// Server is the HTTP front-end.
type Server struct {
	ports     *Ports
	engine    *gin.Engine
	maxUpload int64
}

// NewServer creates a server with every route registered.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil || ports.Library == nil || ports.Search == nil || ports.Query == nil || ports.Writing == nil {
		return nil, errors.New("httpapi: all ports are required")
	}

	if !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = MaxUploadBytes
	engine.Use(gin.Recovery(), requestLog())

	s := &Server{ports: ports, engine: engine, maxUpload: MaxUploadBytes}
	s.routes(engine.Group("/api/v1"))
	engine.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "route not found")
	})
	return s, nil
}

// WithMaxUploadBytes overrides the upload limit. Non-positive values are ignored.
func (s *Server) WithMaxUploadBytes(n int64) *Server {
	if n > 0 {
		s.maxUpload = n
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Mount serves h under prefix alongside the API routes. The prefix itself
// and every path below it are routed to h for all methods.
func (s *Server) Mount(prefix string, h http.Handler) {
	prefix = "/" + strings.Trim(prefix, "/")
	wrapped := gin.WrapH(h)
	s.engine.Any(prefix, wrapped)
	s.engine.Any(prefix+"/*rest", wrapped)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) routes(api *gin.RouterGroup) {
	api.GET("/health", s.health)

	api.POST("/documents", s.uploadDocument)
	api.POST("/documents/index", s.indexDocument)
	api.POST("/documents/batch", s.indexBatch)
	api.POST("/documents/directory", s.indexDirectory)
	api.GET("/documents", s.listDocuments)
	api.GET("/documents/stats", s.documentStats)
	api.GET("/documents/:id", s.getDocument)
	api.PATCH("/documents/:id", s.updateDocument)
	api.DELETE("/documents/:id", s.deleteDocument)

	api.GET("/search", s.search)

	api.POST("/queries", s.ask)
	api.GET("/queries", s.queryHistory)
	api.GET("/queries/:id", s.getQuery)

	api.POST("/writings", s.draft)
	api.POST("/writings/validate", s.validate)
	api.GET("/writings", s.writingHistory)
	api.GET("/writings/:id", s.getWriting)
	api.GET("/writings/:id/export", s.exportWriting)
}

// requestLog logs each request in verbose mode.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) health(c *gin.Context) {
	respond(c, http.StatusOK, "ok", nil)
}
