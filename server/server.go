// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/poiesic/bookrag/core"
	"github.com/poiesic/bookrag/search"
	"github.com/rs/cors"
)

// maxRequestBody bounds the size of a query request.
const maxRequestBody = 1 << 20

// Ingester runs an ingestion over a document root.
type Ingester interface {
	Ingest(ctx context.Context, root string) (*core.IngestSummary, error)
}

// Querier answers a question with the topK closest chunks.
type Querier interface {
	Query(ctx context.Context, question string, topK int) ([]core.QueryResult, error)
}

// Server exposes ingestion and retrieval over HTTP.
type Server struct {
	ingester    Ingester
	querier     Querier
	docsDir     string
	corsOrigins []string
	logger      *slog.Logger
	handler     http.Handler
}

// Option configures a Server.
type Option func(*Server) error

// WithDocsDir sets the document root POST /ingest reads from.
func WithDocsDir(dir string) Option {
	return func(s *Server) error {
		if dir == "" {
			return fmt.Errorf("docs dir cannot be empty")
		}
		s.docsDir = dir
		return nil
	}
}

// WithCORSOrigins sets the origins allowed to call the API from a browser.
// Default is http://localhost:3000.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) error {
		s.corsOrigins = origins
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a server. Both ingester and querier are required.
func New(ingester Ingester, querier Querier, opts ...Option) (*Server, error) {
	if ingester == nil {
		return nil, errors.New("ingester required")
	}
	if querier == nil {
		return nil, errors.New("querier required")
	}

	s := &Server{
		ingester:    ingester,
		querier:     querier,
		corsOrigins: []string{"http://localhost:3000"},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.docsDir == "" {
		return nil, errors.New("docs dir required")
	}
	s.logger = s.logger.With("component", "http-server")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth(map[string]string{"status": "healthy"}))
	mux.HandleFunc("GET /ingest/health", s.handleHealth(map[string]string{"status": "healthy", "service": "ingestion"}))
	mux.HandleFunc("GET /query/health", s.handleHealth(map[string]string{"status": "ok"}))
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("POST /query", s.handleQuery)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	s.handler = c.Handler(s.logRequests(mux))
	return s, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(body map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, body)
	}
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	// Runs to completion even if the client goes away.
	summary, err := s.ingester.Ingest(context.WithoutCancel(r.Context()), s.docsDir)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.logger.Warn("documents directory not found", "dir", s.docsDir, "err", err)
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("ingestion failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "Ingestion failed: "+err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// queryRequest accepts both top_k and topK.
type queryRequest struct {
	Question  string `json:"question"`
	TopK      *int   `json:"top_k"`
	TopKCamel *int   `json:"topK"`
}

func (q queryRequest) topK() int {
	switch {
	case q.TopK != nil:
		return *q.TopK
	case q.TopKCamel != nil:
		return *q.TopKCamel
	default:
		return search.DefaultTopK
	}
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		s.writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	results, err := s.querier.Query(r.Context(), req.Question, req.topK())
	if err != nil {
		s.logger.Error("query failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "Query failed: "+err.Error())
		return
	}
	if results == nil {
		results = []core.QueryResult{}
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("error writing response", "err", err)
	}
}
