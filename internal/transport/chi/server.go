// Package chi exposes the natural-language query API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nlquery/internal/domain"
	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/query"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
	healthuc "github.com/kailas-cloud/nlquery/internal/usecase/health"
	"github.com/kailas-cloud/nlquery/internal/usecase/nlq"
)

// maxBodyBytes caps request bodies; query text is at most 500 characters.
const maxBodyBytes = 16 << 10

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest        = "bad_request"
	CodeInvalidInput      = "invalid_input"
	CodeRejected          = "rejected_by_validator"
	CodeTranslationFailed = "translation_failed"
	CodeStoreError        = "store_error"
	CodeRateLimited       = "rate_limited"
	CodeUnauthorized      = "unauthorized"
	CodeNotFound          = "not_found"
	CodeMethodNotAllowed  = "method_not_allowed"
	CodeInternalError     = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AIQueryRequest is the body of POST /admin/ai-query.
type AIQueryRequest struct {
	QueryText string `json:"query_text"`
	Limit     *int   `json:"limit,omitempty"`
}

// AIQueryResponse is the body of a successful POST /admin/ai-query.
type AIQueryResponse struct {
	ValidatedQuery query.Validated `json:"validated_query"`
	Results        []record.Record `json:"results"`
	ResultCount    int             `json:"result_count"`
	WasCached      bool            `json:"was_cached"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// QueryRunner runs natural-language queries.
type QueryRunner interface {
	RunQuery(ctx context.Context, req query.Request) (nlq.Response, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the query API.
type Server struct {
	queries       QueryRunner
	health        HealthChecker
	schema        SchemaResponse
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. The schema endpoint describes w and reg.
func NewServer(
	queries QueryRunner,
	health HealthChecker,
	w *schema.Whitelist,
	reg *canon.Registry,
	logger *zap.Logger,
) *Server {
	s := &Server{
		queries: queries,
		health:  health,
		schema:  newSchemaResponse(w, reg),
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		rejectionHandler,
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput),
		sentinelHandler(domain.ErrTranslationFailed, http.StatusBadGateway, CodeTranslationFailed),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreError),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	}
	return s
}

// Handler builds the router. Middlewares run in the given order.
func (s *Server) Handler(middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Post("/admin/ai-query", s.AIQuery)
	r.Get("/admin/ai-query/schema", s.Schema)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

// AIQuery handles POST /admin/ai-query.
func (s *Server) AIQuery(w http.ResponseWriter, r *http.Request) {
	var body AIQueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	req, err := query.RequestWithLimit(body.QueryText, body.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.queries.RunQuery(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results := resp.Results
	if results == nil {
		results = []record.Record{}
	}
	writeJSON(w, http.StatusOK, AIQueryResponse{
		ValidatedQuery: resp.Query,
		Results:        results,
		ResultCount:    resp.Count,
		WasCached:      resp.WasCached,
	})
}

// Schema handles GET /admin/ai-query/schema.
func (s *Server) Schema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.schema)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client message without exposing internals.
// Input and rejection errors describe the caller's own request and are
// returned in full; everything else collapses to its sentinel text.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrRejected) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrTranslationFailed,
		domain.ErrStoreUnavailable,
		domain.ErrRateLimited,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// rejectionHandler handles validator rejections with the offending field.
func rejectionHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrRejected) {
		return false
	}
	var re *domain.RejectionError
	if errors.As(err, &re) {
		body := map[string]any{
			"code":    CodeRejected,
			"message": msg,
			"field":   re.Field,
		}
		if re.Index >= 0 {
			body["filter_index"] = re.Index
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)
		return true
	}
	writeError(w, http.StatusUnprocessableEntity, CodeRejected, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
