package nlq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/nlquery/internal/domain"
	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
	"github.com/kailas-cloud/nlquery/internal/domain/query"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
	"github.com/kailas-cloud/nlquery/internal/logger"
)

// DefaultTranslateTimeout bounds one translator call.
const DefaultTranslateTimeout = 15 * time.Second

// Response is the outcome of one natural-language query.
type Response struct {
	Query     query.Validated
	Results   []record.Record
	Count     int
	WasCached bool
}

// Option configures a Service.
type Option func(*Service)

// WithTranslateTimeout overrides DefaultTranslateTimeout.
func WithTranslateTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.translateTimeout = d
		}
	}
}

// WithMetrics sets the outcome counter (label "outcome") and result-size
// histogram. Either may be nil.
func WithMetrics(queries *prometheus.CounterVec, results prometheus.Observer) Option {
	return func(s *Service) {
		s.queriesTotal = queries
		s.queryResults = results
	}
}

// Service answers natural-language queries: cache or translate, validate,
// normalize, compile, execute.
type Service struct {
	translator Translator
	cache      DraftCache
	exec       *Executor
	whitelist  *schema.Whitelist
	registry   *canon.Registry

	translateTimeout time.Duration
	flights          singleflight.Group

	queriesTotal *prometheus.CounterVec
	queryResults prometheus.Observer
}

// New creates a query service.
func New(
	translator Translator,
	cache DraftCache,
	exec *Executor,
	whitelist *schema.Whitelist,
	registry *canon.Registry,
	opts ...Option,
) *Service {
	s := &Service{
		translator:       translator,
		cache:            cache,
		exec:             exec,
		whitelist:        whitelist,
		registry:         registry,
		translateTimeout: DefaultTranslateTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RunQuery answers one request. A cache hit skips the translator but the
// store is always queried, so results are never stale.
func (s *Service) RunQuery(ctx context.Context, req query.Request) (Response, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	q, cached, err := s.resolve(ctx, req.Text())
	if err != nil {
		s.observe(outcome(err), -1)
		log.Warn("query_failed",
			zap.Int("text_length", len(req.Text())),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return Response{}, err
	}

	compiled := predicate.Compile(query.Normalize(q, s.registry), s.whitelist).CapLimit(req.Limit())

	results, err := s.exec.Execute(ctx, compiled)
	if err != nil {
		s.observe(outcome(err), -1)
		log.Error("query_failed", zap.String("predicate", compiled.String()), zap.Error(err))
		return Response{}, err
	}

	s.observe("ok", len(results))
	log.Info("query_completed",
		zap.Bool("cache_hit", cached),
		zap.Int("filters", len(q.Filters())),
		zap.String("predicate", compiled.String()),
		zap.Int("result_count", len(results)),
		zap.Duration("latency", time.Since(start)),
	)

	return Response{Query: q, Results: results, Count: len(results), WasCached: cached}, nil
}

// Validate checks a draft without translating or executing it.
func (s *Service) Validate(d query.Draft) (query.Validated, predicate.Compiled, error) {
	q, err := query.Validate(d, s.whitelist)
	if err != nil {
		return query.Validated{}, predicate.Compiled{}, err
	}
	return q, predicate.Compile(query.Normalize(q, s.registry), s.whitelist), nil
}

type flight struct {
	query  query.Validated
	cached bool
}

// resolve returns the validated draft for text, from cache or translator.
// Concurrent misses for the same text share one translator call; a caller
// whose ctx ends stops waiting without canceling the shared call.
func (s *Service) resolve(ctx context.Context, text string) (query.Validated, bool, error) {
	if q, ok := s.cache.Get(text); ok {
		return q, true, nil
	}

	ch := s.flights.DoChan(query.FoldText(text), func() (any, error) {
		// a previous flight may have filled the entry after our Get
		if q, ok := s.cache.Peek(text); ok {
			return flight{query: q, cached: true}, nil
		}
		q, err := s.translate(ctx, text)
		if err != nil {
			return nil, err
		}
		s.cache.Put(text, q)
		return flight{query: q}, nil
	})

	select {
	case <-ctx.Done():
		return query.Validated{}, false, fmt.Errorf("await translation: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return query.Validated{}, false, res.Err //nolint:wrapcheck // already classified
		}
		f := res.Val.(flight)
		return f.query, f.cached, nil
	}
}

func (s *Service) translate(ctx context.Context, text string) (query.Validated, error) {
	// followers of a coalesced call must not fail because the leader's
	// request was canceled
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.translateTimeout)
	defer cancel()

	draft, err := s.translator.Translate(tctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrTranslationFailed) {
			return query.Validated{}, err //nolint:wrapcheck // already classified
		}
		return query.Validated{}, fmt.Errorf("%w: %w", domain.ErrTranslationFailed, err)
	}

	q, err := query.Validate(draft, s.whitelist)
	if err != nil {
		logger.FromContext(ctx).Info("draft_rejected", zap.Error(err))
		return query.Validated{}, err //nolint:wrapcheck // RejectionError is the contract
	}
	return q, nil
}

func (s *Service) observe(result string, n int) {
	if s.queriesTotal != nil {
		s.queriesTotal.WithLabelValues(result).Inc()
	}
	if s.queryResults != nil && n >= 0 {
		s.queryResults.Observe(float64(n))
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrRejected):
		return "rejected"
	case errors.Is(err, domain.ErrTranslationFailed):
		return "translation_failed"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
