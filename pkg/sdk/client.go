package nlquery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nlquery/internal/db"
	dbMemory "github.com/kailas-cloud/nlquery/internal/db/memory"
	dbMongo "github.com/kailas-cloud/nlquery/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/nlquery/internal/db/redis"
	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
	"github.com/kailas-cloud/nlquery/internal/domain/query"
	"github.com/kailas-cloud/nlquery/internal/domain/record"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
	"github.com/kailas-cloud/nlquery/internal/repository/draftcache"
	"github.com/kailas-cloud/nlquery/internal/repository/records"
	openaiTr "github.com/kailas-cloud/nlquery/internal/transport/openai"
	healthuc "github.com/kailas-cloud/nlquery/internal/usecase/health"
	"github.com/kailas-cloud/nlquery/internal/usecase/nlq"
)

const defaultReadinessTimeout = 10 * time.Second

// Внутренние интерфейсы для подмены в тестах.
type queryUseCase interface {
	RunQuery(ctx context.Context, req query.Request) (nlq.Response, error)
	Validate(d query.Draft) (query.Validated, predicate.Compiled, error)
}

type seedUseCase interface {
	Seed(ctx context.Context, docs []db.Document) (int, error)
}

// Client is the nlquery SDK entry point.
type Client struct {
	store     db.Store
	queries   queryUseCase
	seeder    seedUseCase
	healthSvc healthUseCase
	registry  *canon.Registry
	obs       *observer
}

// New creates a Client and connects to the record store.
// The provided context is used for the readiness check, index creation
// and seeding.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("nlquery: record store required (use WithRedis, WithMongo or WithMemory)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("nlquery: record store not ready: %w", err)
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}

	if err := prepareStore(ctx, store, cfg); err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("nlquery: create redis store: %w", err)
		}
		return s, nil
	case driverMongo:
		s, err := dbMongo.NewStore(ctx, dbMongo.Config{
			URI:      cfg.uri,
			Database: cfg.database,
		})
		if err != nil {
			return nil, fmt.Errorf("nlquery: create mongo store: %w", err)
		}
		return s, nil
	case driverMemory:
		return dbMemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("nlquery: unknown driver %q", cfg.driver)
	}
}

func layoutFor(cfg *clientConfig) records.Layout {
	if cfg.driver == driverRedis {
		return records.RedisLayout()
	}
	return records.CollectionLayout(cfg.collection)
}

func addresserFor(cfg *clientConfig) schema.Addresser {
	if cfg.driver == driverRedis {
		return schema.AttributeAlias
	}
	return schema.DotPath
}

// prepareStore creates the Redis index and loads the memory seed file.
func prepareStore(ctx context.Context, store db.Store, cfg *clientConfig) error {
	switch s := store.(type) {
	case db.IndexManager:
		def, err := records.BuildIndex(schema.Students(addresserFor(cfg)), layoutFor(cfg))
		if err != nil {
			return fmt.Errorf("nlquery: build index: %w", err)
		}
		if _, err := records.EnsureIndex(ctx, s, def); err != nil {
			return fmt.Errorf("nlquery: ensure index: %w", err)
		}
	case *dbMemory.Store:
		if cfg.seedFile == "" {
			return nil
		}
		if _, err := s.LoadFile(ctx, layoutFor(cfg).Collection, cfg.seedFile); err != nil {
			return fmt.Errorf("nlquery: load seed file: %w", err)
		}
	}
	return nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	whitelist := schema.Students(addresserFor(cfg))
	registry := canon.Academic()
	layout := layoutFor(cfg)

	var (
		translator nlq.Translator = noopTranslator{}
		checker    healthuc.TranslatorChecker
	)
	switch {
	case cfg.translator != nil:
		translator = &translatorAdapter{inner: cfg.translator}
		if hc, ok := cfg.translator.(healthuc.TranslatorChecker); ok {
			checker = hc
		}
	case cfg.openai != nil:
		t := openaiTr.NewTranslator(&openaiTr.Config{
			APIKey:  cfg.openai.apiKey,
			BaseURL: cfg.openai.baseURL,
			Model:   cfg.openai.model,
		}, whitelist, registry)
		translator = t
		checker = t
	}

	exec := nlq.NewExecutor(records.New(store, layout), record.Students)
	cache := draftcache.New(nil, zap.NewNop())
	svc := nlq.New(translator, cache, exec, whitelist, registry,
		nlq.WithTranslateTimeout(cfg.translateTimeout),
	)

	return &Client{
		store:     store,
		queries:   svc,
		seeder:    records.NewSeeder(store, layout, 0),
		healthSvc: healthuc.New(store, checker),
		registry:  registry,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks record store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Query answers a free-text question. limit 0 means the default (50);
// otherwise it must be within 1..200.
func (c *Client) Query(ctx context.Context, text string, limit int) (res *Result, err error) {
	start := time.Now()
	defer func() { c.obs.observeQuery(start, res, err) }()

	req, err := query.NewRequest(text, limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	resp, err := c.queries.RunQuery(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	out := &Result{
		Query:     toQuery(resp.Query),
		Records:   make([]map[string]any, len(resp.Results)),
		Count:     resp.Count,
		WasCached: resp.WasCached,
	}
	for i, r := range resp.Results {
		out.Records[i] = r
	}
	return out, nil
}

// Validate checks a JSON draft against the whitelist without calling the
// translator or the store.
func (c *Client) Validate(draftJSON []byte) (v *Validation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("validate", start, err) }()

	d, err := query.ParseDraft(draftJSON)
	if err != nil {
		return nil, fmt.Errorf("validate: %w: %w", ErrInvalidInput, err)
	}
	q, compiled, err := c.queries.Validate(d)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return &Validation{
		Query:      toQuery(q),
		Normalized: toQuery(query.Normalize(q, c.registry)),
		Predicate:  compiled.String(),
	}, nil
}

// Seed bulk-loads student documents into the configured store and returns
// how many were written.
func (c *Client) Seed(ctx context.Context, docs []map[string]any) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("seed", start, err) }()

	batch := make([]db.Document, len(docs))
	for i, d := range docs {
		batch[i] = d
	}
	n, err = c.seeder.Seed(ctx, batch)
	if err != nil {
		return n, fmt.Errorf("seed: %w", err)
	}
	return n, nil
}
