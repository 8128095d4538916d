package nlquery

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Store drivers.
const (
	driverRedis  = "redis"
	driverMongo  = "mongo"
	driverMemory = "memory"
)

type clientConfig struct {
	driver     string
	addrs      []string
	password   string
	uri        string
	database   string
	collection string
	seedFile   string

	translator       Translator
	openai           *openAIConfig
	translateTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

type openAIConfig struct {
	apiKey  string
	baseURL string
	model   string
}

// WithRedis stores records as JSON documents on Redis 8+ (or Redis Stack).
// The search index is created on first use.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMongo reads records from a MongoDB database.
func WithMongo(uri, database string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMongo
		c.uri = uri
		c.database = database
	})
}

// WithMemory keeps records in process. seedFile, if non-empty, is a JSON
// array of documents loaded on start.
func WithMemory(seedFile string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
		c.seedFile = seedFile
	})
}

// WithCollection overrides the collection name (MongoDB, memory).
// Default: "students".
func WithCollection(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.collection = name
	})
}

// WithTranslator sets a custom text-to-draft translator.
func WithTranslator(t Translator) Option {
	return optionFunc(func(c *clientConfig) {
		c.translator = t
	})
}

// WithOpenAI translates through an OpenAI-compatible chat completions API.
// Empty baseURL and model default to Groq and llama-3.3-70b-versatile.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openai = &openAIConfig{apiKey: apiKey, baseURL: baseURL, model: model}
	})
}

// WithTranslateTimeout bounds a single translator call. Default: 15s.
func WithTranslateTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.translateTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
