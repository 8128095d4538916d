// Package cli implements the nlqctl command line.
package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/nlquery/internal/domain/schema"
	"github.com/kailas-cloud/nlquery/internal/version"
	nlquery "github.com/kailas-cloud/nlquery/pkg/sdk"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"

	Driver     string // "redis" | "mongo" | "memory"
	Addr       string
	Password   string
	URI        string
	Database   string
	Collection string
	SeedFile   string

	APIKey  string
	BaseURL string
	Model   string

	// translator replaces the chat completion client when set.
	translator nlquery.Translator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidDrivers defines the allowed record store drivers.
var ValidDrivers = []string{"memory", "redis", "mongo"}

// NewRootCommand creates the root command for nlqctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nlqctl",
		Short: "nlqctl - ask questions about student records",
		Long: `Translate free-text questions into whitelisted record queries and run them
against Redis, MongoDB or an in-memory store.`,
		Version:      version.String(),
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !slices.Contains(ValidDrivers, opts.Driver) {
				return fmt.Errorf("invalid driver %q: must be one of %v", opts.Driver, ValidDrivers)
			}
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.Driver, "driver", "memory", "record store (memory|redis|mongo)")
	pf.StringVar(&opts.Addr, "addr", "localhost:6379", "redis address")
	pf.StringVar(&opts.Password, "password", "", "redis password")
	pf.StringVar(&opts.URI, "uri", "mongodb://localhost:27017", "mongodb connection string")
	pf.StringVar(&opts.Database, "database", "nlq", "mongodb database")
	pf.StringVar(&opts.Collection, "collection", "students", "collection name (mongo, memory)")
	pf.StringVar(&opts.SeedFile, "seed-file", "", "JSON array of records loaded into the memory store")
	pf.StringVar(&opts.APIKey, "api-key", os.Getenv("GROQ_API_KEY"), "chat completion API key")
	pf.StringVar(&opts.BaseURL, "base-url", "", "OpenAI-compatible API base URL (default Groq)")
	pf.StringVar(&opts.Model, "model", "", "chat completion model (default llama-3.3-70b-versatile)")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewClassesCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewAskCommand(opts))

	return cmd
}

// addresser returns how the configured store addresses fields.
func (o *RootOptions) addresser() schema.Addresser {
	if o.Driver == "redis" {
		return schema.AttributeAlias
	}
	return schema.DotPath
}

// clientOptions builds SDK options for the configured store. The
// translator is only required by commands that translate.
func (o *RootOptions) clientOptions(needTranslator bool) ([]nlquery.Option, error) {
	var opts []nlquery.Option
	switch o.Driver {
	case "redis":
		opts = append(opts, nlquery.WithRedis(o.Addr, o.Password))
	case "mongo":
		opts = append(opts, nlquery.WithMongo(o.URI, o.Database), nlquery.WithCollection(o.Collection))
	default:
		opts = append(opts, nlquery.WithMemory(o.SeedFile), nlquery.WithCollection(o.Collection))
	}

	switch {
	case o.translator != nil:
		opts = append(opts, nlquery.WithTranslator(o.translator))
	case needTranslator && o.APIKey == "":
		return nil, errors.New("translator API key required (--api-key or GROQ_API_KEY)")
	case needTranslator:
		opts = append(opts, nlquery.WithOpenAI(o.APIKey, o.BaseURL, o.Model))
	}
	return opts, nil
}
