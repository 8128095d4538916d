package cli

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	dbMemory "github.com/kailas-cloud/nlquery/internal/db/memory"
	nlquery "github.com/kailas-cloud/nlquery/pkg/sdk"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed --file students.json",
		Short: "Load student records into the record store",
		Long: `Load a JSON array of student documents into Redis (JSON documents under
nlq:student:<id>, search index created first) or a MongoDB collection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(rootOpts, file, cmd)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON array of student documents (- for stdin)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSeed(opts *RootOptions, file string, cmd *cobra.Command) error {
	if opts.Driver == "memory" {
		return errors.New("seed needs a persistent store: use --driver redis or --driver mongo")
	}

	data, err := readInput(cmd.InOrStdin(), file)
	if err != nil {
		return err
	}
	docs, err := dbMemory.DecodeDocuments(bytes.NewReader(data))
	if err != nil {
		return err
	}

	clientOpts, err := opts.clientOptions(false)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	client, err := nlquery.New(ctx, clientOpts...)
	if err != nil {
		return err
	}
	defer client.Close()

	batch := make([]map[string]any, len(docs))
	for i, d := range docs {
		batch[i] = d
	}
	n, err := client.Seed(ctx, batch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(out, map[string]any{"seeded": n, "driver": opts.Driver})
	}
	_, _ = fmt.Fprintf(out, "seeded %d records into %s\n", n, opts.Driver)
	return nil
}
