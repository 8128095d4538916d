package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/nlquery/internal/domain/canon"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
	"github.com/kailas-cloud/nlquery/internal/domain/query"
	"github.com/kailas-cloud/nlquery/internal/domain/schema"
)

// ValidateResult is the JSON output of validate.
type ValidateResult struct {
	Query      query.Validated `json:"query"`
	Normalized query.Validated `json:"normalized"`
	Predicate  string          `json:"predicate"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate --file draft.json",
		Short: "Check a query draft against the field whitelist",
		Long: `Validate a JSON query draft offline, the way translator output is checked.

Prints the accepted query, its normalized form and the compiled store
predicate for the selected --driver. A rejected draft exits non-zero with
the reason.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(rootOpts, file, cmd)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "draft JSON file (- for stdin)")

	return cmd
}

func runValidate(opts *RootOptions, file string, cmd *cobra.Command) error {
	data, err := readInput(cmd.InOrStdin(), file)
	if err != nil {
		return err
	}
	d, err := query.ParseDraft(data)
	if err != nil {
		return fmt.Errorf("parse draft: %w", err)
	}

	w := schema.Students(opts.addresser())
	q, err := query.Validate(d, w)
	if err != nil {
		return err
	}
	n := query.Normalize(q, canon.Academic())
	res := ValidateResult{
		Query:      q,
		Normalized: n,
		Predicate:  predicate.Compile(n, w).String(),
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(out, res)
	}
	_, _ = fmt.Fprintln(out, "draft accepted")
	_, _ = fmt.Fprintf(out, "query:      %s\n", compactJSON(res.Query))
	_, _ = fmt.Fprintf(out, "normalized: %s\n", compactJSON(res.Normalized))
	_, _ = fmt.Fprintf(out, "predicate:  %s\n", res.Predicate)
	return nil
}
