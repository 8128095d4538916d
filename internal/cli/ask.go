package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	nlquery "github.com/kailas-cloud/nlquery/pkg/sdk"
)

// askColumns are the record fields shown in text output.
var askColumns = []string{"name", "branch", "year", "cgpa", "prs_score"}

// NewAskCommand creates the ask command.
func NewAskCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Answer a free-text question about student records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(rootOpts, args[0], limit, cmd)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum records to return (1-200, default 50)")

	return cmd
}

func runAsk(opts *RootOptions, text string, limit int, cmd *cobra.Command) error {
	clientOpts, err := opts.clientOptions(true)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	client, err := nlquery.New(ctx, clientOpts...)
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := client.Query(ctx, text, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(out, res)
	}

	_, _ = fmt.Fprintf(out, "query: %s\n\n", compactJSON(res.Query))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, c := range askColumns {
		if i > 0 {
			_, _ = fmt.Fprint(tw, "\t")
		}
		_, _ = fmt.Fprint(tw, c)
	}
	_, _ = fmt.Fprintln(tw)
	for _, r := range res.Records {
		for i, c := range askColumns {
			if i > 0 {
				_, _ = fmt.Fprint(tw, "\t")
			}
			v, ok := r[c]
			if !ok {
				v = "-"
			}
			_, _ = fmt.Fprint(tw, v)
		}
		_, _ = fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintf(out, "\n%d record(s)\n", res.Count)
	return nil
}
