package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/nlquery/internal/domain/canon"
)

// ClassInfo is one canonical value in JSON output.
type ClassInfo struct {
	Canonical string   `json:"canonical"`
	Spellings []string `json:"spellings"`
}

// NewClassesCommand creates the classes command.
func NewClassesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List canonical year and branch codes with their spellings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClasses(rootOpts, cmd)
		},
	}
}

func runClasses(opts *RootOptions, cmd *cobra.Command) error {
	reg := canon.Academic()
	out := cmd.OutOrStdout()

	if opts.Format == "json" {
		res := make(map[string][]ClassInfo)
		for _, dim := range reg.Dimensions() {
			for _, c := range reg.Classes(dim) {
				res[dim] = append(res[dim], ClassInfo{Canonical: c.Canonical, Spellings: c.Spellings})
			}
		}
		return writeJSON(out, res)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, dim := range reg.Dimensions() {
		_, _ = fmt.Fprintf(tw, "%s:\n", dim)
		for _, c := range reg.Classes(dim) {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\n", c.Canonical, strings.Join(c.Spellings, ", "))
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
