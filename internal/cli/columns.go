package cli

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sewershed/internal/sewershed"
)

// ColumnEntry is one row of the demographic column table.
type ColumnEntry struct {
	Result     string `json:"result"`
	Expression string `json:"expression"`
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "columns",
		Short:         "List the demographic columns added by delineate",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(rootOpts, cmd)
		},
	}
}

func runColumns(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts)

	exprs, results := sewershed.Columns()
	entries := make([]ColumnEntry, len(exprs))
	for i := range exprs {
		entries[i] = ColumnEntry{Result: results[i], Expression: exprs[i]}
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		_, _ = tw.Write([]byte(e.Result + "\t" + e.Expression + "\n"))
	}
	_ = tw.Flush()
	return formatter.Success(strings.TrimRight(b.String(), "\n"))
}
