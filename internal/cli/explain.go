package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dpl/internal/engine"
	"github.com/roach88/dpl/internal/queryspec"
)

// ExplainResult is the compiled query of a list tag.
type ExplainResult struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain [file|-]",
		Short: "Print the SQL a list tag compiles to",
		Long: `Build and compile a list tag without touching a database.

--driver selects the placeholder style: ? for sqlite3, $n for pgx.

Examples:
  printf 'category=Trees\nnotcategory=Extinct\n' | dpl explain
  dpl explain --driver pgx --format json tag.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, cmd, args)
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func runExplain(opts *ListOptions, cmd *cobra.Command, args []string) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return configError(f, err)
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return f.Error(ExitCommandError, ErrCodeInput, err.Error(), nil)
	}

	r := engine.NewFromConfig(cfg, nil, opts.Driver, engine.WithLogger(opts.log()))
	sql, params, err := r.Explain(text)
	if err != nil {
		if ve, ok := queryspec.AsValidationError(err); ok {
			return f.Error(ExitFailure, string(ve.Code), err.Error(), ve.Details)
		}
		return f.Error(ExitFailure, string(engine.ErrCodeCompileFailed), err.Error(), nil)
	}

	var b strings.Builder
	b.WriteString(sql + "\n")
	for i, p := range params {
		fmt.Fprintf(&b, "  $%d = %#v\n", i+1, p)
	}
	return f.Success(b.String(), ExplainResult{SQL: sql, Params: params})
}
