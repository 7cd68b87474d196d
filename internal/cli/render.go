package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/dpl/internal/engine"
	"github.com/roach88/dpl/internal/store"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	ListOptions
	Database string

	// IDs allows overriding the render ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs engine.IDGenerator
}

// RenderResult is the JSON payload of a successful render.
type RenderResult struct {
	HTML               string `json:"html"`
	CacheExpirySeconds int64  `json:"cache_expiry_seconds"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{ListOptions: ListOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a list tag",
		Long: `Render the list tag body in file (or stdin) against a page database.

Directive problems render as a message, as they would on a wiki page,
and exit 0. Store failures exit 1.

Examples:
  printf 'category=Trees\nmode=inline\n' | dpl render --db wiki.db
  dpl render --db wiki.db --config dpl.cue --lang de tag.txt
  dpl render --driver pgx --db postgres://localhost/wiki tag.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, cmd, args)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "database path or DSN (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRender(opts *RenderOptions, cmd *cobra.Command, args []string) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return configError(f, err)
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return f.Error(ExitCommandError, ErrCodeInput, err.Error(), nil)
	}

	st, err := store.OpenDriver(opts.Driver, opts.Database)
	if err != nil {
		return f.Error(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	renderOpts := []engine.Option{engine.WithLogger(opts.log())}
	if opts.IDs != nil {
		renderOpts = append(renderOpts, engine.WithIDGenerator(opts.IDs))
	}
	r := engine.NewFromConfig(cfg, st, st.Driver(), renderOpts...)

	out, err := r.Render(cmd.Context(), text)
	if err != nil {
		var re *engine.RenderError
		if errors.As(err, &re) {
			return f.Error(ExitFailure, string(re.Code), err.Error(), map[string]any{"render_id": re.RenderID})
		}
		return f.Error(ExitFailure, "E_RENDER", err.Error(), nil)
	}

	text = out.HTML
	if f.Format != "json" && text != "" && text[len(text)-1] != '\n' {
		text += "\n"
	}
	return f.Success(text, RenderResult{
		HTML:               out.HTML,
		CacheExpirySeconds: int64(out.CacheExpiry.Seconds()),
	})
}
