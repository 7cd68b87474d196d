package cli

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Logger is built from the flags before any subcommand runs. Tests may
	// set it directly; nil means discard.
	Logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// log returns the configured logger or a no-op one.
func (o *RootOptions) log() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// formatter returns an OutputFormatter for the command's stdout.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// NewRootCommand creates the root command for the dpl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dpl",
		Short: "dpl - category intersection lists",
		Long: `Render DynamicPageList intersection tags against a wiki page database.

A tag body is a list of key=value directives. dpl turns it into one
parameterized SQL query over the page and categorylinks tables and
renders the matching pages as a list, inline text, or a gallery.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Logger != nil {
				return nil
			}
			logger, err := newLogger(opts.Verbose, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.Logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging, including compiled SQL")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// newLogger builds a production JSON logger on w. Logs never go to stdout,
// so --format json output stays parseable.
func newLogger(verbose bool, w io.Writer) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	if w == os.Stderr {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		return config.Build()
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level)), nil
}
