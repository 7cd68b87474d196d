package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/dpl/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Database string
}

// SeedResult reports what a seed wrote.
type SeedResult struct {
	Database string `json:"database"`
	Pages    int    `json:"pages"`
	Links    int    `json:"category_links"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load fixture pages into a SQLite database",
		Long: `Load pages, category links and review flags from a YAML fixture.

The database is created if it doesn't exist. Seeding is idempotent:
pages are upserted by id and links by (page, category).

Example:
  dpl seed --db ./wiki.db fixtures/forest.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSeed(opts *SeedOptions, cmd *cobra.Command, path string) error {
	f := opts.formatter(cmd)

	fixture, err := store.LoadFixture(path)
	if err != nil {
		var fe *store.FixtureError
		if errors.As(err, &fe) {
			return f.Error(ExitCommandError, ErrCodeFixture, err.Error(), fe.Problems)
		}
		return f.Error(ExitCommandError, ErrCodeFixture, err.Error(), nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Error(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	if err := st.Seed(cmd.Context(), fixture); err != nil {
		return f.Error(ExitFailure, ErrCodeStore, err.Error(), nil)
	}

	links := 0
	for _, p := range fixture.Pages {
		links += len(p.Categories)
	}
	opts.log().Info("fixture seeded",
		zap.String("fixture", path),
		zap.String("db", opts.Database),
		zap.Int("pages", len(fixture.Pages)),
	)

	return f.Success(
		"Seeded "+describeCount(len(fixture.Pages), "page")+" and "+describeCount(links, "category link")+" into "+opts.Database+"\n",
		SeedResult{Database: opts.Database, Pages: len(fixture.Pages), Links: links},
	)
}

// describeCount is "1 page" or "N pages".
func describeCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
