package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/dpl/internal/config"
	"github.com/roach88/dpl/internal/store"
)

// ListOptions are the flags shared by render and explain.
type ListOptions struct {
	*RootOptions
	Config   string
	Language string
	Driver   string
}

func (o *ListOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Config, "config", "", "CUE config file (default: built-in defaults)")
	cmd.Flags().StringVar(&o.Language, "lang", "", "message and date language, overrides the config")
	cmd.Flags().StringVar(&o.Driver, "driver", store.DriverSQLite, "database driver (sqlite3|pgx)")
}

// loadConfig loads --config and applies --lang.
func (o *ListOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return config.Config{}, err
	}
	if o.Language != "" {
		cfg.Language = o.Language
	}
	return cfg, nil
}

// configError reports a config problem with its CUE position.
func configError(f *OutputFormatter, err error) error {
	var le *config.LoadError
	if errors.As(err, &le) {
		details := map[string]any{}
		if le.Pos.IsValid() {
			details["file"] = le.Pos.Filename()
			details["line"] = le.Pos.Line()
			details["column"] = le.Pos.Column()
		}
		return f.Error(ExitCommandError, le.Code, le.Error(), details)
	}
	return f.Error(ExitCommandError, config.ErrCodeInvalid, err.Error(), nil)
}

// readInput reads the tag body from the file argument, or stdin when the
// argument is absent or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
