package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dpl/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run render scenarios against golden files",
		Long: `Run YAML render scenarios and compare their output with golden files.

Each scenario seeds a fresh in-memory database, renders its list tags,
checks their expectations, and compares the snapshot with
golden/<name>.golden next to the scenario file. A scenario without a
golden file is checked by its expectations alone.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  dpl test ./scenarios
  dpl test ./scenarios --filter "gallery-*"
  dpl test ./scenarios --update
  dpl test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	r := &scenarioRunner{opts: opts, cmd: cmd, text: opts.Format != "json"}
	if len(files) == 0 && r.text {
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files)), Total: len(files)}
	for _, file := range files {
		sr := r.run(file)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	return r.summarize(result)
}

// findScenarioFiles lists the YAML scenario files under dir whose base name
// matches filter. golden/ directories are skipped.
func findScenarioFiles(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir() && d.Name() == "golden":
			return filepath.SkipDir
		case d.IsDir():
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// scenarioRunner runs scenario files one at a time and reports each
// outcome as it goes in text mode.
type scenarioRunner struct {
	opts *TestOptions
	cmd  *cobra.Command
	text bool
}

func (r *scenarioRunner) fail(name string, errs ...string) ScenarioResult {
	if r.text {
		w := r.cmd.OutOrStdout()
		fmt.Fprintf(w, "✗ %s\n", name)
		for _, e := range errs {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	return ScenarioResult{Name: name, Errors: errs}
}

func (r *scenarioRunner) pass(name, note string) ScenarioResult {
	if r.text {
		fmt.Fprintf(r.cmd.OutOrStdout(), "✓ %s%s\n", name, note)
	}
	return ScenarioResult{Name: name, Pass: true}
}

// run executes one scenario file. With --update the golden snapshot is
// rewritten; otherwise it is compared when present.
func (r *scenarioRunner) run(file string) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return r.fail(filepath.Base(file), fmt.Sprintf("failed to load scenario: %v", err))
	}

	result, err := harness.Run(r.cmd.Context(), scenario, harness.Options{Logger: r.opts.log()})
	if err != nil {
		return r.fail(scenario.Name, fmt.Sprintf("execution failed: %v", err))
	}

	snapshot := harness.Snapshot(scenario.Name, result)
	goldenPath := harness.GoldenPath(file, scenario.Name)

	note := ""
	if r.opts.Update {
		if err := harness.WriteGolden(goldenPath, snapshot); err != nil {
			return r.fail(scenario.Name, fmt.Sprintf("failed to update golden file: %v", err))
		}
		note = " (golden updated)"
	} else {
		match, err := harness.CompareGolden(goldenPath, snapshot)
		switch {
		case os.IsNotExist(err):
			// expectations only
		case err != nil:
			return r.fail(scenario.Name, fmt.Sprintf("golden comparison failed: %v", err))
		case !match:
			return r.fail(scenario.Name, append([]string{"golden file mismatch (run with --update to regenerate)"}, result.Errors...)...)
		}
	}

	if !result.Pass {
		return r.fail(scenario.Name, result.Errors...)
	}
	return r.pass(scenario.Name, note)
}

// summarize writes the totals and turns any failure into ExitFailure.
func (r *scenarioRunner) summarize(result TestResult) error {
	var failure error
	if result.Failed > 0 {
		failure = NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	if !r.text {
		resp := CLIResponse{Status: "ok", Data: result}
		if failure != nil {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeTestFailed, Message: failure.Error()}
		}
		f := &OutputFormatter{Format: "json", Writer: r.cmd.OutOrStdout()}
		if err := f.encode(resp); err != nil {
			return err
		}
		return failure
	}

	w := r.cmd.OutOrStdout()
	fmt.Fprintf(w, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if failure == nil {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
	return failure
}
