package harness

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result as golden file text.
//
// The layout is line oriented so diffs stay readable:
//
//	# <scenario name>
//	=== <step name>
//	--- input
//	<tag body>
//	--- output
//	<markup, verbatim>
//
// A failed step has a "--- error" section with the error code instead of
// "--- output".
func Snapshot(scenarioName string, result *Result) []byte {
	var b strings.Builder
	b.WriteString("# " + scenarioName + "\n")
	for _, out := range result.Renders {
		b.WriteString("=== " + out.Name + "\n")
		b.WriteString("--- input\n")
		b.WriteString(strings.TrimRight(out.Input, "\n") + "\n")
		if out.ErrorCode != "" || out.Error != "" {
			b.WriteString("--- error\n")
			b.WriteString(out.ErrorCode + "\n")
			continue
		}
		b.WriteString("--- output\n")
		b.WriteString(out.HTML + "\n")
	}
	return []byte(b.String())
}

// GoldenPath is where the CLI keeps a scenario's golden file: a golden/
// directory next to the scenario file.
func GoldenPath(scenarioFile, scenarioName string) string {
	return filepath.Join(filepath.Dir(scenarioFile), "golden", scenarioName+".golden")
}

// CompareGolden reports whether the snapshot matches the file at path.
func CompareGolden(path string, snapshot []byte) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return string(data) == string(snapshot), nil
}

// WriteGolden writes a snapshot, creating the golden directory.
func WriteGolden(path string, snapshot []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, snapshot, 0o644)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check expectations.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario, Options{})
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario.Name, result))
	return result, nil
}
