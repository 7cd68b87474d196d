package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dpl/internal/store"
)

// Scenario is a set of list renders against one seeded wiki.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Config is CUE source unified with the config schema. Empty means
	// the defaults.
	Config string `yaml:"config,omitempty"`

	// Fixture is a path to a YAML fixture, relative to the scenario file.
	Fixture string `yaml:"fixture,omitempty"`

	// Pages are inline fixture pages, seeded after Fixture.
	Pages []store.FixturePage `yaml:"pages,omitempty"`

	// Renders run in order against the same store.
	Renders []RenderStep `yaml:"renders"`
}

// RenderStep is one list tag and what its output must satisfy.
type RenderStep struct {
	// Name identifies the step within the scenario.
	Name string `yaml:"name"`

	// Input is the tag body, one directive per line.
	Input string `yaml:"input"`

	// Expect is optional; without it the step only feeds the golden file.
	Expect *Expectation `yaml:"expect,omitempty"`
}

// Expectation lists checks on one render. All given checks must hold.
type Expectation struct {
	// Equals is the exact markup.
	Equals *string `yaml:"equals,omitempty"`

	// Contains are substrings the markup must include.
	Contains []string `yaml:"contains,omitempty"`

	// NotContains are substrings the markup must not include.
	NotContains []string `yaml:"not_contains,omitempty"`

	// Empty requires "" markup.
	Empty bool `yaml:"empty,omitempty"`

	// Error is the render error code the step must fail with.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative fixture path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if s.Fixture != "" && !filepath.IsAbs(s.Fixture) {
		s.Fixture = filepath.Join(filepath.Dir(path), s.Fixture)
	}
	if s.Fixture != "" {
		if _, err := os.Stat(s.Fixture); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: fixture file not found: %s", s.Fixture)
		}
	}
	return s, nil
}

// ParseScenario decodes scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks that required fields are present and valid.
// Page contents are checked later, when the fixture is assembled.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Fixture == "" && len(s.Pages) == 0 {
		return fmt.Errorf("fixture or pages is required")
	}
	if len(s.Renders) == 0 {
		return fmt.Errorf("renders list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Renders))
	for i, step := range s.Renders {
		if step.Name == "" {
			return fmt.Errorf("renders[%d]: name is required", i)
		}
		if names[step.Name] {
			return fmt.Errorf("renders[%d]: duplicate name %q", i, step.Name)
		}
		names[step.Name] = true

		if e := step.Expect; e != nil && e.Empty && (e.Equals != nil || len(e.Contains) > 0) {
			return fmt.Errorf("renders[%d].expect: empty conflicts with equals/contains", i)
		}
	}
	return nil
}

// fixture assembles the file fixture and the inline pages.
func (s *Scenario) fixture() (*store.Fixture, error) {
	f := &store.Fixture{}
	if s.Fixture != "" {
		loaded, err := store.LoadFixture(s.Fixture)
		if err != nil {
			return nil, err
		}
		f.Pages = append(f.Pages, loaded.Pages...)
	}
	f.Pages = append(f.Pages, s.Pages...)

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}
