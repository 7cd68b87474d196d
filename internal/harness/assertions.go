package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Step     string // Render step name
	Type     string // Which check failed
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s failed\n", e.Step, e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// checkExpectation evaluates every check of e against out, in a fixed
// order, and returns all failures.
func checkExpectation(e *Expectation, out RenderOutput) []error {
	if e == nil {
		return nil
	}

	fail := func(typ, expected, actual string) error {
		return &AssertionError{Step: out.Name, Type: typ, Expected: expected, Actual: actual}
	}

	if e.Error != "" {
		if out.ErrorCode != e.Error {
			return []error{fail("error", e.Error, describeError(out))}
		}
		return nil
	}
	if out.Error != "" {
		return []error{fail("render", "no error", out.Error)}
	}

	var errs []error
	if e.Equals != nil && out.HTML != *e.Equals {
		errs = append(errs, fail("equals", fmt.Sprintf("%q", *e.Equals), fmt.Sprintf("%q", out.HTML)))
	}
	if e.Empty && out.HTML != "" {
		errs = append(errs, fail("empty", `""`, fmt.Sprintf("%q", out.HTML)))
	}
	for _, sub := range e.Contains {
		if !strings.Contains(out.HTML, sub) {
			errs = append(errs, fail("contains", fmt.Sprintf("%q", sub), fmt.Sprintf("%q", out.HTML)))
		}
	}
	for _, sub := range e.NotContains {
		if strings.Contains(out.HTML, sub) {
			errs = append(errs, fail("not_contains", fmt.Sprintf("no %q", sub), fmt.Sprintf("%q", out.HTML)))
		}
	}
	return errs
}

func describeError(out RenderOutput) string {
	if out.ErrorCode == "" {
		return fmt.Sprintf("success with %q", out.HTML)
	}
	return out.ErrorCode
}
