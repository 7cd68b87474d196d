package harness

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/dpl/internal/config"
	"github.com/roach88/dpl/internal/engine"
	"github.com/roach88/dpl/internal/store"
	"github.com/roach88/dpl/internal/testutil"
)

// Options tune a scenario run.
type Options struct {
	// Logger receives renderer logs. Nil discards them.
	Logger *zap.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Render IDs are sequential ("<name>-1", "<name>-2", ...) so error text
// is reproducible.
//
// Execution flow:
//  1. Load the config and assemble the fixture
//  2. Seed a fresh in-memory store
//  3. Render every step in order
//  4. Check each step's expectation
//
// A returned error means the scenario could not run at all. Failed
// expectations are reported in Result.Errors.
func Run(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	cfg, err := config.Parse([]byte(scenario.Config), scenario.Name+".config")
	if err != nil {
		return nil, fmt.Errorf("scenario config: %w", err)
	}

	fixture, err := scenario.fixture()
	if err != nil {
		return nil, fmt.Errorf("scenario fixture: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := st.Seed(ctx, fixture); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := engine.NewFromConfig(cfg, st, st.Driver(),
		engine.WithLogger(log.With(zap.String("scenario", scenario.Name))),
		engine.WithIDGenerator(testutil.NewSequentialIDs(scenario.Name)),
	)

	result := NewResult()
	for _, step := range scenario.Renders {
		out := render(ctx, r, step)
		result.Renders = append(result.Renders, out)

		for _, err := range checkExpectation(step.Expect, out) {
			result.AddError(err.Error())
		}
	}
	return result, nil
}

func render(ctx context.Context, r *engine.Renderer, step RenderStep) RenderOutput {
	out := RenderOutput{Name: step.Name, Input: step.Input}

	got, err := r.Render(ctx, step.Input)
	if err != nil {
		out.Error = err.Error()
		var re *engine.RenderError
		if errors.As(err, &re) {
			out.ErrorCode = string(re.Code)
		}
		return out
	}
	out.HTML = got.HTML
	return out
}
