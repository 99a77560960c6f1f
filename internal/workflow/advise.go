package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/cropsight/cropsight/internal/diagnosis"
)

// AdviseNode returns a state node that requests treatment advice for the
// canonical diagnosis. Advice failure is soft: the workflow continues and
// the report carries the placeholder section.
func AdviseNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		outcome, err := outcomeFrom(s)
		if err != nil {
			return s, fmt.Errorf("advise: %w", err)
		}

		accepted := outcome.Canonical.Accepted
		crop := accepted.Label.CropName("Unknown")
		disease := accepted.Label.Disease()
		if disease == "" {
			disease = "Unknown"
		}

		text, err := rt.Advice.Advise(ctx, crop, disease)
		if err != nil {
			rt.Logger.WarnContext(ctx, "advice unavailable", "error", err)
			return s, nil
		}

		return s.Set(KeyAdvice, text), nil
	})
}

func outcomeFrom(s state.State) (diagnosis.Outcome, error) {
	val, ok := s.Get(KeyOutcome)
	if !ok {
		return diagnosis.Outcome{}, fmt.Errorf("missing %s in state", KeyOutcome)
	}

	outcome, ok := val.(diagnosis.Outcome)
	if !ok {
		return diagnosis.Outcome{}, fmt.Errorf("%s is not diagnosis.Outcome", KeyOutcome)
	}

	return outcome, nil
}

func adviceFrom(s state.State) *string {
	val, ok := s.Get(KeyAdvice)
	if !ok {
		return nil
	}

	text, ok := val.(string)
	if !ok {
		return nil
	}

	return &text
}
