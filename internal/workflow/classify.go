package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/cropsight/cropsight/internal/classifier"
	"github.com/cropsight/cropsight/internal/diagnosis"
)

// ClassifyNode returns a state node that classifies every submitted image
// and stores the aggregated outcome in the workflow state bag. Per-image
// faults are folded into the outcome, never into a node error.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		imagesVal, ok := s.Get(KeyImages)
		if !ok {
			return s, fmt.Errorf("classify: missing %s in state", KeyImages)
		}

		images, ok := imagesVal.([]classifier.Image)
		if !ok {
			return s, fmt.Errorf("classify: %s is not []classifier.Image", KeyImages)
		}

		outcome := diagnosis.Aggregate(ctx, rt.Classifier, images, rt.MaxParallel)

		rt.Logger.InfoContext(
			ctx, "classify node complete",
			"images", outcome.ImageCount,
			"accepted", outcome.AcceptedCount,
			"rejected", outcome.RejectedCount,
			"diagnosed", outcome.Canonical != nil,
		)

		return s.Set(KeyOutcome, outcome), nil
	})
}

func hasCanonical(s state.State) bool {
	val, ok := s.Get(KeyOutcome)
	if !ok {
		return false
	}

	outcome, ok := val.(diagnosis.Outcome)
	if !ok {
		return false
	}

	return outcome.Canonical != nil
}
