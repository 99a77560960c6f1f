package workflow

import (
	"context"
	"fmt"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/cropsight/cropsight/internal/cases"
	"github.com/cropsight/cropsight/internal/classifier"
	"github.com/cropsight/cropsight/internal/diagnosis"
	"github.com/cropsight/cropsight/pkg/middleware"
)

// PredictAndCreateCommand carries the inputs of a full diagnosis run.
type PredictAndCreateCommand struct {
	Images    []classifier.Image
	State     string
	District  string
	Submitter middleware.Principal
}

// Result is the output of a full diagnosis run. Report and Case are nil when
// no image passed the leaf gate; Display then carries the result to show.
type Result struct {
	Outcome diagnosis.Outcome  `json:"outcome"`
	Display *classifier.Result `json:"display,omitempty"`
	Advice  *string            `json:"advice,omitempty"`
	Report  *diagnosis.Report  `json:"report,omitempty"`
	Case    *cases.Case        `json:"case,omitempty"`
}

// Predict classifies a batch of images without creating a case.
func Predict(ctx context.Context, rt *Runtime, images []classifier.Image) Result {
	outcome := diagnosis.Aggregate(ctx, rt.Classifier, images, rt.MaxParallel)
	return Result{
		Outcome: outcome,
		Display: outcome.Display(),
	}
}

// Execute runs the diagnosis workflow: classify the batch, fetch advice when
// a canonical diagnosis exists, then create a pool case carrying the report
// and every image. When nothing passes the leaf gate the graph skips advice
// and case creation and the raw results flow back for display.
func Execute(ctx context.Context, rt *Runtime, cmd PredictAndCreateCommand) (*Result, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyImages, cmd.Images)
	initialState = initialState.Set(KeySubmitter, cmd.Submitter)
	initialState = initialState.Set(KeyState, cmd.State)
	initialState = initialState.Set(KeyDistrict, cmd.District)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("cropsight-diagnosis")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("classify", ClassifyNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("advise", AdviseNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("create", CreateNode(rt)); err != nil {
		return nil, err
	}

	// classify → advise (when a canonical diagnosis exists)
	if err := graph.AddEdge("classify", "advise", hasCanonical); err != nil {
		return nil, err
	}

	// classify → create (no diagnosis; create is a no-op on this path)
	if err := graph.AddEdge("classify", "create", state.Not(hasCanonical)); err != nil {
		return nil, err
	}

	// advise → create (unconditional)
	if err := graph.AddEdge("advise", "create", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("classify"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("create"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*Result, error) {
	outcome, err := outcomeFrom(s)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Outcome: outcome,
		Display: outcome.Display(),
		Advice:  adviceFrom(s),
	}

	if reportVal, ok := s.Get(KeyReport); ok {
		if report, ok := reportVal.(diagnosis.Report); ok {
			result.Report = &report
		}
	}

	if caseVal, ok := s.Get(KeyCase); ok {
		if created, ok := caseVal.(cases.Case); ok {
			result.Case = &created
		}
	}

	return result, nil
}
