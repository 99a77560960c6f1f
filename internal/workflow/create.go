package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/cropsight/cropsight/internal/cases"
	"github.com/cropsight/cropsight/internal/classifier"
	"github.com/cropsight/cropsight/internal/diagnosis"
	"github.com/cropsight/cropsight/pkg/middleware"
)

// CreateNode returns the exit node. With a canonical diagnosis it synthesizes
// the report and creates a pool-routed case holding every submitted image;
// without one it is a no-op so the raw results still flow back to the caller.
func CreateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		outcome, err := outcomeFrom(s)
		if err != nil {
			return s, fmt.Errorf("create: %w", err)
		}

		if outcome.Canonical == nil {
			return s, nil
		}

		report := diagnosis.SynthesizeReport(outcome, adviceFrom(s))
		report.State = optionalString(s, KeyState)
		report.District = optionalString(s, KeyDistrict)
		s = s.Set(KeyReport, report)

		submitterVal, ok := s.Get(KeySubmitter)
		if !ok {
			return s, fmt.Errorf("create: missing %s in state", KeySubmitter)
		}
		submitter, ok := submitterVal.(middleware.Principal)
		if !ok {
			return s, fmt.Errorf("create: %s is not middleware.Principal", KeySubmitter)
		}

		imagesVal, _ := s.Get(KeyImages)
		images, _ := imagesVal.([]classifier.Image)

		created, err := rt.Cases.Route(ctx, report, caseUploads(images), cases.ModePool, submitter)
		if err != nil {
			return s, fmt.Errorf("create: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "create node complete",
			"case_id", created.ID,
			"topic", created.Topic,
		)

		return s.Set(KeyCase, *created), nil
	})
}

func caseUploads(images []classifier.Image) []cases.ImageUpload {
	uploads := make([]cases.ImageUpload, 0, len(images))
	for _, img := range images {
		uploads = append(uploads, cases.ImageUpload{
			Data:        img.Data,
			Filename:    img.Filename,
			ContentType: img.ContentType,
		})
	}
	return uploads
}

func optionalString(s state.State, key string) *string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}

	str, ok := val.(string)
	if !ok || str == "" {
		return nil
	}

	return &str
}
