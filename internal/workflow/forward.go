package workflow

import (
	"context"

	"github.com/cropsight/cropsight/internal/cases"
	"github.com/cropsight/cropsight/internal/classifier"
	"github.com/cropsight/cropsight/internal/diagnosis"
	"github.com/cropsight/cropsight/pkg/middleware"
)

// ForwardCommand carries an already-diagnosed result to a reviewer.
// Mode selects pool or nearest routing; empty mode defaults to POOL.
type ForwardCommand struct {
	Crop      string
	Disease   string
	Advice    string
	Images    []classifier.Image
	State     string
	District  string
	Mode      cases.RoutingMode
	Submitter middleware.Principal
}

// Forward creates a case directly from a previous diagnosis, skipping
// classification and advice. The body pairs the disease name with the
// advice text; the topic mirrors report topics.
func Forward(ctx context.Context, rt *Runtime, cmd ForwardCommand) (*cases.Case, error) {
	report := diagnosis.Report{
		Topic: cmd.Crop + " • " + cmd.Disease,
		Body:  cmd.Disease + "\n\n" + cmd.Advice,
	}
	if cmd.State != "" {
		report.State = &cmd.State
	}
	if cmd.District != "" {
		report.District = &cmd.District
	}

	created, err := rt.Cases.Route(ctx, report, caseUploads(cmd.Images), cmd.Mode, cmd.Submitter)
	if err != nil {
		return nil, err
	}

	rt.Logger.Info("diagnosis forwarded",
		"case_id", created.ID,
		"topic", created.Topic,
		"mode", cmd.Mode,
	)
	return created, nil
}
