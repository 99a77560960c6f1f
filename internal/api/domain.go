package api

import (
	"github.com/cropsight/cropsight/internal/advice"
	"github.com/cropsight/cropsight/internal/cases"
	"github.com/cropsight/cropsight/internal/classifier"
	"github.com/cropsight/cropsight/internal/reviewers"
	"github.com/cropsight/cropsight/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Reviewers reviewers.System
	Cases     cases.System
	Workflow  *workflow.Runtime
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	reviewersSystem := reviewers.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	casesSystem := cases.New(
		runtime.Database.Connection(),
		runtime.Storage,
		reviewersSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	adviceSystem := advice.New(runtime.Agent, runtime.Logger)

	workflowRuntime := &workflow.Runtime{
		Classifier:  classifier.New(&runtime.Classifier, runtime.Logger),
		Advice:      adviceSystem,
		Cases:       casesSystem,
		MaxParallel: runtime.Classifier.MaxParallel,
		Logger:      runtime.Logger.With("workflow", "diagnosis"),
	}

	return &Domain{
		Reviewers: reviewersSystem,
		Cases:     casesSystem,
		Workflow:  workflowRuntime,
	}
}
