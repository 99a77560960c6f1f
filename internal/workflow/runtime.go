// Package workflow orchestrates the diagnosis pipeline: batch classification,
// advice generation, and case creation, expressed as a state graph.
package workflow

import (
	"log/slog"

	"github.com/cropsight/cropsight/internal/advice"
	"github.com/cropsight/cropsight/internal/cases"
	"github.com/cropsight/cropsight/internal/classifier"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Classifier  classifier.Client
	Advice      advice.System
	Cases       cases.System
	MaxParallel int
	Logger      *slog.Logger
}
