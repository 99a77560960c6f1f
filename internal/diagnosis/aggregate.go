// Package diagnosis aggregates per-image classification results into a single
// canonical diagnosis and synthesizes the case report text.
package diagnosis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cropsight/cropsight/internal/classifier"
	"github.com/cropsight/cropsight/internal/metrics"
)

// Outcome is the consolidated result of classifying a batch of images.
// Results preserves input order: Results[i] corresponds to images[i].
// Canonical is non-nil iff AcceptedCount > 0.
type Outcome struct {
	Canonical     *classifier.Result  `json:"canonical"`
	Results       []classifier.Result `json:"results"`
	ImageCount    int                 `json:"image_count"`
	AcceptedCount int                 `json:"accepted_count"`
	RejectedCount int                 `json:"rejected_count"`
}

// Aggregate classifies every image, tolerating per-image failure, and selects
// the canonical diagnosis. Calls run concurrently up to maxParallel; a failed
// image never short-circuits the batch since Classify folds faults into
// Failed results.
func Aggregate(
	ctx context.Context,
	client classifier.Client,
	images []classifier.Image,
	maxParallel int,
) Outcome {
	results := make([]classifier.Result, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(maxParallel, len(images)))

	for i, img := range images {
		g.Go(func() error {
			results[i] = client.Classify(gctx, img)
			return nil
		})
	}

	// Classify never errors, so Wait only synchronizes completion.
	_ = g.Wait()

	accepted := 0
	for _, r := range results {
		if r.IsAccepted() {
			accepted++
		}
	}

	outcome := Outcome{
		Canonical:     pick(results, canonicalRules),
		Results:       results,
		ImageCount:    len(images),
		AcceptedCount: accepted,
		RejectedCount: len(images) - accepted,
	}

	if outcome.Canonical != nil {
		metrics.DiagnosisBatches.WithLabelValues("diagnosed").Inc()
	} else {
		metrics.DiagnosisBatches.WithLabelValues("no_diagnosis").Inc()
	}

	return outcome
}

// Display returns the result to show a user when no canonical diagnosis
// exists: the best accepted, else the first non-failed, else the first.
func (o Outcome) Display() *classifier.Result {
	return pick(o.Results, displayRules)
}

// selectionRule inspects completed results and optionally picks one.
// Rules are evaluated top to bottom; the first non-nil pick wins.
type selectionRule func(results []classifier.Result) *classifier.Result

var canonicalRules = []selectionRule{bestAccepted}

var displayRules = []selectionRule{bestAccepted, firstNonFailed, first}

func pick(results []classifier.Result, rules []selectionRule) *classifier.Result {
	for _, rule := range rules {
		if r := rule(results); r != nil {
			return r
		}
	}
	return nil
}

// bestAccepted selects the accepted result with strictly maximal confidence.
// A nil confidence ranks below any number; ties keep the earliest index.
func bestAccepted(results []classifier.Result) *classifier.Result {
	var best *classifier.Result
	bestConf := -1.0

	for i := range results {
		r := &results[i]
		if !r.IsAccepted() {
			continue
		}

		conf := -1.0
		if r.Accepted.Confidence != nil {
			conf = *r.Accepted.Confidence
		}

		if best == nil || conf > bestConf {
			best = r
			bestConf = conf
		}
	}

	return best
}

func firstNonFailed(results []classifier.Result) *classifier.Result {
	for i := range results {
		if !results[i].IsFailed() {
			return &results[i]
		}
	}
	return nil
}

func first(results []classifier.Result) *classifier.Result {
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}

func workerCount(maxParallel, imageCount int) int {
	return max(min(maxParallel, imageCount), 1)
}
