package diagnosis

import (
	"fmt"
	"strings"

	"github.com/cropsight/cropsight/internal/classifier"
)

const (
	// unknownHalf substitutes for an undecodable crop or disease half.
	unknownHalf = "Unknown"

	noGuessesPlaceholder = "- (no probabilities provided)"
	noAdvicePlaceholder  = "(AI advice not available)"

	topGuessLimit = 3
)

// Report is the synthesized case report. Topic and Body are immutable once
// built; downstream consumers depend on the exact body text shape.
type Report struct {
	Topic    string  `json:"topic"`
	Body     string  `json:"body"`
	State    *string `json:"state,omitempty"`
	District *string `json:"district,omitempty"`
}

// SynthesizeReport builds the case report from an outcome with a canonical
// diagnosis. Advice may be nil when the advice provider failed; the body then
// carries a placeholder. Must only be called when outcome.Canonical != nil.
//
// Body sections, in fixed order:
//  1. Crop / Disease lines, plus Confidence when present
//  2. an Images summary line, only when more than one image was submitted
//  3. a Top 3 guesses block
//  4. an AI advice block
func SynthesizeReport(outcome Outcome, advice *string) Report {
	accepted := outcome.Canonical.Accepted

	crop := accepted.Label.CropName(unknownHalf)
	disease := accepted.Label.Disease()
	if disease == "" {
		disease = unknownHalf
	}

	var body strings.Builder
	body.WriteString("Crop: " + crop + "\n")
	body.WriteString("Disease: " + disease + "\n")

	if accepted.Confidence != nil {
		body.WriteString(fmt.Sprintf("Confidence: %.2f%%\n", *accepted.Confidence*100.0))
	}

	if outcome.ImageCount > 1 {
		body.WriteString(fmt.Sprintf(
			"Images: %d submitted, %d leaf detected",
			outcome.ImageCount,
			outcome.AcceptedCount,
		))
		if outcome.RejectedCount > 0 {
			body.WriteString(fmt.Sprintf(", %d rejected", outcome.RejectedCount))
		}
		body.WriteString("\n")
	}

	body.WriteString("\nTop 3 guesses:\n")
	body.WriteString(topGuesses(accepted.Alternatives))
	body.WriteString("\n\n")

	body.WriteString("AI advice:\n")
	if advice != nil {
		body.WriteString(*advice)
	} else {
		body.WriteString(noAdvicePlaceholder)
	}

	return Report{
		Topic: crop + " • " + disease,
		Body:  body.String(),
	}
}

func topGuesses(alternatives []classifier.Alternative) string {
	lines := make([]string, 0, topGuessLimit)
	for _, alt := range alternatives {
		if len(lines) == topGuessLimit {
			break
		}

		line := "- " + string(alt.Label)
		if alt.Prob != nil {
			line += fmt.Sprintf(" (%.2f%%)", *alt.Prob*100.0)
		}
		lines = append(lines, line)
	}

	joined := strings.Join(lines, "\n")
	if strings.TrimSpace(joined) == "" {
		return noGuessesPlaceholder
	}
	return joined
}
