package diagnosis_test

import (
	"strings"
	"testing"

	"github.com/cropsight/cropsight/internal/classifier"
	"github.com/cropsight/cropsight/internal/diagnosis"
)

func outcomeWith(canonical classifier.Result, total, accepted int) diagnosis.Outcome {
	return diagnosis.Outcome{
		Canonical:     &canonical,
		ImageCount:    total,
		AcceptedCount: accepted,
		RejectedCount: total - accepted,
	}
}

func TestSynthesizeReportSingleImage(t *testing.T) {
	conf := 0.91
	prob1, prob2 := 0.91, 0.05
	canonical := classifier.NewAccepted("Tomato___Late_blight", &conf, []classifier.Alternative{
		{Label: "Tomato___Late_blight", Prob: &prob1},
		{Label: "Tomato___Early_blight", Prob: &prob2},
	})

	advice := "Remove infected foliage and apply a copper-based fungicide."
	report := diagnosis.SynthesizeReport(outcomeWith(canonical, 1, 1), &advice)

	if report.Topic != "Tomato • Late blight" {
		t.Errorf("topic = %q", report.Topic)
	}

	want := "Crop: Tomato\n" +
		"Disease: Late blight\n" +
		"Confidence: 91.00%\n" +
		"\nTop 3 guesses:\n" +
		"- Tomato___Late_blight (91.00%)\n" +
		"- Tomato___Early_blight (5.00%)\n" +
		"\n" +
		"AI advice:\n" +
		"Remove infected foliage and apply a copper-based fungicide."
	if report.Body != want {
		t.Errorf("body =\n%q\nwant\n%q", report.Body, want)
	}
}

func TestSynthesizeReportMultiImage(t *testing.T) {
	conf := 0.75
	prob := 0.75
	canonical := classifier.NewAccepted("Potato___Early_blight", &conf, []classifier.Alternative{
		{Label: "Potato___Early_blight", Prob: &prob},
	})

	report := diagnosis.SynthesizeReport(outcomeWith(canonical, 3, 2), nil)

	want := "Crop: Potato\n" +
		"Disease: Early blight\n" +
		"Confidence: 75.00%\n" +
		"Images: 3 submitted, 2 leaf detected, 1 rejected\n" +
		"\nTop 3 guesses:\n" +
		"- Potato___Early_blight (75.00%)\n" +
		"\n" +
		"AI advice:\n" +
		"(AI advice not available)"
	if report.Body != want {
		t.Errorf("body =\n%q\nwant\n%q", report.Body, want)
	}
}

func TestSynthesizeReportAllAccepted(t *testing.T) {
	conf := 0.6
	canonical := classifier.NewAccepted("Corn___Common_rust", &conf, nil)

	report := diagnosis.SynthesizeReport(outcomeWith(canonical, 2, 2), nil)

	// No rejections, so the Images line has no rejected clause.
	want := "Crop: Corn\n" +
		"Disease: Common rust\n" +
		"Confidence: 60.00%\n" +
		"Images: 2 submitted, 2 leaf detected\n" +
		"\nTop 3 guesses:\n" +
		"- (no probabilities provided)\n" +
		"\n" +
		"AI advice:\n" +
		"(AI advice not available)"
	if report.Body != want {
		t.Errorf("body =\n%q\nwant\n%q", report.Body, want)
	}
}

func TestSynthesizeReportNilConfidence(t *testing.T) {
	canonical := classifier.NewAccepted("Tomato___healthy", nil, nil)

	report := diagnosis.SynthesizeReport(outcomeWith(canonical, 1, 1), nil)

	want := "Crop: Tomato\n" +
		"Disease: healthy\n" +
		"\nTop 3 guesses:\n" +
		"- (no probabilities provided)\n" +
		"\n" +
		"AI advice:\n" +
		"(AI advice not available)"
	if report.Body != want {
		t.Errorf("body =\n%q\nwant\n%q", report.Body, want)
	}
}

func TestSynthesizeReportUnknownCrop(t *testing.T) {
	conf := 0.4
	canonical := classifier.NewAccepted("mystery_leaf", &conf, nil)

	report := diagnosis.SynthesizeReport(outcomeWith(canonical, 1, 1), nil)

	if report.Topic != "Unknown • mystery_leaf" {
		t.Errorf("topic = %q", report.Topic)
	}
	if got, want := report.Body[:len("Crop: Unknown\n")], "Crop: Unknown\n"; got != want {
		t.Errorf("body prefix = %q, want %q", got, want)
	}
}

func TestTopGuessesTruncation(t *testing.T) {
	probs := []float64{0.4, 0.3, 0.2, 0.1}
	alternatives := make([]classifier.Alternative, 0, len(probs))
	for i, p := range probs {
		prob := p
		alternatives = append(alternatives, classifier.Alternative{
			Label: classifier.Label([]byte{'a' + byte(i)}),
			Prob:  &prob,
		})
	}

	conf := 0.4
	canonical := classifier.NewAccepted("Tomato___Late_blight", &conf, alternatives)
	report := diagnosis.SynthesizeReport(outcomeWith(canonical, 1, 1), nil)

	want := "Top 3 guesses:\n" +
		"- a (40.00%)\n" +
		"- b (30.00%)\n" +
		"- c (20.00%)\n"
	if !strings.Contains(report.Body, want) {
		t.Errorf("body missing %q:\n%s", want, report.Body)
	}
	if strings.Contains(report.Body, "- d ") {
		t.Errorf("fourth guess leaked into body:\n%s", report.Body)
	}
}

func TestTopGuessesMissingProbability(t *testing.T) {
	prob := 0.5
	alternatives := []classifier.Alternative{
		{Label: "with_prob", Prob: &prob},
		{Label: "without_prob"},
	}

	conf := 0.5
	canonical := classifier.NewAccepted("Tomato___Late_blight", &conf, alternatives)
	report := diagnosis.SynthesizeReport(outcomeWith(canonical, 1, 1), nil)

	want := "- with_prob (50.00%)\n- without_prob\n"
	if !strings.Contains(report.Body, want) {
		t.Errorf("body missing %q:\n%s", want, report.Body)
	}
}
