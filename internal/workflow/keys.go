package workflow

// State bag keys shared across workflow nodes.
const (
	KeyImages    = "images"
	KeySubmitter = "submitter"
	KeyState     = "state"
	KeyDistrict  = "district"
	KeyOutcome   = "outcome"
	KeyAdvice    = "advice"
	KeyReport    = "report"
	KeyCase      = "case"
)
