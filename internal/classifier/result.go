// Package classifier provides the client for the external leaf classification
// service. Every call produces exactly one of three result shapes: Accepted
// (a diagnosable leaf with a disease label), Rejected (the leaf gate refused
// the image), or Failed (service or transport fault). The client never
// returns an error; all failure modes are folded into Failed results.
package classifier

// Kind discriminates the three result shapes.
type Kind string

const (
	KindAccepted Kind = "accepted"
	KindRejected Kind = "rejected"
	KindFailed   Kind = "failed"
)

// Alternative is one entry of the classifier's ranked guess list.
type Alternative struct {
	Label Label    `json:"label"`
	Prob  *float64 `json:"prob"`
}

// Accepted holds a successful leaf diagnosis.
type Accepted struct {
	Label        Label         `json:"label"`
	Confidence   *float64      `json:"confidence"`
	Alternatives []Alternative `json:"alternatives"`
}

// Rejected holds the leaf gate's refusal reason.
type Rejected struct {
	Reason string `json:"reason"`
}

// Failed holds a service or transport fault message.
type Failed struct {
	Message string `json:"message"`
}

// Result is the tagged union of the three classification shapes.
// Exactly one of Accepted, Rejected, Failed is populated, selected by Kind.
type Result struct {
	Kind     Kind      `json:"kind"`
	Accepted *Accepted `json:"accepted,omitempty"`
	Rejected *Rejected `json:"rejected,omitempty"`
	Failed   *Failed   `json:"failed,omitempty"`
}

// NewAccepted builds an accepted result.
func NewAccepted(label Label, confidence *float64, alternatives []Alternative) Result {
	return Result{
		Kind: KindAccepted,
		Accepted: &Accepted{
			Label:        label,
			Confidence:   confidence,
			Alternatives: alternatives,
		},
	}
}

// NewRejected builds a rejected result.
func NewRejected(reason string) Result {
	return Result{
		Kind:     KindRejected,
		Rejected: &Rejected{Reason: reason},
	}
}

// NewFailed builds a failed result.
func NewFailed(message string) Result {
	return Result{
		Kind:   KindFailed,
		Failed: &Failed{Message: message},
	}
}

// IsAccepted reports whether the result passed the leaf gate.
func (r Result) IsAccepted() bool {
	return r.Kind == KindAccepted
}

// IsFailed reports whether the result is a service or transport fault.
func (r Result) IsFailed() bool {
	return r.Kind == KindFailed
}
