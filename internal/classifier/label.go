package classifier

import "strings"

// labelDelimiter separates the crop half from the disease half of a raw
// prediction label, e.g. "Tomato___Late_blight".
const labelDelimiter = "___"

// Label is a raw classifier prediction label. Crop and Disease decode the
// "crop___disease" encoding; underscores inside each half render as spaces.
type Label string

// Crop returns the decoded crop half, or nil when the label carries
// no delimiter.
func (l Label) Crop() *string {
	raw := string(l)
	if !strings.Contains(raw, labelDelimiter) {
		return nil
	}
	half := decodeHalf(strings.SplitN(raw, labelDelimiter, 2)[0])
	return &half
}

// Disease returns the decoded disease half. A label without a delimiter is
// entirely disease.
func (l Label) Disease() string {
	raw := string(l)
	if !strings.Contains(raw, labelDelimiter) {
		return raw
	}
	return decodeHalf(strings.SplitN(raw, labelDelimiter, 2)[1])
}

// CropName returns the decoded crop half, or fallback when undecodable.
func (l Label) CropName(fallback string) string {
	if crop := l.Crop(); crop != nil {
		return *crop
	}
	return fallback
}

func decodeHalf(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}
