package orders

import "strings"

// Status is an open enumeration. The engine only reasons about
// Cancelled; every other value is carried through untouched.
type Status string

const (
	StatusSubmitted  Status = "Submitted"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

var knownStatuses = []Status{StatusSubmitted, StatusProcessing, StatusCompleted, StatusCancelled}

// ParseStatus canonicalizes known values case-insensitively. Unknown
// values pass through as-is; an empty value defaults to Submitted.
func ParseStatus(s string) Status {
	if s == "" {
		return StatusSubmitted
	}
	for _, known := range knownStatuses {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return Status(s)
}

func (s Status) Cancelled() bool {
	return strings.EqualFold(string(s), string(StatusCancelled))
}
