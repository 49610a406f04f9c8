package reconcile

import "fmt"

// Error is a reconciliation failure: something unexpected went wrong while
// merging, as opposed to a source being unavailable.
type Error struct {
	PassID string
	Cause  error
}

func (e *Error) Error() string {
	if e.PassID == "" {
		return fmt.Sprintf("reconciliation failed: %v", e.Cause)
	}
	return fmt.Sprintf("reconciliation %s failed: %v", e.PassID, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// UserMessage is what the dashboard shows instead of metric values.
const UserMessage = "Failed to load metrics. Please check backend/API."
