package scoring

import (
	"errors"
	"fmt"

	"eapmetrics/internal/model"
)

var (
	// ErrMalformedResponse marks a response with a missing or unknown branch.
	// Such responses are excluded and counted, never fatal.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrStructuralViolation marks input that breaks the store contract
	// (a nil response, or answers that are not a mapping). It aborts evaluation.
	ErrStructuralViolation = errors.New("structural violation")
)

// MalformedResponseError carries the offending response id and branch value
type MalformedResponseError struct {
	ResponseID string
	Branch     model.Branch
}

func (e *MalformedResponseError) Error() string {
	if e.Branch == "" {
		return fmt.Sprintf("response %s: branch is not set", e.ResponseID)
	}
	return fmt.Sprintf("response %s: unknown branch %q", e.ResponseID, e.Branch)
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }

// StructuralError describes a contract violation found in one response
type StructuralError struct {
	ResponseID string
	Reason     string
}

func (e *StructuralError) Error() string {
	if e.ResponseID == "" {
		return "structural violation: " + e.Reason
	}
	return fmt.Sprintf("structural violation in response %s: %s", e.ResponseID, e.Reason)
}

func (e *StructuralError) Unwrap() error { return ErrStructuralViolation }
