package booking

import "fmt"

// UnavailableError carries a structured no-table reason the engine can turn
// into a guest-facing message.
type UnavailableError struct {
	Reason  string
	Message string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func NewUnavailableError(reason, msg string) error {
	return &UnavailableError{
		Reason:  reason,
		Message: msg,
	}
}

// CommitError marks a failed reservation write that the guest may retry.
type CommitError struct {
	Code    string
	Message string
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewCommitError(msg string) error {
	return &CommitError{
		Code:    "commitError",
		Message: msg,
	}
}
