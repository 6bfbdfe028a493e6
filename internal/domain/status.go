package domain

import "fmt"

// Status tracks a receipt's position in the extraction lifecycle
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// validTransitions is the full set of allowed status changes. failed→pending
// covers operator-triggered reprocessing.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusFailed:     {StatusPending},
}

// ParseStatus converts a stored string into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown receipt status: %q", s)
	}
	return status, nil
}

// Valid reports whether the status is one of the four known values
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo advances the receipt's status, rejecting any change the
// transition table does not allow
func (r *Receipt) TransitionTo(next Status) error {
	if !r.Status.CanTransitionTo(next) {
		return &TransitionError{From: r.Status, To: next}
	}
	r.Status = next
	r.touch()
	return nil
}
