package donation

import (
	"errors"
	"fmt"
)

// Status represents the payment state of a donation.
type Status string

// Donation payment states.
const (
	StatusPending           Status = "pending"
	StatusProcessing        Status = "processing"
	StatusCompleted         Status = "completed"
	StatusFailed            Status = "failed"
	StatusCancelled         Status = "cancelled"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially_refunded"
)

// allowedTransitions defines the valid state transitions.
// The key is the current state, and the value is the set of valid target states.
var allowedTransitions = map[Status][]Status{
	StatusPending:           {StatusProcessing, StatusCancelled, StatusFailed},
	StatusProcessing:        {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted:         {StatusRefunded, StatusPartiallyRefunded},
	StatusPartiallyRefunded: {StatusRefunded},
	StatusFailed:            {}, // Terminal state
	StatusCancelled:         {}, // Terminal state
	StatusRefunded:          {}, // Terminal state
}

// ErrInvalidTransition is matched by errors.Is for any rejected status
// transition. The concrete error is an *InvalidTransitionError carrying
// the offending pair.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnknownStatus is returned when parsing a string that is not a known status.
var ErrUnknownStatus = errors.New("unknown donation status")

// InvalidTransitionError reports a rejected transition between two states.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// Is makes errors.Is(err, ErrInvalidTransition) match.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// String returns the string representation of the status.
func (s Status) String() string { return string(s) }

// IsValid reports whether s is one of the known donation states.
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether a transition from s to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := allowedTransitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsFinal reports whether s is a terminal state from which no further
// transition is permitted.
func (s Status) IsFinal() bool {
	return s == StatusFailed || s == StatusCancelled || s == StatusRefunded
}

// IsSuccessful reports whether the donation's funds were accepted.
// Only completed counts: refunded donations are no longer successful.
func (s Status) IsSuccessful() bool {
	return s == StatusCompleted
}

// ValidateTransition returns an *InvalidTransitionError if a transition
// from one state to another is not allowed.
func ValidateTransition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// ParseStatus converts a raw string into a Status, rejecting unknown
// values. Raw strings must never be trusted as authoritative state; this
// is the only sanctioned way to turn external input into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}
