package milter

import "fmt"

// UnexpectedMessage reports that a Message of the right Family arrived at a
// point in the session where its concrete type, or its direction, is not
// legal - e.g. a Header event after EndOfMessage, or a modification message
// flowing MTA -> filter.
type UnexpectedMessage struct {
	Phase Phase
	Got   Message
}

func (e *UnexpectedMessage) Error() string {
	return fmt.Sprintf("milter: unexpected %T in phase %s", e.Got, e.Phase)
}

// NegotiationError reports that Negotiate values offered by the two sides
// of a session could not be reconciled - e.g. no protocol version both
// sides support, or a negotiation callback returning an error.
type NegotiationError struct {
	Reason string
}

func (e *NegotiationError) Error() string {
	return fmt.Sprintf("milter: negotiation failed: %s", e.Reason)
}

// ErrNotNegotiated is returned by Session methods that require a completed
// Negotiate exchange when called beforehand.
type ErrNotNegotiated struct{}

func (ErrNotNegotiated) Error() string {
	return "milter: session has not completed negotiation"
}
