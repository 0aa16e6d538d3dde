package milter

import (
	"strings"
	"testing"
)

func TestUnexpectedMessageError(t *testing.T) {
	t.Parallel()
	err := &UnexpectedMessage{Phase: Greeted, Got: Data{}}
	got := err.Error()
	if !strings.Contains(got, "Data") || !strings.Contains(got, "greeted") {
		t.Errorf("UnexpectedMessage.Error() = %q, want it to mention the type and phase", got)
	}
}

func TestNegotiationErrorError(t *testing.T) {
	t.Parallel()
	err := &NegotiationError{Reason: "no common version"}
	got := err.Error()
	if !strings.Contains(got, "no common version") {
		t.Errorf("NegotiationError.Error() = %q, want it to mention the reason", got)
	}
}

func TestErrNotNegotiatedError(t *testing.T) {
	t.Parallel()
	var err error = ErrNotNegotiated{}
	if err.Error() == "" {
		t.Errorf("ErrNotNegotiated.Error() = \"\", want a non-empty message")
	}
}
