package milter

import (
	"fmt"

	"github.com/sansmilter/protocol/internal/wire"
	"github.com/sansmilter/protocol/milterutil"
)

// Continue tells the MTA to proceed with the transaction; the filter has no
// opinion on the event just processed.
type Continue struct{}

func (Continue) Tag() byte      { return tagContinue }
func (Continue) Family() Family { return FamilyResponse }
func (Continue) sealedMessage() {}

// Reject tells the MTA to hard-reject the current transaction. No further
// events for this transaction follow.
type Reject struct{}

func (Reject) Tag() byte      { return tagReject }
func (Reject) Family() Family { return FamilyResponse }
func (Reject) sealedMessage() {}

// Discard tells the MTA to silently discard the current transaction.
type Discard struct{}

func (Discard) Tag() byte      { return tagDiscard }
func (Discard) Family() Family { return FamilyResponse }
func (Discard) sealedMessage() {}

// Accept tells the MTA to accept the current transaction without further
// filtering.
type Accept struct{}

func (Accept) Tag() byte      { return tagAccept }
func (Accept) Family() Family { return FamilyResponse }
func (Accept) sealedMessage() {}

// TemporaryFailure tells the MTA to reply with a transient (4xx) failure;
// the sender may retry later.
type TemporaryFailure struct{}

func (TemporaryFailure) Tag() byte      { return tagTemporaryFailure }
func (TemporaryFailure) Family() Family { return FamilyResponse }
func (TemporaryFailure) sealedMessage() {}

// Skip tells the MTA the filter does not need to see any more events of the
// kind it is currently receiving. Only legal from the Body phase, and only
// if ProtocolSkip was negotiated - see Session.FeedOutbound.
type Skip struct{}

func (Skip) Tag() byte      { return tagSkip }
func (Skip) Family() Family { return FamilyResponse }
func (Skip) sealedMessage() {}

// ReplyCode carries an explicit SMTP reply: a 3-digit code (4xx or 5xx) and
// human-readable text. The wire payload is always "DDD" + " " + Text; any
// richer multi-line/dash-continuation SMTP formatting a caller wants is
// their responsibility to bake into Text (see NewReplyCode).
type ReplyCode struct {
	Code uint16
	Text string
}

func (ReplyCode) Tag() byte      { return tagReplyCode }
func (ReplyCode) Family() Family { return FamilyResponse }
func (ReplyCode) sealedMessage() {}

func parseEmptyResponse(payload []byte, name string) error {
	if len(payload) != 0 {
		return wire.NewFramingError(fmt.Sprintf("%s: unexpected payload", name))
	}
	return nil
}

func parseContinue(payload []byte) (Continue, error) {
	return Continue{}, parseEmptyResponse(payload, "continue")
}
func parseReject(payload []byte) (Reject, error) {
	return Reject{}, parseEmptyResponse(payload, "reject")
}
func parseDiscard(payload []byte) (Discard, error) {
	return Discard{}, parseEmptyResponse(payload, "discard")
}
func parseAccept(payload []byte) (Accept, error) {
	return Accept{}, parseEmptyResponse(payload, "accept")
}
func parseTemporaryFailure(payload []byte) (TemporaryFailure, error) {
	return TemporaryFailure{}, parseEmptyResponse(payload, "temporary_failure")
}
func parseSkip(payload []byte) (Skip, error) {
	return Skip{}, parseEmptyResponse(payload, "skip")
}

func appendContinue(dst []byte, _ Continue) []byte                 { return dst }
func appendReject(dst []byte, _ Reject) []byte                     { return dst }
func appendDiscard(dst []byte, _ Discard) []byte                   { return dst }
func appendAccept(dst []byte, _ Accept) []byte                     { return dst }
func appendTemporaryFailure(dst []byte, _ TemporaryFailure) []byte { return dst }
func appendSkip(dst []byte, _ Skip) []byte                         { return dst }

// parseReplyCode reads "DDD text\0": the first 3 bytes must be ASCII
// digits whose leading digit is 4 or 5, the 4th byte must be a space or a
// '-', and the remainder up to the terminator is Text verbatim.
func parseReplyCode(payload []byte) (ReplyCode, error) {
	if len(payload) < 5 {
		return ReplyCode{}, wire.NewFramingError("reply_code: payload too short")
	}
	for i := 0; i < 3; i++ {
		if payload[i] < '0' || payload[i] > '9' {
			return ReplyCode{}, wire.NewFramingError("reply_code: code is not 3 ASCII digits")
		}
	}
	if payload[0] != '4' && payload[0] != '5' {
		return ReplyCode{}, wire.NewFramingError("reply_code: leading digit must be 4 or 5")
	}
	if payload[3] != ' ' && payload[3] != '-' {
		return ReplyCode{}, wire.NewFramingError("reply_code: missing separator after code")
	}
	code := uint16(payload[0]-'0')*100 + uint16(payload[1]-'0')*10 + uint16(payload[2]-'0')
	text, rest, err := wire.ReadCStringStrict(payload[4:])
	if err != nil {
		return ReplyCode{}, err
	}
	if len(rest) != 0 {
		return ReplyCode{}, wire.NewFramingError("reply_code: trailing bytes")
	}
	return ReplyCode{Code: code, Text: text}, nil
}

func appendReplyCode(dst []byte, r ReplyCode) []byte {
	dst = append(dst, byte('0'+r.Code/100), byte('0'+(r.Code/10)%10), byte('0'+r.Code%10), ' ')
	return wire.AppendCString(dst, r.Text)
}

// NewReplyCode builds a ReplyCode for an SMTP code in [400,599]. reason is
// formatted with milterutil.FormatResponse, the same percent-doubling /
// CRLF-canonicalization / line-wrapping pipeline the teacher library uses
// to build rejection text; the leading "<code><sep>" FormatResponse embeds
// is then stripped back off since appendReplyCode supplies its own. Any
// further dash-prefixed continuation lines FormatResponse produced for a
// multi-line reason survive unchanged inside Text.
func NewReplyCode(code uint16, reason string) (ReplyCode, error) {
	if code < 400 || code > 599 {
		return ReplyCode{}, fmt.Errorf("milter: invalid SMTP code %d", code)
	}
	formatted, err := milterutil.FormatResponse(code, reason)
	if err != nil {
		return ReplyCode{}, fmt.Errorf("milter: formatting reply text: %w", err)
	}
	prefix := fmt.Sprintf("%d", code)
	text := formatted
	if len(formatted) > len(prefix) && formatted[:len(prefix)] == prefix {
		text = formatted[len(prefix)+1:]
	}
	return ReplyCode{Code: code, Text: text}, nil
}
