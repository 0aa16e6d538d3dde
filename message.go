// Package milter implements a sans-I/O codec and session state machine for
// the Sendmail/Postfix milter wire protocol: the length-prefixed binary
// protocol an MTA uses to stream SMTP-session events to an external mail
// filter and receive verdicts and post-message modifications back.
//
// Everything in this package operates on byte slices and in-memory values.
// There is no socket, no goroutine, and no callback framework here - those
// are the job of whatever I/O layer a caller builds on top of [Decoder],
// [Encode] and [Session].
package milter

import "github.com/sansmilter/protocol/internal/wire"

// Family classifies a Message by who may send it and when.
type Family int

const (
	// FamilySetup messages (Negotiate, Macro) are exchanged before, and
	// interleaved with, the main event/response flow.
	FamilySetup Family = iota
	// FamilyEvent messages flow MTA -> filter.
	FamilyEvent
	// FamilyResponse messages flow filter -> MTA and end an event.
	FamilyResponse
	// FamilyModification messages flow filter -> MTA, only inside the
	// end-of-message window, before the final response.
	FamilyModification
	// FamilyMisc messages have no documented payload shape.
	FamilyMisc
)

func (f Family) String() string {
	switch f {
	case FamilySetup:
		return "setup"
	case FamilyEvent:
		return "event"
	case FamilyResponse:
		return "response"
	case FamilyModification:
		return "modification"
	case FamilyMisc:
		return "misc"
	default:
		return "unknown"
	}
}

// Wire tags, one byte per message type (spec.md §6). These alias the
// internal/wire package's Code/ActionCode/ModifyActCode constants rather
// than redefining the tag bytes a second time.
const (
	tagNegotiate byte = byte(wire.CodeOptNeg)
	tagMacro     byte = byte(wire.CodeMacro)

	tagConnect           byte = byte(wire.CodeConn)
	tagHelo              byte = byte(wire.CodeHelo)
	tagEnvelopeFrom      byte = byte(wire.CodeMail) // overloaded with "quit new connection"; always decoded as EnvelopeFrom, see DESIGN.md
	tagEnvelopeRecipient byte = byte(wire.CodeRcpt)
	tagData              byte = byte(wire.CodeData)
	tagUnknown           byte = byte(wire.CodeUnknown)
	tagHeader            byte = byte(wire.CodeHeader)
	tagEndOfHeaders      byte = byte(wire.CodeEOH)
	tagBody              byte = byte(wire.CodeBody)
	tagEndOfMessage      byte = byte(wire.CodeEOB)
	tagAbort             byte = byte(wire.CodeAbort)
	tagClose             byte = byte(wire.CodeQuit)

	tagContinue         byte = byte(wire.ActContinue)
	tagReject           byte = byte(wire.ActReject)
	tagDiscard          byte = byte(wire.ActDiscard)
	tagAccept           byte = byte(wire.ActAccept)
	tagTemporaryFailure byte = byte(wire.ActTempFail)
	tagSkip             byte = byte(wire.ActSkip)
	tagReplyCode        byte = byte(wire.ActReplyCode)

	tagAddHeader       byte = byte(wire.ActAddHeader)
	tagChangeHeader    byte = byte(wire.ActChangeHeader)
	tagInsertHeader    byte = byte(wire.ActInsertHeader)
	tagChangeSender    byte = byte(wire.ActChangeFrom)
	tagAddRecipient    byte = byte(wire.ActAddRcpt)
	tagAddRecipientPar byte = byte(wire.ActAddRcptPar)
	tagRemoveRecipient byte = byte(wire.ActDelRcpt)
	tagReplaceBody     byte = byte(wire.ActReplBody)
	tagProgress        byte = byte(wire.ActProgress)
	tagQuarantine      byte = byte(wire.ActQuarantine)

	tagShutdown       byte = byte(wire.CodeShutdown)
	tagConnectionFail byte = byte(wire.CodeConnFail)
	tagSetSymbolList  byte = byte(wire.CodeSetSymList)
)

// Message is the closed sum type of every value this protocol can carry
// over the wire. Each concrete type in this package (Negotiate, Connect,
// Continue, AddHeader, ...) implements it.
//
// Message is a sealed interface: the unexported method prevents types
// outside this package from satisfying it, so a type switch over Message
// in codec.go is exhaustive by construction.
type Message interface {
	// Tag is the one-byte wire tag identifying this message's type.
	Tag() byte
	// Family reports which side may send this message and when.
	Family() Family

	sealedMessage()
}

// MacroStage identifies which event a Macro message's name/value pairs are
// associated with. Encoded as a u32 inside a Negotiate's macro table, and
// as a single byte (the paired event's own tag) inside a Macro message.
type MacroStage uint32

const (
	StageConnect MacroStage = iota // SMFIM_CONNECT
	StageHelo                      // SMFIM_HELO
	StageMailFrom                  // SMFIM_ENVFROM
	StageRcptTo                    // SMFIM_ENVRCPT
	StageData                      // SMFIM_DATA
	StageEndOfMessage               // SMFIM_EOM
	StageEndOfHeaders               // SMFIM_EOH
)

func (s MacroStage) String() string {
	switch s {
	case StageConnect:
		return "connect"
	case StageHelo:
		return "helo"
	case StageMailFrom:
		return "mail_from"
	case StageRcptTo:
		return "rcpt_to"
	case StageData:
		return "data"
	case StageEndOfMessage:
		return "end_of_message"
	case StageEndOfHeaders:
		return "end_of_headers"
	default:
		return "unknown_stage"
	}
}

// stageForEventTag maps an event message's wire tag to the MacroStage a
// Macro message immediately preceding it would carry. Header, Unknown,
// Abort and Body events share command-level macros: they are not one of
// the seven macro-bearing stages proper, but a MTA still precedes them
// with a Macro message tagged with their own event code.
func stageForEventTag(tag byte) (MacroStage, bool) {
	switch tag {
	case tagConnect:
		return StageConnect, true
	case tagHelo:
		return StageHelo, true
	case tagEnvelopeFrom:
		return StageMailFrom, true
	case tagEnvelopeRecipient:
		return StageRcptTo, true
	case tagData:
		return StageData, true
	case tagEndOfMessage:
		return StageEndOfMessage, true
	case tagEndOfHeaders:
		return StageEndOfHeaders, true
	default:
		return 0, false
	}
}
