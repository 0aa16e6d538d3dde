package milter

// Phase is the current point in a Session's lifecycle. Transitions are
// driven by FeedInbound/FeedOutbound, which encode the full graph.
type Phase int

const (
	PreNegotiate Phase = iota
	Negotiated
	Connected
	Greeted
	Envelope
	DataPhase
	Headers
	BodyPhase
	AwaitingEom
	Closed
)

func (p Phase) String() string {
	switch p {
	case PreNegotiate:
		return "pre_negotiate"
	case Negotiated:
		return "negotiated"
	case Connected:
		return "connected"
	case Greeted:
		return "greeted"
	case Envelope:
		return "envelope"
	case DataPhase:
		return "data"
	case Headers:
		return "headers"
	case BodyPhase:
		return "body"
	case AwaitingEom:
		return "awaiting_eom"
	case Closed:
		return "closed"
	default:
		return "unknown_phase"
	}
}

// Session drives one milter connection: negotiated parameters, the current
// Phase, and which event a response is currently owed for. It holds no
// socket and performs no I/O; a caller decodes bytes into Messages
// elsewhere and calls FeedInbound/FeedOutbound to validate and advance.
type Session struct {
	version  uint32
	actions  ActionFlags
	protocol ProtocolFlags
	phase    Phase

	// pendingEvent is the wire tag of the event most recently accepted by
	// FeedInbound that still owes a response, or 0 if none is owed.
	pendingEvent byte
	// skipping is set once a Skip response is accepted in the BodyPhase;
	// while true, Header and Body events are rejected inbound and
	// EndOfMessage clears it (see spec S4).
	skipping bool
	rcptCount int

	desiredActions      ActionFlags
	desiredProtocol     ProtocolFlags
	maxVersion          uint32
	macroRequests       []MacroRequest
	negotiationCallback NegotiationCallbackFunc
	tolerateMisc        bool

	negotiateReply Negotiate
}

// NegotiationCallbackFunc overrides the default negotiation arithmetic
// (intersection of flags, minimum of versions). See WithNegotiationCallback.
type NegotiationCallbackFunc func(mtaVersion, maxVersion uint32, mtaActions, desiredActions ActionFlags, mtaProtocol, desiredProtocol ProtocolFlags) (version uint32, actions ActionFlags, protocol ProtocolFlags, err error)

// MaxSupportedVersion is the highest milter protocol version this package
// understands.
const MaxSupportedVersion uint32 = 6

// NewSession builds a Session in PreNegotiate phase, ready to receive the
// MTA's Negotiate via FeedInbound.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		maxVersion: MaxSupportedVersion,
		phase:      PreNegotiate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Version, Actions and Protocol report the negotiated parameters. They are
// meaningless (zero) before Phase reaches Negotiated or later.
func (s *Session) Version() uint32         { return s.version }
func (s *Session) Actions() ActionFlags    { return s.actions }
func (s *Session) Protocol() ProtocolFlags { return s.protocol }
func (s *Session) Phase() Phase            { return s.phase }
func (s *Session) RecipientCount() int     { return s.rcptCount }

// NegotiateReply returns the Negotiate value this session computed in
// response to the MTA's offer. Only meaningful once Phase is past
// PreNegotiate.
func (s *Session) NegotiateReply() Negotiate { return s.negotiateReply }

// FeedInbound validates and applies one MTA -> filter message (Negotiate,
// Macro or an event). It returns *UnexpectedMessage if msg is not legal in
// the session's current phase/direction/flags, or *NegotiationError if a
// Negotiate could not be reconciled.
func (s *Session) FeedInbound(msg Message) error {
	switch m := msg.(type) {
	case Negotiate:
		return s.handleNegotiate(m)
	case Macro:
		if s.phase == PreNegotiate || s.phase == Closed {
			return &UnexpectedMessage{Phase: s.phase, Got: msg}
		}
		return nil
	case Connect:
		return s.acceptEvent(msg, tagConnect, ProtocolNoConnect, Connected, s.phase == Negotiated)
	case Helo:
		ok := s.phase == Connected || s.phase == Greeted
		return s.acceptEvent(msg, tagHelo, ProtocolNoHelo, Greeted, ok)
	case EnvelopeFrom:
		ok := s.phase == Connected || s.phase == Greeted
		if err := s.acceptEvent(msg, tagEnvelopeFrom, ProtocolNoMailFrom, Envelope, ok); err != nil {
			return err
		}
		s.rcptCount = 0
		return nil
	case EnvelopeRecipient:
		if err := s.acceptEvent(msg, tagEnvelopeRecipient, ProtocolNoRcptTo, Envelope, s.phase == Envelope); err != nil {
			return err
		}
		s.rcptCount++
		return nil
	case Data:
		return s.acceptEvent(msg, tagData, ProtocolNoData, DataPhase, s.phase == Envelope)
	case Unknown:
		ok := s.phase != PreNegotiate && s.phase != Closed
		return s.acceptEvent(msg, tagUnknown, ProtocolNoUnknown, s.phase, ok)
	case Header:
		if s.skipping {
			return &UnexpectedMessage{Phase: s.phase, Got: msg}
		}
		ok := s.phase == DataPhase || s.phase == Headers
		return s.acceptEvent(msg, tagHeader, ProtocolNoHeaders, Headers, ok)
	case EndOfHeaders:
		return s.acceptEvent(msg, tagEndOfHeaders, ProtocolNoEOH, BodyPhase, s.phase == Headers)
	case Body:
		if s.skipping {
			return &UnexpectedMessage{Phase: s.phase, Got: msg}
		}
		return s.acceptEvent(msg, tagBody, ProtocolNoBody, BodyPhase, s.phase == BodyPhase)
	case EndOfMessage:
		if err := s.acceptEvent(msg, tagEndOfMessage, 0, AwaitingEom, s.phase == BodyPhase); err != nil {
			return err
		}
		s.skipping = false
		return nil
	case Abort:
		if s.phase != Envelope && s.phase != DataPhase && s.phase != Headers && s.phase != BodyPhase && s.phase != AwaitingEom {
			return &UnexpectedMessage{Phase: s.phase, Got: msg}
		}
		s.phase = Greeted
		s.pendingEvent = 0
		s.skipping = false
		s.rcptCount = 0
		return nil
	case Close:
		s.phase = Closed
		s.pendingEvent = 0
		return nil
	case Misc:
		return s.acceptReserved(msg)
	case Shutdown, ConnectionFail, SetSymbolList:
		return s.acceptReserved(msg)
	default:
		return &UnexpectedMessage{Phase: s.phase, Got: msg}
	}
}

// acceptReserved handles the reserved-tag types (Shutdown, ConnectionFail,
// SetSymbolList, and the Misc fallback) the same way: tolerated and logged
// only if WithTolerateMisc was set, rejected otherwise. None of these are
// emitted by Sendmail or Postfix in practice, but a filter in front of some
// other MTA may see one.
func (s *Session) acceptReserved(msg Message) error {
	if s.tolerateMisc {
		LogWarning("tolerating reserved message with tag %q in phase %s", msg.Tag(), s.phase)
		return nil
	}
	return &UnexpectedMessage{Phase: s.phase, Got: msg}
}

// acceptEvent is the shared engine behind every inbound event case: it
// checks the phase-derived legality precondition, checks the event was not
// opted out of during negotiation, records the tag as owing a response, and
// advances phase.
func (s *Session) acceptEvent(msg Message, tag byte, noSendFlag ProtocolFlags, nextPhase Phase, legal bool) error {
	if !legal {
		return &UnexpectedMessage{Phase: s.phase, Got: msg}
	}
	if noSendFlag != 0 && s.protocol&noSendFlag != 0 {
		return &UnexpectedMessage{Phase: s.phase, Got: msg}
	}
	s.pendingEvent = tag
	s.phase = nextPhase
	return nil
}

// FeedOutbound validates and applies one filter -> MTA message (a response
// or a modification). It returns ErrNotNegotiated if negotiation has not
// completed, or *UnexpectedMessage if msg is not legal given the currently
// pending event, phase, or negotiated flags.
func (s *Session) FeedOutbound(msg Message) error {
	if s.phase == PreNegotiate {
		return ErrNotNegotiated{}
	}
	switch msg.(type) {
	case Skip:
		if s.phase != BodyPhase || s.protocol&ProtocolSkip == 0 || s.pendingEvent != tagBody {
			return &UnexpectedMessage{Phase: s.phase, Got: msg}
		}
		s.skipping = true
		s.pendingEvent = 0
		return nil
	case Continue, Reject, Discard, Accept, TemporaryFailure, ReplyCode:
		return s.acceptResponse(msg)

	case AddHeader:
		return s.acceptModification(msg, ActionAddHeader)
	case ChangeHeader:
		return s.acceptModification(msg, ActionChangeHeader)
	case InsertHeader:
		return s.acceptModification(msg, ActionAddHeader)
	case ChangeSender:
		return s.acceptModification(msg, ActionChangeFrom)
	case AddRecipient:
		return s.acceptModification(msg, ActionAddRcpt)
	case AddRecipientPar:
		return s.acceptModification(msg, ActionAddRcptWithArgs)
	case RemoveRecipient:
		return s.acceptModification(msg, ActionDelRcpt)
	case ReplaceBody:
		return s.acceptModification(msg, ActionChangeBody)
	case Progress:
		if s.phase != AwaitingEom {
			return &UnexpectedMessage{Phase: s.phase, Got: msg}
		}
		return nil
	case Quarantine:
		return s.acceptModification(msg, ActionQuarantine)
	default:
		return &UnexpectedMessage{Phase: s.phase, Got: msg}
	}
}

// acceptResponse handles every response-family message except Skip: it
// requires a response to actually be owed, that no NR_* bit suppressed it,
// clears the obligation, and - only when the response answers EndOfMessage
// - returns the session to Greeted for the next transaction.
func (s *Session) acceptResponse(msg Message) error {
	if s.pendingEvent == 0 {
		return &UnexpectedMessage{Phase: s.phase, Got: msg}
	}
	if nr, ok := noReplyFlagFor(s.pendingEvent); ok && s.protocol&nr != 0 {
		return &UnexpectedMessage{Phase: s.phase, Got: msg}
	}
	wasEom := s.pendingEvent == tagEndOfMessage
	s.pendingEvent = 0
	if wasEom {
		s.phase = Greeted
		s.rcptCount = 0
		s.skipping = false
	}
	return nil
}

// acceptModification checks that a modification message is sent within the
// end-of-message window and that its required ActionFlags bit was granted
// during negotiation.
func (s *Session) acceptModification(msg Message, required ActionFlags) error {
	if s.phase != AwaitingEom {
		return &UnexpectedMessage{Phase: s.phase, Got: msg}
	}
	if s.actions&required == 0 {
		return &UnexpectedMessage{Phase: s.phase, Got: msg}
	}
	return nil
}

// noReplyFlagFor maps a pending event's tag to the ProtocolFlags bit that,
// if negotiated, means the MTA does not expect any response for that
// event at all.
func noReplyFlagFor(tag byte) (ProtocolFlags, bool) {
	switch tag {
	case tagConnect:
		return ProtocolNoConnReply, true
	case tagHelo:
		return ProtocolNoHeloReply, true
	case tagEnvelopeFrom:
		return ProtocolNoMailReply, true
	case tagEnvelopeRecipient:
		return ProtocolNoRcptReply, true
	case tagData:
		return ProtocolNoDataReply, true
	case tagHeader:
		return ProtocolNoHeaderReply, true
	case tagEndOfHeaders:
		return ProtocolNoEOHReply, true
	case tagBody:
		return ProtocolNoBodyReply, true
	case tagUnknown:
		return ProtocolNoUnknownReply, true
	default:
		return 0, false
	}
}

func (s *Session) handleNegotiate(m Negotiate) error {
	if s.phase != PreNegotiate {
		return &UnexpectedMessage{Phase: s.phase, Got: m}
	}
	var version uint32
	var actions ActionFlags
	var protocol ProtocolFlags
	var err error
	if s.negotiationCallback != nil {
		version, actions, protocol, err = s.negotiationCallback(m.Version, s.maxVersion, m.Actions, s.desiredActions, m.Protocol, s.desiredProtocol)
	} else {
		version = m.Version
		if s.maxVersion < version {
			version = s.maxVersion
		}
		actions = ActionFlags(uint32(m.Actions) & uint32(s.desiredActions))
		protocol = ProtocolFlags(uint32(m.Protocol) & uint32(s.desiredProtocol))
	}
	if err != nil {
		return &NegotiationError{Reason: err.Error()}
	}
	if version < 2 {
		return &NegotiationError{Reason: "no protocol version both sides support"}
	}
	s.version = version
	s.actions = actions
	s.protocol = protocol
	s.phase = Negotiated
	s.negotiateReply = Negotiate{
		Version:       version,
		Actions:       actions,
		Protocol:      protocol,
		MacroRequests: s.macroRequests,
	}
	return nil
}
