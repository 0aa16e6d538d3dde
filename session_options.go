package milter

// SessionOption configures a Session at construction time.
type SessionOption func(*Session)

// WithDesiredActions sets the ActionFlags this session's filter side wants
// to use. The session's final negotiated ActionFlags is the intersection
// of this value and whatever the MTA offers (see handleNegotiate); a
// filter that does not call this negotiates no modification actions at
// all, mirroring the teacher library's "you need to specify this" stance.
func WithDesiredActions(actions ActionFlags) SessionOption {
	return func(s *Session) {
		s.desiredActions = actions
	}
}

// WithDesiredProtocol sets the ProtocolFlags this session's filter side
// wants. As with WithDesiredActions, the negotiated ProtocolFlags is the
// intersection with the MTA's offer.
func WithDesiredProtocol(protocol ProtocolFlags) SessionOption {
	return func(s *Session) {
		s.desiredProtocol = protocol
	}
}

// WithMaximumVersion caps the milter protocol version this session will
// accept during negotiation. Defaults to MaxSupportedVersion.
func WithMaximumVersion(version uint32) SessionOption {
	return func(s *Session) {
		s.maxVersion = version
	}
}

// WithMacroRequest adds one MacroStage's requested macro names to the
// Negotiate reply this session will compute. Repeated calls for the same
// stage overwrite the previous request for that stage.
func WithMacroRequest(stage MacroStage, names []string) SessionOption {
	return func(s *Session) {
		for i, req := range s.macroRequests {
			if req.Stage == stage {
				s.macroRequests[i].Names = names
				return
			}
		}
		s.macroRequests = append(s.macroRequests, MacroRequest{Stage: stage, Names: names})
	}
}

// WithNegotiationCallback overrides the default negotiation arithmetic
// (flag intersection, minimum version) with a caller-supplied function.
// As in the teacher library, misusing this can produce a session that
// violates the protocol; the default is correct for nearly every filter.
func WithNegotiationCallback(cb NegotiationCallbackFunc) SessionOption {
	return func(s *Session) {
		s.negotiationCallback = cb
	}
}

// WithTolerateMisc makes FeedInbound accept Misc messages (tags this
// package does not assign a dedicated type to) and the reserved
// Shutdown/ConnectionFail/SetSymbolList types (tags 4/f/l) instead of
// rejecting them as UnexpectedMessage, per spec.md's open question on
// those tags.
func WithTolerateMisc() SessionOption {
	return func(s *Session) {
		s.tolerateMisc = true
	}
}
