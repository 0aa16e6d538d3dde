package milter

import "github.com/sansmilter/protocol/internal/wire"

// Shutdown asks the filter to close down gracefully; no further events
// follow. Reserved in the upstream protocol and not emitted by either
// Sendmail or Postfix in practice, but this package decodes it rather than
// treating it as unknown, since the tag is formally assigned.
type Shutdown struct{}

func (Shutdown) Tag() byte      { return tagShutdown }
func (Shutdown) Family() Family { return FamilyMisc }
func (Shutdown) sealedMessage() {}

// ConnectionFail reports that the MTA's connection to a downstream peer
// failed. Reserved, not emitted by Sendmail or Postfix.
type ConnectionFail struct{}

func (ConnectionFail) Tag() byte      { return tagConnectionFail }
func (ConnectionFail) Family() Family { return FamilyMisc }
func (ConnectionFail) sealedMessage() {}

// SetSymbolList carries one MacroStage's worth of macro names the MTA
// intends to send, outside of negotiation. Reserved, not emitted by
// Sendmail or Postfix; ActionSetSymList exists for filters that advertise
// support without ever receiving one in the wild.
type SetSymbolList struct {
	Stage MacroStage
	Names []string
}

func (SetSymbolList) Tag() byte      { return tagSetSymbolList }
func (SetSymbolList) Family() Family { return FamilyMisc }
func (SetSymbolList) sealedMessage() {}

// Misc wraps a message tag this package does not assign a dedicated type
// to. The codec falls back to Misc rather than rejecting the frame, so
// that a filter in front of a newer, chattier MTA than this package knows
// about degrades to "unhandled" instead of "connection killed".
type Misc struct {
	MsgTag byte
	Data   []byte
}

func (m Misc) Tag() byte    { return m.MsgTag }
func (Misc) Family() Family { return FamilyMisc }
func (Misc) sealedMessage() {}

func parseShutdown(payload []byte) (Shutdown, error) {
	if len(payload) != 0 {
		return Shutdown{}, wire.NewFramingError("shutdown: unexpected payload")
	}
	return Shutdown{}, nil
}

func appendShutdown(dst []byte, _ Shutdown) []byte { return dst }

func parseConnectionFail(payload []byte) (ConnectionFail, error) {
	if len(payload) != 0 {
		return ConnectionFail{}, wire.NewFramingError("connection_fail: unexpected payload")
	}
	return ConnectionFail{}, nil
}

func appendConnectionFail(dst []byte, _ ConnectionFail) []byte { return dst }

func parseSetSymbolList(payload []byte) (SetSymbolList, error) {
	stage, err := wire.ReadUint32(payload)
	if err != nil {
		return SetSymbolList{}, err
	}
	names, err := wire.DecodeCStringTable(payload[4:])
	if err != nil {
		return SetSymbolList{}, err
	}
	return SetSymbolList{Stage: MacroStage(stage), Names: names}, nil
}

func appendSetSymbolList(dst []byte, s SetSymbolList) []byte {
	dst = wire.AppendUint32(dst, uint32(s.Stage))
	for _, n := range s.Names {
		dst = wire.AppendCString(dst, n)
	}
	return dst
}
