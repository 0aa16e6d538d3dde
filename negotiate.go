package milter

import (
	"strings"

	"github.com/sansmilter/protocol/internal/wire"
)

// MacroRequest pairs a MacroStage with the macro names the sender wants to
// see at that stage. It is the decoded form of one entry in a Negotiate's
// optional macro table.
type MacroRequest struct {
	Stage MacroStage
	Names []string
}

// Negotiate is exchanged once at the start of a session, in both
// directions: the MTA sends its desired version/ActionFlags/ProtocolFlags,
// the filter answers with its own, and Session.FeedInbound/FeedOutbound
// compute the intersection (see spec §5.2). A filter's Negotiate may also
// carry a macro table asking the MTA to limit which macros it sends at
// each stage.
type Negotiate struct {
	Version       uint32
	Actions       ActionFlags
	Protocol      ProtocolFlags
	MacroRequests []MacroRequest
}

func (Negotiate) Tag() byte      { return tagNegotiate }
func (Negotiate) Family() Family { return FamilySetup }
func (Negotiate) sealedMessage() {}

func parseNegotiate(payload []byte) (Negotiate, error) {
	if len(payload) < 12 {
		return Negotiate{}, wire.NewFramingError("negotiate: payload shorter than 12 bytes")
	}
	version, _ := wire.ReadUint32(payload[0:4])
	actions, _ := wire.ReadUint32(payload[4:8])
	protocol, _ := wire.ReadUint32(payload[8:12])
	n := Negotiate{
		Version:  version,
		Actions:  ActionFlags(actions),
		Protocol: ProtocolFlags(protocol),
	}
	offset := 12
	for offset < len(payload) {
		stage, err := wire.ReadUint32(payload[offset:])
		if err != nil {
			return Negotiate{}, err
		}
		offset += 4
		names, rest, err := wire.ReadCStringStrict(payload[offset:])
		if err != nil {
			return Negotiate{}, err
		}
		offset = len(payload) - len(rest)
		n.MacroRequests = append(n.MacroRequests, MacroRequest{
			Stage: MacroStage(stage),
			Names: splitMacroNames(names),
		})
	}
	return n, nil
}

func appendNegotiate(dst []byte, n Negotiate) []byte {
	dst = wire.AppendUint32(dst, n.Version)
	dst = wire.AppendUint32(dst, uint32(n.Actions))
	dst = wire.AppendUint32(dst, uint32(n.Protocol))
	for _, req := range n.MacroRequests {
		dst = wire.AppendUint32(dst, uint32(req.Stage))
		dst = wire.AppendCString(dst, strings.Join(req.Names, " "))
	}
	return dst
}

// splitMacroNames splits a macro table entry's space/comma separated macro
// name list and drops empty fields, the way an MTA's own parser does when
// reading a filter-supplied macro request.
func splitMacroNames(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
