package milter

import (
	"strconv"
	"strings"
)

// ActionFlags is a bit-field of the modifications a filter may perform
// during a session. The MTA advertises which of these it supports during
// negotiation; the session keeps only the bits both the MTA offered and the
// filter asked for, and a bit the MTA did not offer is dropped rather than
// failing negotiation (see [Session.FeedInbound]).
//
// Unknown bits (set by a newer MTA/filter than this package knows about)
// are preserved across decode/encode: ActionFlags is just a uint32, so
// there is nothing to strip.
type ActionFlags uint32

const (
	ActionAddHeader     ActionFlags = 1 << 0 // SMFIF_ADDHDRS
	ActionChangeBody    ActionFlags = 1 << 1 // SMFIF_CHGBODY / SMFIF_MODBODY
	ActionAddRcpt       ActionFlags = 1 << 2 // SMFIF_ADDRCPT
	ActionDelRcpt       ActionFlags = 1 << 3 // SMFIF_DELRCPT
	ActionChangeHeader  ActionFlags = 1 << 4 // SMFIF_CHGHDRS
	ActionQuarantine    ActionFlags = 1 << 5 // SMFIF_QUARANTINE
	ActionChangeFrom    ActionFlags = 1 << 6 // SMFIF_CHGFROM [v6]
	ActionAddRcptWithArgs ActionFlags = 1 << 7 // SMFIF_ADDRCPT_PAR [v6]
	ActionSetSymList    ActionFlags = 1 << 8 // SMFIF_SETSYMLIST [v6]
)

var actionFlagNames = []struct {
	bit  ActionFlags
	name string
}{
	{ActionAddHeader, "add_header"},
	{ActionChangeBody, "change_body"},
	{ActionAddRcpt, "add_rcpt"},
	{ActionDelRcpt, "del_rcpt"},
	{ActionChangeHeader, "change_header"},
	{ActionQuarantine, "quarantine"},
	{ActionChangeFrom, "change_from"},
	{ActionAddRcptWithArgs, "add_rcpt_par"},
	{ActionSetSymList, "set_sym_list"},
}

// String renders f as a pipe-joined list of set flag names, e.g.
// "add_header|change_body". Bits this package does not know about are
// rendered as "unknown bit N". An empty ActionFlags renders as "none".
func (f ActionFlags) String() string {
	return bitfieldString(uint32(f), func(v uint32) string {
		for _, e := range actionFlagNames {
			if uint32(e.bit) == v {
				return e.name
			}
		}
		return ""
	})
}

// Set decomposes f into the individual flags that are set, in bit order.
// Unrecognized bits are omitted; use uint32(f) if you need to inspect them.
func (f ActionFlags) Set() []ActionFlags {
	var out []ActionFlags
	for _, e := range actionFlagNames {
		if f&e.bit != 0 {
			out = append(out, e.bit)
		}
	}
	return out
}

// UnpackActionFlags ORs a slice of flags together into a single ActionFlags
// value; it is the inverse of [ActionFlags.Set].
func UnpackActionFlags(flags []ActionFlags) ActionFlags {
	var f ActionFlags
	for _, v := range flags {
		f |= v
	}
	return f
}

// ProtocolFlags is a bit-field of events a filter opts out of, plus a
// handful of feature bits (Skip support, rejected-recipient pass-through,
// per-stage no-response-required, and header leading-space preservation).
// There is no reply-code bit; ReplyCode responses are not gated by
// negotiation.
//
// As with [ActionFlags], unknown bits survive decode/encode unmodified.
type ProtocolFlags uint32

const (
	ProtocolNoConnect      ProtocolFlags = 1 << 0  // MTA will not send Connect events. SMFIP_NOCONNECT
	ProtocolNoHelo         ProtocolFlags = 1 << 1  // MTA will not send Helo events. SMFIP_NOHELO
	ProtocolNoMailFrom     ProtocolFlags = 1 << 2  // MTA will not send EnvelopeFrom events. SMFIP_NOMAIL
	ProtocolNoRcptTo       ProtocolFlags = 1 << 3  // MTA will not send EnvelopeRecipient events. SMFIP_NORCPT
	ProtocolNoBody         ProtocolFlags = 1 << 4  // MTA will not send Body events. SMFIP_NOBODY
	ProtocolNoHeaders      ProtocolFlags = 1 << 5  // MTA will not send Header events. SMFIP_NOHDRS
	ProtocolNoEOH          ProtocolFlags = 1 << 6  // MTA will not send EndOfHeaders events. SMFIP_NOEOH
	ProtocolNoHeaderReply  ProtocolFlags = 1 << 7  // filter does not answer Header events. SMFIP_NR_HDR
	ProtocolNoUnknown      ProtocolFlags = 1 << 8  // MTA will not send Unknown events. SMFIP_NOUNKNOWN
	ProtocolNoData         ProtocolFlags = 1 << 9  // MTA will not send Data events. SMFIP_NODATA
	ProtocolSkip           ProtocolFlags = 1 << 10 // MTA understands the Skip response. SMFIP_SKIP [v6]
	ProtocolRcptRej        ProtocolFlags = 1 << 11 // filter wants rejected recipients passed through anyway. SMFIP_RCPT_REJ [v6]
	ProtocolNoConnReply    ProtocolFlags = 1 << 12 // filter does not answer Connect events. SMFIP_NR_CONN [v6]
	ProtocolNoHeloReply    ProtocolFlags = 1 << 13 // filter does not answer Helo events. SMFIP_NR_HELO [v6]
	ProtocolNoMailReply    ProtocolFlags = 1 << 14 // filter does not answer EnvelopeFrom events. SMFIP_NR_MAIL [v6]
	ProtocolNoRcptReply    ProtocolFlags = 1 << 15 // filter does not answer EnvelopeRecipient events. SMFIP_NR_RCPT [v6]
	ProtocolNoDataReply    ProtocolFlags = 1 << 16 // filter does not answer Data events. SMFIP_NR_DATA [v6]
	ProtocolNoUnknownReply ProtocolFlags = 1 << 17 // filter does not answer Unknown events. SMFIP_NR_UNKN [v6]
	ProtocolNoEOHReply     ProtocolFlags = 1 << 18 // filter does not answer EndOfHeaders events. SMFIP_NR_EOH [v6]
	ProtocolNoBodyReply    ProtocolFlags = 1 << 19 // filter does not answer Body events. SMFIP_NR_BODY [v6]
	ProtocolHeaderLeadingSpace ProtocolFlags = 1 << 20 // MTA should not swallow a leading space in header values. SMFIP_HDR_LEADSPC [v6]
)

// ProtocolNoReplies combines every "no response expected" bit. It is a
// convenience for filters that only ever decide at EndOfMessage.
const ProtocolNoReplies = ProtocolNoHeaderReply | ProtocolNoConnReply | ProtocolNoHeloReply |
	ProtocolNoMailReply | ProtocolNoRcptReply | ProtocolNoDataReply | ProtocolNoUnknownReply |
	ProtocolNoEOHReply | ProtocolNoBodyReply

var protocolFlagNames = []struct {
	bit  ProtocolFlags
	name string
}{
	{ProtocolNoConnect, "no_connect"},
	{ProtocolNoHelo, "no_helo"},
	{ProtocolNoMailFrom, "no_mail_from"},
	{ProtocolNoRcptTo, "no_rcpt_to"},
	{ProtocolNoBody, "no_body"},
	{ProtocolNoHeaders, "no_headers"},
	{ProtocolNoEOH, "no_eoh"},
	{ProtocolNoHeaderReply, "no_header_reply"},
	{ProtocolNoUnknown, "no_unknown"},
	{ProtocolNoData, "no_data"},
	{ProtocolSkip, "skip"},
	{ProtocolRcptRej, "rcpt_rej"},
	{ProtocolNoConnReply, "no_conn_reply"},
	{ProtocolNoHeloReply, "no_helo_reply"},
	{ProtocolNoMailReply, "no_mail_reply"},
	{ProtocolNoRcptReply, "no_rcpt_reply"},
	{ProtocolNoDataReply, "no_data_reply"},
	{ProtocolNoUnknownReply, "no_unknown_reply"},
	{ProtocolNoEOHReply, "no_eoh_reply"},
	{ProtocolNoBodyReply, "no_body_reply"},
	{ProtocolHeaderLeadingSpace, "header_leading_space"},
}

func (f ProtocolFlags) String() string {
	return bitfieldString(uint32(f), func(v uint32) string {
		for _, e := range protocolFlagNames {
			if uint32(e.bit) == v {
				return e.name
			}
		}
		return ""
	})
}

func (f ProtocolFlags) Set() []ProtocolFlags {
	var out []ProtocolFlags
	for _, e := range protocolFlagNames {
		if f&e.bit != 0 {
			out = append(out, e.bit)
		}
	}
	return out
}

func UnpackProtocolFlags(flags []ProtocolFlags) ProtocolFlags {
	var f ProtocolFlags
	for _, v := range flags {
		f |= v
	}
	return f
}

// bitfieldString is the shared engine behind ActionFlags.String and
// ProtocolFlags.String: walk every set bit low to high, name it via lookup,
// and fall back to "unknown bit N" for anything lookup does not recognize.
func bitfieldString(v uint32, lookup func(uint32) string) string {
	if v == 0 {
		return "none"
	}
	var parts []string
	for bit := uint32(0); bit < 32; bit++ {
		mask := uint32(1) << bit
		if v&mask == 0 {
			continue
		}
		if name := lookup(mask); name != "" {
			parts = append(parts, name)
		} else {
			parts = append(parts, "unknown bit "+strconv.Itoa(int(bit)))
		}
	}
	return strings.Join(parts, "|")
}
