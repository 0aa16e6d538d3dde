package milter

import (
	"github.com/sansmilter/protocol/internal/wire"
)

// Connect carries the MTA's view of the client connection that triggered
// this session: hostname from reverse DNS (MTA-supplied, may be
// "[UNKNOWN]"), the address family, and - unless the family is
// ConnectUnknown - the port and literal address.
type Connect struct {
	Hostname      string
	AddressFamily ConnectFamily
	Port          uint16
	Address       string
}

func (Connect) Tag() byte      { return tagConnect }
func (Connect) Family() Family { return FamilyEvent }
func (Connect) sealedMessage() {}

func parseConnect(payload []byte) (Connect, error) {
	hostname, rest, err := wire.ReadCStringStrict(payload)
	if err != nil {
		return Connect{}, err
	}
	if len(rest) == 0 {
		return Connect{}, wire.NewFramingError("connect: missing address family byte")
	}
	family := ConnectFamily(rest[0])
	rest = rest[1:]
	c := Connect{Hostname: hostname, AddressFamily: family}
	switch family {
	case ConnectUnknown:
		if len(rest) != 0 {
			return Connect{}, wire.NewFramingError("connect: trailing bytes after unknown family")
		}
	case ConnectInet, ConnectInet6, ConnectUnix:
		port, err := wire.ReadUint16(rest)
		if err != nil {
			return Connect{}, err
		}
		rest = rest[2:]
		addr, rest, err := wire.ReadCStringStrict(rest)
		if err != nil {
			return Connect{}, err
		}
		if len(rest) != 0 {
			return Connect{}, wire.NewFramingError("connect: trailing bytes after address")
		}
		c.Port = port
		c.Address = addr
	default:
		return Connect{}, wire.NewFramingError("connect: unknown address family")
	}
	return c, nil
}

func appendConnect(dst []byte, c Connect) []byte {
	dst = wire.AppendCString(dst, c.Hostname)
	dst = append(dst, byte(c.AddressFamily))
	if c.AddressFamily != ConnectUnknown {
		dst = wire.AppendUint16(dst, c.Port)
		dst = wire.AppendCString(dst, c.Address)
	}
	return dst
}

// Helo carries the argument of the SMTP HELO/EHLO command. May be sent
// more than once per session (e.g. after STARTTLS).
type Helo struct {
	Hostname string
}

func (Helo) Tag() byte      { return tagHelo }
func (Helo) Family() Family { return FamilyEvent }
func (Helo) sealedMessage() {}

func parseHelo(payload []byte) (Helo, error) {
	hostname, rest, err := wire.ReadCStringStrict(payload)
	if err != nil {
		return Helo{}, err
	}
	if len(rest) != 0 {
		return Helo{}, wire.NewFramingError("helo: trailing bytes")
	}
	return Helo{Hostname: hostname}, nil
}

func appendHelo(dst []byte, h Helo) []byte {
	return wire.AppendCString(dst, h.Hostname)
}

// EnvelopeFrom carries the SMTP MAIL FROM envelope sender address
// (including the surrounding angle brackets) plus any trailing ESMTP
// parameters, one per Args entry.
type EnvelopeFrom struct {
	Sender string
	Args   []string
}

func (EnvelopeFrom) Tag() byte      { return tagEnvelopeFrom }
func (EnvelopeFrom) Family() Family { return FamilyEvent }
func (EnvelopeFrom) sealedMessage() {}

func parseEnvelopeFrom(payload []byte) (EnvelopeFrom, error) {
	sender, rest, err := wire.ReadCStringStrict(payload)
	if err != nil {
		return EnvelopeFrom{}, err
	}
	args, err := wire.DecodeCStringTable(rest)
	if err != nil {
		return EnvelopeFrom{}, err
	}
	return EnvelopeFrom{Sender: sender, Args: args}, nil
}

func appendEnvelopeFrom(dst []byte, e EnvelopeFrom) []byte {
	dst = wire.AppendCString(dst, e.Sender)
	for _, a := range e.Args {
		dst = wire.AppendCString(dst, a)
	}
	return dst
}

// EnvelopeRecipient carries one SMTP RCPT TO envelope recipient address
// (including angle brackets) plus any trailing ESMTP parameters. The MTA
// sends one of these per recipient; Session.rcptCount tracks how many have
// been seen in the current transaction.
type EnvelopeRecipient struct {
	Recipient string
	Args      []string
}

func (EnvelopeRecipient) Tag() byte      { return tagEnvelopeRecipient }
func (EnvelopeRecipient) Family() Family { return FamilyEvent }
func (EnvelopeRecipient) sealedMessage() {}

func parseEnvelopeRecipient(payload []byte) (EnvelopeRecipient, error) {
	recipient, rest, err := wire.ReadCStringStrict(payload)
	if err != nil {
		return EnvelopeRecipient{}, err
	}
	args, err := wire.DecodeCStringTable(rest)
	if err != nil {
		return EnvelopeRecipient{}, err
	}
	return EnvelopeRecipient{Recipient: recipient, Args: args}, nil
}

func appendEnvelopeRecipient(dst []byte, e EnvelopeRecipient) []byte {
	dst = wire.AppendCString(dst, e.Recipient)
	for _, a := range e.Args {
		dst = wire.AppendCString(dst, a)
	}
	return dst
}

// Data marks the start of the SMTP DATA phase. It carries no payload.
type Data struct{}

func (Data) Tag() byte      { return tagData }
func (Data) Family() Family { return FamilyEvent }
func (Data) sealedMessage() {}

func parseData(payload []byte) (Data, error) {
	if len(payload) != 0 {
		return Data{}, wire.NewFramingError("data: unexpected payload")
	}
	return Data{}, nil
}

func appendData(dst []byte, _ Data) []byte { return dst }

// Unknown carries an SMTP command line the MTA did not recognize, verbatim.
type Unknown struct {
	Line string
}

func (Unknown) Tag() byte      { return tagUnknown }
func (Unknown) Family() Family { return FamilyEvent }
func (Unknown) sealedMessage() {}

func parseUnknown(payload []byte) (Unknown, error) {
	line, rest, err := wire.ReadCStringStrict(payload)
	if err != nil {
		return Unknown{}, err
	}
	if len(rest) != 0 {
		return Unknown{}, wire.NewFramingError("unknown: trailing bytes")
	}
	return Unknown{Line: line}, nil
}

func appendUnknown(dst []byte, u Unknown) []byte {
	return wire.AppendCString(dst, u.Line)
}

// Header carries one message header field name/value pair.
type Header struct {
	Name  string
	Value string
}

func (Header) Tag() byte      { return tagHeader }
func (Header) Family() Family { return FamilyEvent }
func (Header) sealedMessage() {}

func parseHeader(payload []byte) (Header, error) {
	fields, err := wire.DecodeCStringTable(payload)
	if err != nil {
		return Header{}, err
	}
	if len(fields) != 2 {
		return Header{}, wire.NewFramingError("header: expected 2 strings")
	}
	return Header{Name: fields[0], Value: fields[1]}, nil
}

func appendHeader(dst []byte, h Header) []byte {
	dst = wire.AppendCString(dst, h.Name)
	dst = wire.AppendCString(dst, h.Value)
	return dst
}

// EndOfHeaders marks the end of the message header block. No payload.
type EndOfHeaders struct{}

func (EndOfHeaders) Tag() byte      { return tagEndOfHeaders }
func (EndOfHeaders) Family() Family { return FamilyEvent }
func (EndOfHeaders) sealedMessage() {}

func parseEndOfHeaders(payload []byte) (EndOfHeaders, error) {
	if len(payload) != 0 {
		return EndOfHeaders{}, wire.NewFramingError("end_of_headers: unexpected payload")
	}
	return EndOfHeaders{}, nil
}

func appendEndOfHeaders(dst []byte, _ EndOfHeaders) []byte { return dst }

// Body carries one raw, unterminated chunk of the message body. Length is
// implicit in the enclosing frame.
type Body struct {
	Chunk []byte
}

func (Body) Tag() byte      { return tagBody }
func (Body) Family() Family { return FamilyEvent }
func (Body) sealedMessage() {}

func parseBody(payload []byte) (Body, error) {
	chunk := make([]byte, len(payload))
	copy(chunk, payload)
	return Body{Chunk: chunk}, nil
}

func appendBody(dst []byte, b Body) []byte {
	return append(dst, b.Chunk...)
}

// EndOfMessage carries the final (possibly empty) raw body chunk and marks
// the transition into the modification window. See DESIGN.md for how this
// interacts with a preceding Skip response (spec.md's open question).
type EndOfMessage struct {
	FinalChunk []byte
}

func (EndOfMessage) Tag() byte      { return tagEndOfMessage }
func (EndOfMessage) Family() Family { return FamilyEvent }
func (EndOfMessage) sealedMessage() {}

func parseEndOfMessage(payload []byte) (EndOfMessage, error) {
	chunk := make([]byte, len(payload))
	copy(chunk, payload)
	return EndOfMessage{FinalChunk: chunk}, nil
}

func appendEndOfMessage(dst []byte, e EndOfMessage) []byte {
	return append(dst, e.FinalChunk...)
}

// Abort cancels the current transaction; the session returns to Greeted
// without expecting a response. No payload.
type Abort struct{}

func (Abort) Tag() byte      { return tagAbort }
func (Abort) Family() Family { return FamilyEvent }
func (Abort) sealedMessage() {}

func parseAbort(payload []byte) (Abort, error) {
	if len(payload) != 0 {
		return Abort{}, wire.NewFramingError("abort: unexpected payload")
	}
	return Abort{}, nil
}

func appendAbort(dst []byte, _ Abort) []byte { return dst }

// Close ends the session. No payload, no response expected.
type Close struct{}

func (Close) Tag() byte      { return tagClose }
func (Close) Family() Family { return FamilyEvent }
func (Close) sealedMessage() {}

func parseClose(payload []byte) (Close, error) {
	if len(payload) != 0 {
		return Close{}, wire.NewFramingError("close: unexpected payload")
	}
	return Close{}, nil
}

func appendClose(dst []byte, _ Close) []byte { return dst }
