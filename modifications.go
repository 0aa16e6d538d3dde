package milter

import (
	"github.com/sansmilter/protocol/internal/wire"
	"github.com/sansmilter/protocol/milterutil"
)

// AddHeader appends a new header field at the end of the message. Requires
// ActionAddHeader.
type AddHeader struct {
	Name  string
	Value string
}

func (AddHeader) Tag() byte      { return tagAddHeader }
func (AddHeader) Family() Family { return FamilyModification }
func (AddHeader) sealedMessage() {}

// NewAddHeader builds an AddHeader from a raw UTF-8 value: value is RFC
// 2047 encoded-word escaped if it is not pure ASCII and CRLF-canonicalized
// to bare LF, the same pipeline modifier.go's AddHeader applies before
// putting a header value on the wire.
func NewAddHeader(name, value string) (AddHeader, error) {
	encoded, err := EncodeHeaderText(value)
	if err != nil {
		return AddHeader{}, err
	}
	return AddHeader{Name: name, Value: milterutil.NormalizeToLF(encoded)}, nil
}

// ChangeHeader replaces (or, with an empty Value, deletes) the Index'th
// occurrence of a header field named Name, counting from 1 in header order.
// Requires ActionChangeHeader.
type ChangeHeader struct {
	Index uint32
	Name  string
	Value string
}

func (ChangeHeader) Tag() byte      { return tagChangeHeader }
func (ChangeHeader) Family() Family { return FamilyModification }
func (ChangeHeader) sealedMessage() {}

// NewChangeHeader builds a ChangeHeader the same way NewAddHeader does,
// with an empty value deleting the header (see ChangeHeader's doc).
func NewChangeHeader(index uint32, name, value string) (ChangeHeader, error) {
	if value == "" {
		return ChangeHeader{Index: index, Name: name}, nil
	}
	encoded, err := EncodeHeaderText(value)
	if err != nil {
		return ChangeHeader{}, err
	}
	return ChangeHeader{Index: index, Name: name, Value: milterutil.NormalizeToLF(encoded)}, nil
}

// InsertHeader inserts a header field at position Index (0 means "first"),
// counting from 0 in header order. Requires ActionAddHeader [v6]; MTAs that
// only understand v2 negotiate without this and a filter falls back to
// AddHeader.
type InsertHeader struct {
	Index uint32
	Name  string
	Value string
}

func (InsertHeader) Tag() byte      { return tagInsertHeader }
func (InsertHeader) Family() Family { return FamilyModification }
func (InsertHeader) sealedMessage() {}

// NewInsertHeader builds an InsertHeader the same way NewAddHeader does.
func NewInsertHeader(index uint32, name, value string) (InsertHeader, error) {
	encoded, err := EncodeHeaderText(value)
	if err != nil {
		return InsertHeader{}, err
	}
	return InsertHeader{Index: index, Name: name, Value: milterutil.NormalizeToLF(encoded)}, nil
}

// ChangeSender replaces the envelope sender address, and optionally the
// ESMTP MAIL FROM parameters alongside it. Args is empty when the original
// parameters should be left alone. Requires ActionChangeFrom [v6].
type ChangeSender struct {
	Sender string
	Args   string
}

func (ChangeSender) Tag() byte      { return tagChangeSender }
func (ChangeSender) Family() Family { return FamilyModification }
func (ChangeSender) sealedMessage() {}

// AddRecipient adds a new envelope recipient with no ESMTP parameters.
// Requires ActionAddRcpt.
type AddRecipient struct {
	Recipient string
}

func (AddRecipient) Tag() byte      { return tagAddRecipient }
func (AddRecipient) Family() Family { return FamilyModification }
func (AddRecipient) sealedMessage() {}

// AddRecipientPar adds a new envelope recipient together with ESMTP
// parameters. Requires ActionAddRcptWithArgs [v6]; a filter targeting v2
// MTAs falls back to AddRecipient and drops Args.
type AddRecipientPar struct {
	Recipient string
	Args      string
}

func (AddRecipientPar) Tag() byte      { return tagAddRecipientPar }
func (AddRecipientPar) Family() Family { return FamilyModification }
func (AddRecipientPar) sealedMessage() {}

// RemoveRecipient removes a recipient previously accepted in this
// transaction, verbatim as it appeared in the matching EnvelopeRecipient.
// Requires ActionDelRcpt.
type RemoveRecipient struct {
	Recipient string
}

func (RemoveRecipient) Tag() byte      { return tagRemoveRecipient }
func (RemoveRecipient) Family() Family { return FamilyModification }
func (RemoveRecipient) sealedMessage() {}

// ReplaceBody replaces a chunk of the message body. Sent one or more times;
// repeated sends append rather than overwrite on the MTA side. Requires
// ActionChangeBody.
type ReplaceBody struct {
	Chunk []byte
}

func (ReplaceBody) Tag() byte      { return tagReplaceBody }
func (ReplaceBody) Family() Family { return FamilyModification }
func (ReplaceBody) sealedMessage() {}

// Progress asks the MTA to reset its reply timeout without the filter
// having reached a verdict yet. No ActionFlags gate; always legal wherever
// a modification message is.
type Progress struct{}

func (Progress) Tag() byte      { return tagProgress }
func (Progress) Family() Family { return FamilyModification }
func (Progress) sealedMessage() {}

// Quarantine places the message in the MTA's quarantine queue with Reason
// attached. Requires ActionQuarantine.
type Quarantine struct {
	Reason string
}

func (Quarantine) Tag() byte      { return tagQuarantine }
func (Quarantine) Family() Family { return FamilyModification }
func (Quarantine) sealedMessage() {}

func parseAddHeader(payload []byte) (AddHeader, error) {
	fields, err := wire.DecodeCStringTable(payload)
	if err != nil {
		return AddHeader{}, err
	}
	if len(fields) != 2 {
		return AddHeader{}, wire.NewFramingError("add_header: expected 2 strings")
	}
	return AddHeader{Name: fields[0], Value: fields[1]}, nil
}

func appendAddHeader(dst []byte, a AddHeader) []byte {
	dst = wire.AppendCString(dst, a.Name)
	dst = wire.AppendCString(dst, milterutil.NormalizeToLF(a.Value))
	return dst
}

func parseChangeHeader(payload []byte) (ChangeHeader, error) {
	index, err := wire.ReadUint32(payload)
	if err != nil {
		return ChangeHeader{}, err
	}
	fields, err := wire.DecodeCStringTable(payload[4:])
	if err != nil {
		return ChangeHeader{}, err
	}
	if len(fields) != 2 {
		return ChangeHeader{}, wire.NewFramingError("change_header: expected 2 strings")
	}
	return ChangeHeader{Index: index, Name: fields[0], Value: fields[1]}, nil
}

func appendChangeHeader(dst []byte, c ChangeHeader) []byte {
	dst = wire.AppendUint32(dst, c.Index)
	dst = wire.AppendCString(dst, c.Name)
	dst = wire.AppendCString(dst, milterutil.NormalizeToLF(c.Value))
	return dst
}

func parseInsertHeader(payload []byte) (InsertHeader, error) {
	index, err := wire.ReadUint32(payload)
	if err != nil {
		return InsertHeader{}, err
	}
	fields, err := wire.DecodeCStringTable(payload[4:])
	if err != nil {
		return InsertHeader{}, err
	}
	if len(fields) != 2 {
		return InsertHeader{}, wire.NewFramingError("insert_header: expected 2 strings")
	}
	return InsertHeader{Index: index, Name: fields[0], Value: fields[1]}, nil
}

func appendInsertHeader(dst []byte, h InsertHeader) []byte {
	dst = wire.AppendUint32(dst, h.Index)
	dst = wire.AppendCString(dst, h.Name)
	dst = wire.AppendCString(dst, milterutil.NormalizeToLF(h.Value))
	return dst
}

func parseChangeSender(payload []byte) (ChangeSender, error) {
	fields, err := wire.DecodeCStringTable(payload)
	if err != nil {
		return ChangeSender{}, err
	}
	switch len(fields) {
	case 1:
		return ChangeSender{Sender: fields[0]}, nil
	case 2:
		return ChangeSender{Sender: fields[0], Args: fields[1]}, nil
	default:
		return ChangeSender{}, wire.NewFramingError("change_sender: expected 1 or 2 strings")
	}
}

func appendChangeSender(dst []byte, c ChangeSender) []byte {
	dst = wire.AppendCString(dst, c.Sender)
	if c.Args != "" {
		dst = wire.AppendCString(dst, c.Args)
	}
	return dst
}

func parseAddRecipient(payload []byte) (AddRecipient, error) {
	recipient, rest, err := wire.ReadCStringStrict(payload)
	if err != nil {
		return AddRecipient{}, err
	}
	if len(rest) != 0 {
		return AddRecipient{}, wire.NewFramingError("add_recipient: trailing bytes")
	}
	return AddRecipient{Recipient: recipient}, nil
}

func appendAddRecipient(dst []byte, a AddRecipient) []byte {
	return wire.AppendCString(dst, a.Recipient)
}

func parseAddRecipientPar(payload []byte) (AddRecipientPar, error) {
	fields, err := wire.DecodeCStringTable(payload)
	if err != nil {
		return AddRecipientPar{}, err
	}
	if len(fields) != 2 {
		return AddRecipientPar{}, wire.NewFramingError("add_recipient_par: expected 2 strings")
	}
	return AddRecipientPar{Recipient: fields[0], Args: fields[1]}, nil
}

func appendAddRecipientPar(dst []byte, a AddRecipientPar) []byte {
	dst = wire.AppendCString(dst, a.Recipient)
	dst = wire.AppendCString(dst, a.Args)
	return dst
}

func parseRemoveRecipient(payload []byte) (RemoveRecipient, error) {
	recipient, rest, err := wire.ReadCStringStrict(payload)
	if err != nil {
		return RemoveRecipient{}, err
	}
	if len(rest) != 0 {
		return RemoveRecipient{}, wire.NewFramingError("remove_recipient: trailing bytes")
	}
	return RemoveRecipient{Recipient: recipient}, nil
}

func appendRemoveRecipient(dst []byte, r RemoveRecipient) []byte {
	return wire.AppendCString(dst, r.Recipient)
}

func parseReplaceBody(payload []byte) (ReplaceBody, error) {
	chunk := make([]byte, len(payload))
	copy(chunk, payload)
	return ReplaceBody{Chunk: chunk}, nil
}

func appendReplaceBody(dst []byte, r ReplaceBody) []byte {
	return append(dst, r.Chunk...)
}

func parseProgress(payload []byte) (Progress, error) {
	if len(payload) != 0 {
		return Progress{}, wire.NewFramingError("progress: unexpected payload")
	}
	return Progress{}, nil
}

func appendProgress(dst []byte, _ Progress) []byte { return dst }

func parseQuarantine(payload []byte) (Quarantine, error) {
	reason, rest, err := wire.ReadCStringStrict(payload)
	if err != nil {
		return Quarantine{}, err
	}
	if len(rest) != 0 {
		return Quarantine{}, wire.NewFramingError("quarantine: trailing bytes")
	}
	return Quarantine{Reason: reason}, nil
}

func appendQuarantine(dst []byte, q Quarantine) []byte {
	return wire.AppendCString(dst, q.Reason)
}
