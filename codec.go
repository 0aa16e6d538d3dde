package milter

import "github.com/sansmilter/protocol/internal/wire"

// Decode parses one frame's tag and payload into a Message. An unrecognized
// tag decodes as Misc rather than failing, so that a peer slightly ahead of
// this package's protocol knowledge does not break the whole byte stream.
func Decode(tag byte, payload []byte) (Message, error) {
	switch tag {
	case tagNegotiate:
		return parseNegotiate(payload)
	case tagMacro:
		return parseMacro(payload)

	case tagConnect:
		return parseConnect(payload)
	case tagHelo:
		return parseHelo(payload)
	case tagEnvelopeFrom:
		return parseEnvelopeFrom(payload)
	case tagEnvelopeRecipient:
		return parseEnvelopeRecipient(payload)
	case tagData:
		return parseData(payload)
	case tagUnknown:
		return parseUnknown(payload)
	case tagHeader:
		return parseHeader(payload)
	case tagEndOfHeaders:
		return parseEndOfHeaders(payload)
	case tagBody:
		return parseBody(payload)
	case tagEndOfMessage:
		return parseEndOfMessage(payload)
	case tagAbort:
		return parseAbort(payload)
	case tagClose:
		return parseClose(payload)

	case tagContinue:
		return parseContinue(payload)
	case tagReject:
		return parseReject(payload)
	case tagDiscard:
		return parseDiscard(payload)
	case tagAccept:
		return parseAccept(payload)
	case tagTemporaryFailure:
		return parseTemporaryFailure(payload)
	case tagSkip:
		return parseSkip(payload)
	case tagReplyCode:
		return parseReplyCode(payload)

	case tagAddHeader:
		return parseAddHeader(payload)
	case tagChangeHeader:
		return parseChangeHeader(payload)
	case tagInsertHeader:
		return parseInsertHeader(payload)
	case tagChangeSender:
		return parseChangeSender(payload)
	case tagAddRecipient:
		return parseAddRecipient(payload)
	case tagAddRecipientPar:
		return parseAddRecipientPar(payload)
	case tagRemoveRecipient:
		return parseRemoveRecipient(payload)
	case tagReplaceBody:
		return parseReplaceBody(payload)
	case tagProgress:
		return parseProgress(payload)
	case tagQuarantine:
		return parseQuarantine(payload)

	case tagShutdown:
		return parseShutdown(payload)
	case tagConnectionFail:
		return parseConnectionFail(payload)
	case tagSetSymbolList:
		return parseSetSymbolList(payload)

	default:
		LogWarning("unrecognized message tag %q, decoding as Misc", tag)
		data := make([]byte, len(payload))
		copy(data, payload)
		return Misc{MsgTag: tag, Data: data}, nil
	}
}

// Encode serializes msg to its wire frame: 4-byte big-endian length prefix
// (payload length + 1 for the tag) followed by the tag byte and payload.
func Encode(msg Message) ([]byte, error) {
	var payload []byte
	switch m := msg.(type) {
	case Negotiate:
		payload = appendNegotiate(payload, m)
	case Macro:
		payload = appendMacro(payload, m)

	case Connect:
		payload = appendConnect(payload, m)
	case Helo:
		payload = appendHelo(payload, m)
	case EnvelopeFrom:
		payload = appendEnvelopeFrom(payload, m)
	case EnvelopeRecipient:
		payload = appendEnvelopeRecipient(payload, m)
	case Data:
		payload = appendData(payload, m)
	case Unknown:
		payload = appendUnknown(payload, m)
	case Header:
		payload = appendHeader(payload, m)
	case EndOfHeaders:
		payload = appendEndOfHeaders(payload, m)
	case Body:
		payload = appendBody(payload, m)
	case EndOfMessage:
		payload = appendEndOfMessage(payload, m)
	case Abort:
		payload = appendAbort(payload, m)
	case Close:
		payload = appendClose(payload, m)

	case Continue:
		payload = appendContinue(payload, m)
	case Reject:
		payload = appendReject(payload, m)
	case Discard:
		payload = appendDiscard(payload, m)
	case Accept:
		payload = appendAccept(payload, m)
	case TemporaryFailure:
		payload = appendTemporaryFailure(payload, m)
	case Skip:
		payload = appendSkip(payload, m)
	case ReplyCode:
		payload = appendReplyCode(payload, m)

	case AddHeader:
		payload = appendAddHeader(payload, m)
	case ChangeHeader:
		payload = appendChangeHeader(payload, m)
	case InsertHeader:
		payload = appendInsertHeader(payload, m)
	case ChangeSender:
		payload = appendChangeSender(payload, m)
	case AddRecipient:
		payload = appendAddRecipient(payload, m)
	case AddRecipientPar:
		payload = appendAddRecipientPar(payload, m)
	case RemoveRecipient:
		payload = appendRemoveRecipient(payload, m)
	case ReplaceBody:
		payload = appendReplaceBody(payload, m)
	case Progress:
		payload = appendProgress(payload, m)
	case Quarantine:
		payload = appendQuarantine(payload, m)

	case Shutdown:
		payload = appendShutdown(payload, m)
	case ConnectionFail:
		payload = appendConnectionFail(payload, m)
	case SetSymbolList:
		payload = appendSetSymbolList(payload, m)

	case Misc:
		payload = append(payload, m.Data...)

	default:
		return nil, wire.NewFramingError("encode: unrecognized message type")
	}
	return wire.WriteFrame(nil, msg.Tag(), payload)
}
