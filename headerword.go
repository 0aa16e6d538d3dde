package milter

import (
	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
)

const headerWordKey = "Helper"

// newHeaderWordHelper builds a throwaway mail.Header with one placeholder
// field, the same trick internal/header/header.go uses to get at
// go-message/mail's RFC 2047 encode/decode logic without a real header to
// operate on.
func newHeaderWordHelper() *mail.Header {
	h := mail.HeaderFromMap(map[string][]string{headerWordKey: {" "}})
	return &h
}

// EncodeHeaderText returns the RFC 2047 encoded-word form of value, the
// way go-message/mail would render it as a header field value, for use as
// the Value of an AddHeader/ChangeHeader/InsertHeader whose text is not
// pure ASCII.
func EncodeHeaderText(value string) (string, error) {
	h := newHeaderWordHelper()
	h.SetText(headerWordKey, value)
	return h.Get(headerWordKey), nil
}

// ParseHeaderText decodes a raw header field value (as received in a
// Header event) from its possibly RFC 2047 encoded-word form back to
// plain text. An unknown MIME charset is tolerated, returning the raw
// value unmodified, the same defensive behavior internal/header/header.go
// applies via message.IsUnknownCharset.
func ParseHeaderText(raw string) (string, error) {
	h := newHeaderWordHelper()
	h.Set(headerWordKey, raw)
	text, err := h.Text(headerWordKey)
	if err != nil {
		if message.IsUnknownCharset(err) {
			return raw, nil
		}
		return "", err
	}
	return text, nil
}
