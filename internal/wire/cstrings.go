package wire

import (
	"bytes"
	"strings"
)

// NULL terminator
const null = "\x00"

// DecodeCStrings splits a C style strings into a Go string slice
// The last C style string in data can optionally not be terminated with a null-byte.
func DecodeCStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	// strip the last null byte
	if data[len(data)-1] == 0 {
		data = data[0 : len(data)-1]
	}
	return strings.Split(string(data), null)
}

// ReadCString reads and returns a C style string from []byte.
// If data does not contain a null-byte the whole data-slice is returned as string
func ReadCString(data []byte) string {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return string(data)
	}
	return string(data[0:pos])
}

// AppendCString appends a C style string to the buffer and returns it (like append does).
// It is assumed that s does not contain null-bytes.
func AppendCString(dest []byte, s string) []byte {
	dest = append(dest, []byte(s)...)
	dest = append(dest, 0x00)
	return dest
}

// ReadCStringStrict reads one null-terminated string off the front of data
// and returns the remainder. Unlike ReadCString it is an error for data to
// run out before a terminator is found — this is the reader the message
// codec uses, since a missing terminator inside a payload is a framing
// error, not a convenience best-effort read.
func ReadCStringStrict(data []byte) (s string, rest []byte, err error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", nil, NewFramingError("missing null terminator")
	}
	return string(data[:pos]), data[pos+1:], nil
}

// DecodeCStringTable decodes zero or more null-terminated strings that
// together consume the whole of data exactly (the last byte of data must be
// the final string's terminator). It is the strict counterpart of
// DecodeCStrings, used where the protocol requires every string in a table
// to be properly terminated (EnvelopeFrom/EnvelopeRecipient ESMTP args,
// Macro name/value pairs).
func DecodeCStringTable(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if data[len(data)-1] != 0 {
		return nil, NewFramingError("string table missing trailing null terminator")
	}
	return strings.Split(string(data[:len(data)-1]), null), nil
}
