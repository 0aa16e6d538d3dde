package milterutil

import (
	"fmt"
	"strings"

	"golang.org/x/text/transform"
)

// MaxResponseSize is the largest SMTP response string this package will
// produce, in bytes: 64 MiB minus 2, leaving room for a frame's tag byte
// and the string's null terminator within 64 MiB.
const MaxResponseSize = 64*1024*1024 - 2

// FormatResponse builds an SMTP response line (or, for a multi-line reason,
// a dash-continued block of them) from a numeric SMTP code and a UTF-8
// reason string.
//
// smtpCode must fall between 100 and 599. reason may begin with an RFC 2034
// enhanced status code and may itself contain embedded line breaks, which
// become additional dash-continued reply lines; lines longer than 950 bytes
// are wrapped the same way. Any "\n" is canonicalized to "\r\n", and any '%'
// is doubled so the text survives callers that treat '%' as a format verb.
//
// An error is returned if the formatted text would exceed MaxResponseSize.
//
// Examples:
//
//	FormatResponse(250, "Accept")                              // "250 Accept"
//	FormatResponse(250, "%")                                    // "250 %%"
//	FormatResponse(550, "5.7.1 Command rejected")                // "550 5.7.1 Command rejected"
//	FormatResponse(550, "5.7.1 Command rejected\nContact support") // "550-5.7.1 Command rejected\r\n550 5.7.1 Contact support"
//
// See https://www.iana.org/assignments/smtp-enhanced-status-codes/smtp-enhanced-status-codes.xhtml
// for the enhanced status code registry.
func FormatResponse(smtpCode uint16, reason string) (string, error) {
	if smtpCode < 100 || smtpCode > 599 {
		return "", fmt.Errorf("milterutil: invalid code %d", smtpCode)
	}
	// reject absurdly long input before running it through the transform chain
	if len(reason) > MaxResponseSize-4 {
		return "", fmt.Errorf("milterutil: reason too long: %d > %d", len(reason), MaxResponseSize-4)
	}
	escapeAndNormalize := transform.Chain(&PercentEscaper{}, &CRLFCanonicalizer{})
	data, _, _ := transform.String(escapeAndNormalize, strings.TrimRight(reason, "\r\n"))
	data, _, _ = transform.String(&LineWrapper{}, data)
	data, _, _ = transform.String(&ReplyLinePrefixer{Code: smtpCode}, data)
	if len(data) > MaxResponseSize {
		return "", fmt.Errorf("milterutil: formatted reason too long: %d > %d", len(data), MaxResponseSize)
	}
	return data, nil
}
