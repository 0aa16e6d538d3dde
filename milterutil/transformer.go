package milterutil

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

const cr = '\r'
const lf = '\n'

// LFNormalizer is a [transform.Transformer] that rewrites CR LF and lone CR
// sequences in src to a single LF in dst.
type LFNormalizer struct {
	prevCR bool
}

func (t *LFNormalizer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nDst < len(dst) && nSrc < len(src) {
		c := src[nSrc]
		if c == lf {
			if t.prevCR {
				nSrc++
				t.prevCR = false
				continue
			}
		}
		t.prevCR = c == cr
		if t.prevCR {
			c = lf
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	if nSrc < len(src) { // transform never grows the data, so dst should never run out first
		err = transform.ErrShortDst
	}
	// a trailing CR might be the first half of a CR LF pair
	if err == nil && !atEOF && len(src) > 0 && src[len(src)-1] == cr {
		err = transform.ErrShortSrc
		nSrc--
		nDst--
		return
	}
	return
}

func (t *LFNormalizer) Reset() {
	t.prevCR = false
}

var _ transform.Transformer = &LFNormalizer{}

// NormalizeToLF rewrites all line endings in s to bare LF.
//
// A milter filter sends header values with LF-only endings; CRLF in a
// wire-level header value produces a double-CR sequence once the MTA
// re-attaches its own line ending.
func NormalizeToLF(s string) string {
	dst, _, err := transform.String(&LFNormalizer{}, s)
	if err != nil {
		panic(err)
	}
	return dst
}

// CRLFCanonicalizer is a [transform.Transformer] that rewrites any line
// ending in src to CR LF in dst.
type CRLFCanonicalizer struct {
	prev byte
}

func (t *CRLFCanonicalizer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nDst < len(dst) && nSrc < len(src) {
		c := src[nSrc]
		if c == lf {
			if t.prev != cr {
				if len(dst) <= nDst+1 {
					err = transform.ErrShortDst
					return
				}
				dst[nDst] = cr
				nDst++
			}
		} else if c == cr {
			if !atEOF && len(src) <= nSrc+1 {
				err = transform.ErrShortSrc
				return
			}
			if (atEOF && len(src) == nSrc+1) || src[nSrc+1] != lf {
				if len(dst) <= nDst+1 {
					err = transform.ErrShortDst
					return
				}
				dst[nDst] = c
				nDst++
				c = lf
			}
		}
		dst[nDst] = c
		nDst++
		nSrc++
		t.prev = c
	}
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	return
}

func (t *CRLFCanonicalizer) Reset() {
	t.prev = 0
}

var _ transform.Transformer = &CRLFCanonicalizer{}

// PercentEscaper is a [transform.Transformer] that doubles every '%' in src,
// so the result is safe to hand to an SMTP reply formatter that treats '%'
// as a format specifier.
type PercentEscaper struct {
	transform.NopResetter
}

func (t *PercentEscaper) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	for nDst < len(dst) && nSrc < len(src) {
		c := src[nSrc]
		if c == '%' {
			if len(dst) <= nDst+1 {
				err = transform.ErrShortDst
				return
			}
			dst[nDst] = c
			nDst++
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	return
}

var _ transform.Transformer = &PercentEscaper{}

// PercentUnescaper is a [transform.Transformer] that collapses every "%%" in
// src back down to a single '%' in dst. A lone '%' is passed through
// unchanged.
type PercentUnescaper struct {
	prevPercent       bool
	prevDoublePercent bool
}

func (t *PercentUnescaper) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nDst < len(dst) && nSrc < len(src) {
		c := src[nSrc]
		if c == '%' {
			if t.prevPercent && !t.prevDoublePercent {
				t.prevDoublePercent = true
				nSrc++
				continue
			}
		}
		t.prevPercent = c == '%'
		t.prevDoublePercent = false
		dst[nDst] = c
		nDst++
		nSrc++
	}
	if nSrc < len(src) { // transform never grows the data, so dst should never run out first
		err = transform.ErrShortDst
	}
	// a trailing lone % might be the first half of a %% pair
	if err == nil && !atEOF && len(src) > 0 && t.prevPercent && !t.prevDoublePercent {
		err = transform.ErrShortSrc
		t.prevPercent = false
		nSrc--
		nDst--
		return
	}
	return
}

func (t *PercentUnescaper) Reset() {
	t.prevPercent = false
	t.prevDoublePercent = false
}

var _ transform.Transformer = &PercentUnescaper{}

// ReplyLinePrefixer is a [transform.Transformer] that reads a reply body
// (lines separated by LF, optionally preceded by CR) and prefixes each line
// with an SMTP reply code, producing a valid (possibly multi-line,
// dash-continued) SMTP response. If the first line starts with an RFC 3463
// enhanced status code whose class matches Code, that code is repeated on
// every following line.
//
// Chained behind other transformers, this one can only buffer lines up to
// 4096 bytes.
type ReplyLinePrefixer struct {
	Code         uint16
	init         bool
	enhancedCode []byte
}

var errReplyStartsWithLF = errors.New("milterutil: SMTP reply cannot start with LF")

var enhancedCodeRegexp = regexp.MustCompile(`^[245]\.(0|[1-9][0-9]{0,2})\.(0|[1-9][0-9]{0,2}) `)

func (t *ReplyLinePrefixer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if !t.init && (t.Code < 100 || t.Code > 599) {
		return 0, 0, fmt.Errorf("milterutil: %d is not a valid SMTP code", t.Code)
	}
	// an empty reason still needs the bare code emitted
	if atEOF && !t.init && len(src) == 0 {
		if len(dst) <= nDst+4 {
			return 0, 0, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], fmt.Sprintf("%d ", t.Code))
		return
	}

	for nDst < len(dst) && nSrc < len(src) {
		c := src[nSrc]
		if !t.init || c == lf {
			if len(dst) <= nDst+5+len(t.enhancedCode) {
				err = transform.ErrShortDst
				return
			}
			if !t.init && c == lf {
				err = errReplyStartsWithLF
				return
			}
			// look ahead for another line so we know whether this one needs
			// a dash continuation or the final space separator
			hasMoreLines := false
			for peek := nSrc + 1; peek < len(src); peek++ {
				if src[peek] == lf {
					hasMoreLines = true
					break
				}
			}
			if !atEOF && !hasMoreLines {
				err = transform.ErrShortSrc
				return
			}
			if t.init {
				dst[nDst] = c
				nDst++
				nSrc++
			}
			if hasMoreLines {
				nDst += copy(dst[nDst:], fmt.Sprintf("%d-", t.Code))
			} else {
				nDst += copy(dst[nDst:], fmt.Sprintf("%d ", t.Code))
			}
			if !t.init {
				t.init = true
				if m := enhancedCodeRegexp.Find(src[nSrc:]); m != nil && m[0] == byte('0'+t.Code/100) {
					t.enhancedCode = append(t.enhancedCode[:0], m...)
				}
				dst[nDst] = c
				nDst++
				nSrc++
			} else {
				nDst += copy(dst[nDst:], t.enhancedCode)
			}
		} else {
			dst[nDst] = c
			nDst++
			nSrc++
		}
	}
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	return
}

func (t *ReplyLinePrefixer) Reset() {
	t.init = false
	t.enhancedCode = t.enhancedCode[:0]
}

var _ transform.Transformer = &ReplyLinePrefixer{}

// DefaultMaxReplyLineLength bounds a reply line when [LineWrapper.MaxLength]
// is left at zero. SMTP itself tolerates lines up to 1000 bytes, but some
// MTAs force a break earlier (e.g. at 980), so this stays comfortably under
// that.
const DefaultMaxReplyLineLength = 950

var errMaxReplyLineLengthTooSmall = errors.New("milterutil: MaxLength must be 4 or more")

// LineWrapper is a [transform.Transformer] that breaks src into lines of at
// most MaxLength bytes, inserting CR LF at the break points.
//
// CR and LF in src are treated as existing line breaks and don't count
// toward the length of the line they end.
//
// LineWrapper is UTF-8 aware: it only breaks at a rune boundary, which means
// it may emit a line a few bytes short of MaxLength to avoid splitting a
// multi-byte rune.
type LineWrapper struct {
	MaxLength uint
	length    uint
}

func (t *LineWrapper) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	if t.MaxLength == 0 {
		t.MaxLength = DefaultMaxReplyLineLength
	}
	if t.MaxLength < utf8.UTFMax {
		return 0, 0, errMaxReplyLineLengthTooSmall
	}

	for nDst < len(dst) && nSrc < len(src) {
		c := src[nSrc]
		isLineBreak := c == cr || c == lf
		// break near the limit, but only at a rune boundary, or unconditionally
		// once we've hit the hard limit (at which point src is invalid UTF-8 anyway)
		if !isLineBreak && ((t.length > t.MaxLength-utf8.UTFMax && utf8.RuneStart(c)) || (t.length >= t.MaxLength)) {
			if len(dst) <= nDst+2 {
				err = transform.ErrShortDst
				return
			}
			nDst += copy(dst[nDst:], "\r\n")
			t.length = 0
		}
		dst[nDst] = c
		nDst++
		nSrc++
		if isLineBreak {
			t.length = 0
		} else {
			t.length++
		}
	}
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	return
}

func (t *LineWrapper) Reset() {
	t.length = 0
}

var _ transform.Transformer = &LineWrapper{}
