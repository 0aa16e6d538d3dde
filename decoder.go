package milter

import "github.com/sansmilter/protocol/internal/wire"

// Decoder turns a byte stream into a sequence of Messages. It owns no
// socket: a caller reads bytes from wherever it likes (a net.Conn, a test
// fixture, a replay log) and calls Feed, then drains complete messages with
// ReadOne/ReadMany. Feed may be called with arbitrarily small or large
// chunks - a byte stream split at any boundary decodes identically to one
// fed in a single call.
type Decoder struct {
	buf          []byte
	cursor       int
	maxFrameSize uint32
}

// NewDecoder returns a Decoder. maxFrameSize bounds the accepted value of a
// frame's declared length before any payload is read or allocated; zero
// means wire.DefaultMaxFrameSize.
func NewDecoder(maxFrameSize uint32) *Decoder {
	return &Decoder{maxFrameSize: maxFrameSize}
}

// Feed appends data to the Decoder's internal buffer. data is copied; the
// caller may reuse its slice immediately after Feed returns.
func (d *Decoder) Feed(data []byte) {
	d.compact()
	d.buf = append(d.buf, data...)
}

// compact drops already-consumed bytes from the front of buf once they
// grow large relative to what is left, so a long-lived Decoder on a busy
// stream does not retain every byte it has ever seen.
func (d *Decoder) compact() {
	if d.cursor == 0 {
		return
	}
	if d.cursor < len(d.buf)/2 && len(d.buf) < 64*1024 {
		return
	}
	remaining := len(d.buf) - d.cursor
	copy(d.buf, d.buf[d.cursor:])
	d.buf = d.buf[:remaining]
	d.cursor = 0
}

// ReadOne attempts to decode one message from the bytes buffered so far. It
// returns wire.ErrNeedMore if no complete frame is currently buffered - this
// is not an error the caller should treat as fatal; more bytes from Feed may
// complete the frame. Any other non-nil error is a FramingError and is
// terminal: the Decoder's position in the byte stream can no longer be
// trusted, and the caller should abandon it.
func (d *Decoder) ReadOne() (Message, error) {
	tag, payload, consumed, err := wire.ReadFrame(d.buf[d.cursor:], d.maxFrameSize)
	if err != nil {
		return nil, err
	}
	msg, err := Decode(tag, payload)
	if err != nil {
		return nil, err
	}
	d.cursor += consumed
	return msg, nil
}

// ReadMany decodes as many complete messages as are currently buffered. It
// stops (without error) when only a partial frame remains, and returns any
// FramingError encountered immediately, along with the messages decoded
// before it.
func (d *Decoder) ReadMany() ([]Message, error) {
	var msgs []Message
	for {
		msg, err := d.ReadOne()
		if err == wire.ErrNeedMore {
			return msgs, nil
		}
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
}

// Pending reports how many bytes are buffered but not yet consumed into a
// decoded message.
func (d *Decoder) Pending() int {
	return len(d.buf) - d.cursor
}
