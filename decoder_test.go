package milter

import (
	"reflect"
	"testing"

	"github.com/sansmilter/protocol/internal/wire"
)

func TestDecoderReadManyAcrossArbitraryChunkBoundaries(t *testing.T) {
	t.Parallel()
	var stream []byte
	msgs := []Message{Helo{Hostname: "mail.example.com"}, Data{}, Abort{}}
	for _, m := range msgs {
		framed, err := Encode(m)
		if err != nil {
			t.Fatalf("Encode(%#v) error = %v", m, err)
		}
		stream = append(stream, framed...)
	}

	// Feed the whole stream one byte at a time; decoding must not depend on
	// frame boundaries lining up with Feed calls.
	dec := NewDecoder(0)
	var got []Message
	for i := 0; i < len(stream); i++ {
		dec.Feed(stream[i : i+1])
		decoded, err := dec.ReadMany()
		if err != nil {
			t.Fatalf("ReadMany() error = %v", err)
		}
		got = append(got, decoded...)
	}
	if !reflect.DeepEqual(got, msgs) {
		t.Errorf("decoded %#v, want %#v", got, msgs)
	}
	if dec.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", dec.Pending())
	}
}

func TestDecoderReadOneNeedsMore(t *testing.T) {
	t.Parallel()
	dec := NewDecoder(0)
	dec.Feed([]byte{0, 0, 0})
	if _, err := dec.ReadOne(); err != wire.ErrNeedMore {
		t.Errorf("ReadOne() error = %v, want wire.ErrNeedMore", err)
	}
}

func TestDecoderFeedCopiesInputBuffer(t *testing.T) {
	t.Parallel()
	dec := NewDecoder(0)
	framed, err := Encode(Data{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	buf := append([]byte(nil), framed...)
	dec.Feed(buf)
	for i := range buf {
		buf[i] = 0xFF
	}
	msg, err := dec.ReadOne()
	if err != nil {
		t.Fatalf("ReadOne() error = %v", err)
	}
	if _, ok := msg.(Data); !ok {
		t.Errorf("ReadOne() = %#v after caller reused its buffer, want Data{}", msg)
	}
}

func TestDecoderEnforcesMaxFrameSize(t *testing.T) {
	t.Parallel()
	dec := NewDecoder(8)
	dec.Feed(wire.AppendUint32(nil, 1<<20))
	if _, err := dec.ReadOne(); err == nil {
		t.Errorf("ReadOne() with oversized frame error = nil, want error")
	}
}

func TestDecoderReadManyStopsOnFramingError(t *testing.T) {
	t.Parallel()
	dec := NewDecoder(0)
	framed, err := Encode(Helo{Hostname: "a"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	dec.Feed(framed)
	dec.Feed(wire.AppendUint32(nil, 0)) // zero-length frame: a framing error
	msgs, err := dec.ReadMany()
	if err == nil {
		t.Fatalf("ReadMany() error = nil, want error")
	}
	if len(msgs) != 1 {
		t.Fatalf("ReadMany() returned %d messages before the error, want 1", len(msgs))
	}
}
