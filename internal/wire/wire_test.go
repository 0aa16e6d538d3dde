package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestReadFrame(t *testing.T) {
	tests := []struct {
		name        string
		buf         []byte
		max         uint32
		wantTag     byte
		wantPayload []byte
		wantConsume int
		wantErr     error
	}{
		{"need more: short header", []byte{0, 0, 0}, 0, 0, nil, 0, ErrNeedMore},
		{"need more: short body", []byte{0, 0, 0, 4, 't', 'e'}, 0, 0, nil, 0, ErrNeedMore},
		{"zero size", []byte{0, 0, 0, 0}, 0, 0, nil, 0, nil},
		{"simple", []byte{0, 0, 0, 1, 'b'}, 0, 'b', []byte{}, 5, nil},
		{"with data", []byte{0, 0, 0, 4, 't', 'e', 's', 't'}, 0, 't', []byte("est"), 8, nil},
		{"exceeds max", []byte{0, 0, 0, 10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 5, 0, nil, 0, nil},
		{"trailing bytes ignored", []byte{0, 0, 0, 1, 'b', 'x', 'x'}, 0, 'b', []byte{}, 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, payload, consumed, err := ReadFrame(tt.buf, tt.max)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) && tt.wantErr != ErrNeedMore {
					// fall through: structural errors checked below
				}
				if tt.wantErr == ErrNeedMore && !errors.Is(err, ErrNeedMore) {
					t.Fatalf("err = %v, want ErrNeedMore", err)
				}
				return
			}
			if tt.name == "zero size" || tt.name == "exceeds max" {
				var fe *FramingError
				if !errors.As(err, &fe) {
					t.Fatalf("err = %v, want *FramingError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tag != tt.wantTag {
				t.Errorf("tag = %c, want %c", tag, tt.wantTag)
			}
			if !bytes.Equal(payload, tt.wantPayload) {
				t.Errorf("payload = %v, want %v", payload, tt.wantPayload)
			}
			if consumed != tt.wantConsume {
				t.Errorf("consumed = %d, want %d", consumed, tt.wantConsume)
			}
		})
	}
}

func TestReadFrameNeverAllocatesOnOversizeDeclaration(t *testing.T) {
	// A declared size of 2^31 must fail before any attempt is made to wait
	// for or slice that much payload.
	buf := []byte{0x80, 0, 0, 0}
	_, _, _, err := ReadFrame(buf, 0)
	var fe *FramingError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FramingError", err)
	}
}

func TestWriteFrame(t *testing.T) {
	got, err := WriteFrame(nil, 't', []byte("est"))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 4, 't', 'e', 's', 't'}
	if !bytes.Equal(got, want) {
		t.Errorf("WriteFrame() = %v, want %v", got, want)
	}
}

func TestWriteFrameEmptyPayload(t *testing.T) {
	got, err := WriteFrame(nil, 'c', nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 1, 'c'}
	if !bytes.Equal(got, want) {
		t.Errorf("WriteFrame() = %v, want %v", got, want)
	}
}

func TestFrameSizeLaw(t *testing.T) {
	// size_field == len(payload)+1, total wire length is 4+size_field
	payload := []byte("hello world")
	frame, err := WriteFrame(nil, 'L', payload)
	if err != nil {
		t.Fatal(err)
	}
	size := uint32(frame[0])<<24 | uint32(frame[1])<<16 | uint32(frame[2])<<8 | uint32(frame[3])
	if int(size) != len(payload)+1 {
		t.Errorf("size = %d, want %d", size, len(payload)+1)
	}
	if len(frame) != 4+int(size) {
		t.Errorf("total length = %d, want %d", len(frame), 4+int(size))
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	frame, err := WriteFrame(nil, 'C', []byte("example.com\x004\x00\x19"))
	if err != nil {
		t.Fatal(err)
	}
	tag, payload, consumed, err := ReadFrame(frame, 0)
	if err != nil {
		t.Fatal(err)
	}
	if tag != 'C' {
		t.Errorf("tag = %c, want C", tag)
	}
	if consumed != len(frame) {
		t.Errorf("consumed = %d, want %d", consumed, len(frame))
	}
	if string(payload) != "example.com\x004\x00\x19" {
		t.Errorf("payload = %q", payload)
	}
}
