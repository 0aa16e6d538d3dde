package milter

import (
	"reflect"
	"testing"

	"github.com/sansmilter/protocol/internal/wire"
)

func TestChangeHeaderEmptyValueDeletes(t *testing.T) {
	t.Parallel()
	got, err := NewChangeHeader(2, "X-Spam", "")
	if err != nil {
		t.Fatalf("NewChangeHeader() error = %v", err)
	}
	want := ChangeHeader{Index: 2, Name: "X-Spam"}
	if got != want {
		t.Errorf("NewChangeHeader(2, \"X-Spam\", \"\") = %#v, want %#v", got, want)
	}
}

func TestNewAddHeaderEncodesNonASCII(t *testing.T) {
	t.Parallel()
	got, err := NewAddHeader("Subject", "héllo")
	if err != nil {
		t.Fatalf("NewAddHeader() error = %v", err)
	}
	if got.Value == "héllo" {
		t.Errorf("NewAddHeader() did not encode non-ASCII value, got %q", got.Value)
	}
	decoded, err := ParseHeaderText(got.Value)
	if err != nil {
		t.Fatalf("ParseHeaderText() error = %v", err)
	}
	if decoded != "héllo" {
		t.Errorf("ParseHeaderText(EncodeHeaderText(x)) = %q, want %q", decoded, "héllo")
	}
}

func TestParseAddHeaderRequiresTwoFields(t *testing.T) {
	t.Parallel()
	payload := wire.AppendCString(nil, "X-Only-One")
	if _, err := parseAddHeader(payload); err == nil {
		t.Errorf("parseAddHeader() with 1 field error = nil, want error")
	}
}

func TestReplaceBodyChunkSurvivesBufferReuse(t *testing.T) {
	t.Parallel()
	buf := []byte("replacement body")
	rb, err := parseReplaceBody(buf)
	if err != nil {
		t.Fatalf("parseReplaceBody() error = %v", err)
	}
	for i := range buf {
		buf[i] = 'X'
	}
	if string(rb.Chunk) != "replacement body" {
		t.Errorf("ReplaceBody.Chunk = %q after buffer reuse, want %q (should not alias)", rb.Chunk, "replacement body")
	}
}

func TestParseChangeSenderArity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		payload []byte
		want    ChangeSender
		wantErr bool
	}{
		{"sender only", wire.AppendCString(nil, "<a@example.com>"), ChangeSender{Sender: "<a@example.com>"}, false},
		{"sender and args", append(wire.AppendCString(nil, "<a@example.com>"), wire.AppendCString(nil, "SIZE=1")...),
			ChangeSender{Sender: "<a@example.com>", Args: "SIZE=1"}, false},
		{"too many fields", append(append(wire.AppendCString(nil, "a"), wire.AppendCString(nil, "b")...), wire.AppendCString(nil, "c")...),
			ChangeSender{}, true},
	}
	for _, tt_ := range tests {
		tt := tt_
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseChangeSender(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseChangeSender() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseChangeSender() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
