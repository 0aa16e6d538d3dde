package milter

import (
	"reflect"
	"testing"

	"github.com/sansmilter/protocol/internal/wire"
)

func TestParseMacroRejectsOddFieldCount(t *testing.T) {
	t.Parallel()
	payload := append([]byte{tagHelo}, wire.AppendCString(nil, "j")...)
	if _, err := parseMacro(payload); err == nil {
		t.Errorf("parseMacro() with odd field count error = nil, want error")
	}
}

func TestParseMacroRejectsMissingEventTag(t *testing.T) {
	t.Parallel()
	if _, err := parseMacro(nil); err == nil {
		t.Errorf("parseMacro(nil) error = nil, want error")
	}
}

func TestParseMacroNoDefs(t *testing.T) {
	t.Parallel()
	got, err := parseMacro([]byte{tagEndOfHeaders})
	if err != nil {
		t.Fatalf("parseMacro() error = %v", err)
	}
	want := Macro{EventTag: tagEndOfHeaders}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseMacro() = %#v, want %#v", got, want)
	}
}
