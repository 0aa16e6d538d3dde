package milter

import "testing"

func TestEncodeHeaderTextRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value string
	}{
		{"ascii", "plain subject line"},
		{"non-ascii", "Héllo Wörld"},
		{"empty", ""},
	}
	for _, tt_ := range tests {
		tt := tt_
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			encoded, err := EncodeHeaderText(tt.value)
			if err != nil {
				t.Fatalf("EncodeHeaderText(%q) error = %v", tt.value, err)
			}
			decoded, err := ParseHeaderText(encoded)
			if err != nil {
				t.Fatalf("ParseHeaderText(%q) error = %v", encoded, err)
			}
			if decoded != tt.value {
				t.Errorf("round trip = %q, want %q", decoded, tt.value)
			}
		})
	}
}

func TestParseHeaderTextToleratesUnknownCharset(t *testing.T) {
	t.Parallel()
	raw := "=?x-made-up-charset?Q?hello?="
	got, err := ParseHeaderText(raw)
	if err != nil {
		t.Fatalf("ParseHeaderText(%q) error = %v, want nil (unknown charset tolerated)", raw, err)
	}
	if got != raw {
		t.Errorf("ParseHeaderText(%q) = %q, want the raw value back unmodified", raw, got)
	}
}
