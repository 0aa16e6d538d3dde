package milter

import "testing"

func TestFamilyString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f    Family
		want string
	}{
		{"setup", FamilySetup, "setup"},
		{"event", FamilyEvent, "event"},
		{"response", FamilyResponse, "response"},
		{"modification", FamilyModification, "modification"},
		{"misc", FamilyMisc, "misc"},
		{"invalid", Family(99), "unknown"},
	}
	for _, tt_ := range tests {
		tt := tt_
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.f.String(); got != tt.want {
				t.Errorf("Family(%d).String() = %q, want %q", tt.f, got, tt.want)
			}
		})
	}
}

func TestMacroStageString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		s    MacroStage
		want string
	}{
		{"connect", StageConnect, "connect"},
		{"helo", StageHelo, "helo"},
		{"mail_from", StageMailFrom, "mail_from"},
		{"rcpt_to", StageRcptTo, "rcpt_to"},
		{"data", StageData, "data"},
		{"end_of_message", StageEndOfMessage, "end_of_message"},
		{"end_of_headers", StageEndOfHeaders, "end_of_headers"},
		{"invalid", MacroStage(99), "unknown_stage"},
	}
	for _, tt_ := range tests {
		tt := tt_
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.s.String(); got != tt.want {
				t.Errorf("MacroStage(%d).String() = %q, want %q", tt.s, got, tt.want)
			}
		})
	}
}

func TestStageForEventTag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		tag       byte
		wantStage MacroStage
		wantOk    bool
	}{
		{"connect", tagConnect, StageConnect, true},
		{"helo", tagHelo, StageHelo, true},
		{"envelope_from", tagEnvelopeFrom, StageMailFrom, true},
		{"envelope_recipient", tagEnvelopeRecipient, StageRcptTo, true},
		{"data", tagData, StageData, true},
		{"end_of_message", tagEndOfMessage, StageEndOfMessage, true},
		{"end_of_headers", tagEndOfHeaders, StageEndOfHeaders, true},
		{"header has no stage", tagHeader, 0, false},
		{"unknown has no stage", tagUnknown, 0, false},
	}
	for _, tt_ := range tests {
		tt := tt_
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stage, ok := stageForEventTag(tt.tag)
			if ok != tt.wantOk || (ok && stage != tt.wantStage) {
				t.Errorf("stageForEventTag(%q) = (%v, %v), want (%v, %v)", tt.tag, stage, ok, tt.wantStage, tt.wantOk)
			}
		})
	}
}
