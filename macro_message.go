package milter

import "github.com/sansmilter/protocol/internal/wire"

// MacroDef is one name/value pair carried by a Macro message.
type MacroDef struct {
	Name  string
	Value string
}

// Macro precedes most events, carrying the macro values the MTA has bound
// for the stage that event belongs to (see stageForEventTag). Unlike
// Negotiate's macro table, EventTag here is the raw one-byte tag of the
// event this Macro is paired with, not a MacroStage - translate with
// stageForEventTag if the stage enum is what's needed.
type Macro struct {
	EventTag byte
	Defs     []MacroDef
}

func (Macro) Tag() byte      { return tagMacro }
func (Macro) Family() Family { return FamilySetup }
func (Macro) sealedMessage() {}

func parseMacro(payload []byte) (Macro, error) {
	if len(payload) == 0 {
		return Macro{}, wire.NewFramingError("macro: missing event tag byte")
	}
	eventTag := payload[0]
	fields, err := wire.DecodeCStringTable(payload[1:])
	if err != nil {
		return Macro{}, err
	}
	if len(fields)%2 != 0 {
		return Macro{}, wire.NewFramingError("macro: odd number of name/value strings")
	}
	m := Macro{EventTag: eventTag}
	for i := 0; i < len(fields); i += 2 {
		m.Defs = append(m.Defs, MacroDef{Name: fields[i], Value: fields[i+1]})
	}
	return m, nil
}

func appendMacro(dst []byte, m Macro) []byte {
	dst = append(dst, m.EventTag)
	for _, d := range m.Defs {
		dst = wire.AppendCString(dst, d.Name)
		dst = wire.AppendCString(dst, d.Value)
	}
	return dst
}
