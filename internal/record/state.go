package record

import "strings"

// State is the translation state of one source field.
type State int

const (
	Untranslated State = iota
	Translated
	Failed
	NonTranslatable
)

func (s State) String() string {
	switch s {
	case Untranslated:
		return "untranslated"
	case Translated:
		return "translated"
	case Failed:
		return "failed"
	case NonTranslatable:
		return "non_translatable"
	default:
		return "unknown"
	}
}

var literals = map[string]bool{
	"true": true, "false": true, "null": true, "yes": true, "no": true,
	"0": true, "1": true, "2": true, "3": true, "4": true,
	"5": true, "6": true, "7": true, "8": true, "9": true,
}

// IsLiteral reports whether value is copied instead of translated.
func IsLiteral(value string) bool {
	return literals[strings.ToLower(strings.TrimSpace(value))]
}

// Field is a source field of a record together with its derived counterpart.
type Field struct {
	Key        string
	Value      string
	DerivedKey string
	// HasDerived is set when DerivedKey exists, whatever its type.
	HasDerived bool
	// Derived is the derived value when it is a string.
	Derived         string
	DerivedIsString bool
	State           State
}

// Candidates returns the source fields of rec in key order: string fields
// with non-blank values whose names do not end in suffix.
func Candidates(rec *Record, suffix string) []Field {
	var out []Field
	for _, key := range rec.Keys() {
		if strings.HasSuffix(key, suffix) {
			continue
		}
		value, ok := rec.GetString(key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		f := Field{Key: key, Value: value, DerivedKey: key + suffix}
		if _, ok := rec.Get(f.DerivedKey); ok {
			f.HasDerived = true
			f.Derived, f.DerivedIsString = rec.GetString(f.DerivedKey)
		}
		f.State = classify(f)
		out = append(out, f)
	}
	return out
}

func classify(f Field) State {
	switch {
	case IsLiteral(f.Value):
		return NonTranslatable
	case !f.HasDerived:
		return Untranslated
	case f.DerivedIsString && f.Derived == f.Value:
		return Failed
	default:
		return Translated
	}
}
