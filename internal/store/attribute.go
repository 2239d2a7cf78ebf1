package store

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the wire type of an attribute value.
type Kind string

const (
	KindString     Kind = "S"
	KindNumber     Kind = "N"
	KindBool       Kind = "BOOL"
	KindStringList Kind = "SS"
)

// Value is a tagged attribute value. Only the member matching Kind is
// meaningful; the JSON form carries exactly one member, e.g. {"S":"abc"}
// or {"N":"42"}.
type Value struct {
	Kind Kind
	S    string
	N    string
	Bool bool
	SS   []string
}

// Item is a string-keyed map of typed attribute values, the unit of
// storage for every logical table.
type Item map[string]Value

// String returns a string-typed value.
func String(s string) Value {
	return Value{Kind: KindString, S: s}
}

// Number returns a number-typed value. Numbers travel as decimal strings.
func Number(n int) Value {
	return Value{Kind: KindNumber, N: strconv.Itoa(n)}
}

// Boolean returns a boolean-typed value.
func Boolean(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// StringList returns a string-list value.
func StringList(ss []string) Value {
	return Value{Kind: KindStringList, SS: ss}
}

// Int parses a number-typed value.
func (v Value) Int() (int, error) {
	if v.Kind != KindNumber {
		return 0, fmt.Errorf("attribute is %s, not %s", v.Kind, KindNumber)
	}
	return strconv.Atoi(v.N)
}

// Raw returns the value's storable string form, used as the row key for
// primary-key attributes.
func (v Value) Raw() string {
	switch v.Kind {
	case KindString:
		return v.S
	case KindNumber:
		return v.N
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindStringList:
		if len(v.SS) != len(other.SS) {
			return false
		}
		for i := range v.SS {
			if v.SS[i] != other.SS[i] {
				return false
			}
		}
		return true
	default:
		return v.S == other.S && v.N == other.N && v.Bool == other.Bool
	}
}

// MarshalJSON emits the tagged single-member form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(map[string]string{"S": v.S})
	case KindNumber:
		return json.Marshal(map[string]string{"N": v.N})
	case KindBool:
		return json.Marshal(map[string]bool{"BOOL": v.Bool})
	case KindStringList:
		ss := v.SS
		if ss == nil {
			ss = []string{}
		}
		return json.Marshal(map[string][]string{"SS": ss})
	default:
		return nil, fmt.Errorf("unknown attribute kind %q", v.Kind)
	}
}

// UnmarshalJSON reads the tagged single-member form.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if s, ok := raw["S"]; ok {
		v.Kind = KindString
		return json.Unmarshal(s, &v.S)
	}
	if n, ok := raw["N"]; ok {
		v.Kind = KindNumber
		return json.Unmarshal(n, &v.N)
	}
	if b, ok := raw["BOOL"]; ok {
		v.Kind = KindBool
		return json.Unmarshal(b, &v.Bool)
	}
	if ss, ok := raw["SS"]; ok {
		v.Kind = KindStringList
		return json.Unmarshal(ss, &v.SS)
	}
	return fmt.Errorf("attribute value has no recognized type tag")
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	out := make(Item, len(i))
	for k, v := range i {
		if v.Kind == KindStringList {
			ss := make([]string, len(v.SS))
			copy(ss, v.SS)
			v.SS = ss
		}
		out[k] = v
	}
	return out
}
