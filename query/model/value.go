// Package model defines the query specification shared by the SQL compiler
// and the in-memory engine: values, rows, columns, filters, joins and ordering.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	// KindAbsent is an unset value. It is skipped by filters and updates.
	KindAbsent Kind = iota
	// KindNull is an explicit NULL.
	KindNull
	// KindText is a string.
	KindText
	// KindInt is an integral number.
	KindInt
	// KindFloat is a floating point number.
	KindFloat
	// KindBool is a boolean.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a loosely typed column value. The zero Value is absent, which is
// different from Null: absent entries are ignored, null entries are applied.
type Value struct {
	kind Kind
	text string
	i    int64
	f    float64
	b    bool
}

// Absent returns the absent value.
func Absent() Value { return Value{} }

// Null returns an explicit NULL.
func Null() Value { return Value{kind: KindNull} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Int returns an integral value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Of converts a Go value into a Value. nil becomes Null. Values a database
// driver may hand back ([]byte, time.Time) are converted to text.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case *Value:
		if x == nil {
			return Null()
		}
		return *x
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return fromUint(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case time.Time:
		return Text(x.UTC().Format(time.RFC3339Nano))
	case fmt.Stringer:
		return Text(x.String())
	default:
		return Text(fmt.Sprint(x))
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

// Values converts each element with Of.
func Values(vs ...any) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Of(v)
	}
	return out
}

// Kind reports the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is unset.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsNull reports whether v is an explicit NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNullish reports whether v is either absent or NULL.
func (v Value) IsNullish() bool { return v.kind == KindAbsent || v.kind == KindNull }

// Interface returns the driver-ready Go value: nil, string, int64, float64 or bool.
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// String renders v for display.
func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return "<absent>"
	case KindNull:
		return "NULL"
	case KindText:
		return v.text
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.kind.String()
	}
}

// MarshalJSON encodes absent and null values as JSON null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Args converts values into driver-ready query arguments.
func Args(vs []Value) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v.Interface()
	}
	return out
}
