package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// TimestampLayout is the canonical wire format for DATETIME values.
const TimestampLayout = "2006-01-02 15:04:05"

type ValueType int

const (
	NullValue ValueType = iota
	IntValue
	FloatValue
	TextValue
	BoolValue
	TimestampValue
)

func (vt ValueType) String() string {
	switch vt {
	case NullValue:
		return "NULL"
	case IntValue:
		return "INT"
	case FloatValue:
		return "FLOAT"
	case TextValue:
		return "TEXT"
	case BoolValue:
		return "BOOL"
	case TimestampValue:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

// Value is the tagged scalar union used for every stored and compared datum.
// The zero Value is NULL.
type Value struct {
	Type  ValueType
	Int   int64
	Float float64
	Text  string
	Bool  bool
	Time  time.Time
}

func Null() Value {
	return Value{Type: NullValue}
}

func NewInt(v int64) Value {
	return Value{Type: IntValue, Int: v}
}

func NewFloat(v float64) Value {
	return Value{Type: FloatValue, Float: v}
}

func NewText(v string) Value {
	return Value{Type: TextValue, Text: v}
}

func NewBool(v bool) Value {
	return Value{Type: BoolValue, Bool: v}
}

func NewTimestamp(v time.Time) Value {
	return Value{Type: TimestampValue, Time: v}
}

func (v Value) IsNull() bool {
	return v.Type == NullValue
}

// String renders the value the way result rows and CSV exports display it.
func (v Value) String() string {
	switch v.Type {
	case NullValue:
		return "NULL"
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case FloatValue:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case TextValue:
		return v.Text
	case BoolValue:
		return strconv.FormatBool(v.Bool)
	case TimestampValue:
		return v.Time.Format(TimestampLayout)
	default:
		return fmt.Sprintf("Value(%d)", v.Type)
	}
}

// Key returns a canonical string form usable as a hash bucket key. Two values
// share a key iff they are equal under Equal.
func (v Value) Key() string {
	switch v.Type {
	case NullValue:
		return "n"
	case IntValue:
		return "i:" + strconv.FormatInt(v.Int, 10)
	case FloatValue:
		// Integral floats share a bucket with their int counterpart so that
		// WHERE price = 10 matches a FLOAT column holding 10.0.
		if v.Float == float64(int64(v.Float)) {
			return "i:" + strconv.FormatInt(int64(v.Float), 10)
		}
		return "f:" + strconv.FormatFloat(v.Float, 'g', -1, 64)
	case TextValue:
		return "s:" + v.Text
	case BoolValue:
		return "b:" + strconv.FormatBool(v.Bool)
	case TimestampValue:
		return "t:" + strconv.FormatInt(v.Time.Unix(), 10)
	default:
		return "?"
	}
}

func (v Value) isNumeric() bool {
	return v.Type == IntValue || v.Type == FloatValue
}

func (v Value) asFloat() float64 {
	if v.Type == IntValue {
		return float64(v.Int)
	}
	return v.Float
}

// Compare orders two values of compatible types. The second return reports
// whether the pair is comparable at all; NULL compares equal only to NULL.
func Compare(a, b Value) (int, bool) {
	if a.IsNull() || b.IsNull() {
		if a.IsNull() && b.IsNull() {
			return 0, true
		}
		return 0, false
	}

	if a.isNumeric() && b.isNumeric() {
		if a.Type == IntValue && b.Type == IntValue {
			switch {
			case a.Int < b.Int:
				return -1, true
			case a.Int > b.Int:
				return 1, true
			}
			return 0, true
		}
		af, bf := a.asFloat(), b.asFloat()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}

	if a.Type != b.Type {
		return 0, false
	}

	switch a.Type {
	case TextValue:
		return strings.Compare(a.Text, b.Text), true
	case BoolValue:
		switch {
		case a.Bool == b.Bool:
			return 0, true
		case !a.Bool:
			return -1, true
		}
		return 1, true
	case TimestampValue:
		switch {
		case a.Time.Before(b.Time):
			return -1, true
		case a.Time.After(b.Time):
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

func Equal(a, b Value) bool {
	cmp, ok := Compare(a, b)
	return ok && cmp == 0
}

// Less reports a strict ordering; incomparable pairs are never less.
func Less(a, b Value) bool {
	cmp, ok := Compare(a, b)
	return ok && cmp < 0
}

// valueJSON is the tagged wire form of a Value inside snapshots.
type valueJSON struct {
	Type  string   `json:"t"`
	Int   *int64   `json:"i,omitempty"`
	Float *float64 `json:"f,omitempty"`
	Text  *string  `json:"s,omitempty"`
	Bool  *bool    `json:"b,omitempty"`
	Time  string   `json:"ts,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	wire := valueJSON{Type: strings.ToLower(v.Type.String())}
	switch v.Type {
	case NullValue:
	case IntValue:
		wire.Int = &v.Int
	case FloatValue:
		wire.Float = &v.Float
	case TextValue:
		wire.Text = &v.Text
	case BoolValue:
		wire.Bool = &v.Bool
	case TimestampValue:
		wire.Time = v.Time.Format(TimestampLayout)
	default:
		return nil, fmt.Errorf("cannot marshal value of type %d", v.Type)
	}
	return json.Marshal(wire)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var wire valueJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch wire.Type {
	case "null", "":
		*v = Null()
	case "int":
		if wire.Int == nil {
			return fmt.Errorf("int value missing payload")
		}
		*v = NewInt(*wire.Int)
	case "float":
		if wire.Float == nil {
			return fmt.Errorf("float value missing payload")
		}
		*v = NewFloat(*wire.Float)
	case "text":
		if wire.Text == nil {
			return fmt.Errorf("text value missing payload")
		}
		*v = NewText(*wire.Text)
	case "bool":
		if wire.Bool == nil {
			return fmt.Errorf("bool value missing payload")
		}
		*v = NewBool(*wire.Bool)
	case "timestamp":
		ts, err := time.Parse(TimestampLayout, wire.Time)
		if err != nil {
			return fmt.Errorf("bad timestamp %q: %w", wire.Time, err)
		}
		*v = NewTimestamp(ts)
	default:
		return fmt.Errorf("unknown value type %q", wire.Type)
	}
	return nil
}
