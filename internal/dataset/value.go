package dataset

import (
	"strconv"
	"time"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindDate
	KindTimestamp
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

// Value is one typed cell of a dataset. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

func Null() Value                 { return Value{} }
func String(s string) Value       { return Value{kind: KindString, s: s} }
func Int(i int64) Value           { return Value{kind: KindInt, i: i} }
func Float(f float64) Value       { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value           { return Value{kind: KindBool, b: b} }
func Date(t time.Time) Value      { return Value{kind: KindDate, t: t} }
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, t: t} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the raw string for string-kind values, "" otherwise.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.s
	}
	return ""
}

func (v Value) Int() (int64, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// Float returns the numeric value for float and int kinds.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

func (v Value) Bool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

func (v Value) Time() (time.Time, bool) {
	if v.kind == KindDate || v.kind == KindTimestamp {
		return v.t, true
	}
	return time.Time{}, false
}

// String encodes the value for CSV persistence. Null encodes as the empty
// string; a fresh process reloading the file sees the same cell as null.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(dateLayout)
	case KindTimestamp:
		return v.t.Format(timestampLayout)
	default:
		return ""
	}
}
